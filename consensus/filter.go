// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package consensus

import (
	"slices"

	"github.com/js-arias/phycons/clade"
)

// Filter returns the clades with a frequency
// of at least min
// that are compatible with all the more frequent clades.
//
// Clades are visited in the canonical order
// (see clade.CompareRecords).
// A clade is kept if it is compatible
// with all the clades already kept.
// If a clade is in conflict with a kept clade
// of the same frequency,
// both clades are removed.
func Filter(recs []*clade.Record, min float64) ([]*clade.Record, error) {
	if err := checkThreshold(min); err != nil {
		return nil, err
	}

	cands := slices.Clone(recs)
	clade.SortRecords(cands)

	var kept []*clade.Record
	drop := make(map[*clade.Record]bool)
	for _, r := range cands {
		f := r.Frequency()
		if f < min {
			continue
		}

		ok := true
		for _, k := range kept {
			if r.Clade.Compatible(k.Clade) {
				continue
			}
			ok = false
			if f == k.Frequency() {
				drop[k] = true
			}
		}
		if ok {
			kept = append(kept, r)
		}
	}

	if len(drop) == 0 {
		return kept, nil
	}
	return slices.DeleteFunc(kept, func(r *clade.Record) bool {
		return drop[r]
	}), nil
}
