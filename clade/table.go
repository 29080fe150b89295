// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clade

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/js-arias/phycons/tree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Errors returned when building a clade table.
var (
	ErrEmptyInput     = errors.New("empty input")
	ErrTipSetMismatch = errors.New("terminal set mismatch")
)

// TipSetError is returned when the terminals of a tree
// are different from the terminals of the first tree
// of the collection.
type TipSetError struct {
	// Tree is the index of the tree
	// in the collection,
	// or -1 for a tree outside the collection.
	Tree int

	Missing    []string
	Extra      []string
	Duplicated []string
}

func (e *TipSetError) Error() string {
	var b strings.Builder
	if e.Tree < 0 {
		fmt.Fprintf(&b, "reference tree: %v", ErrTipSetMismatch)
	} else {
		fmt.Fprintf(&b, "tree %d: %v", e.Tree, ErrTipSetMismatch)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing terminals: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		fmt.Fprintf(&b, ": unknown terminals: %s", strings.Join(e.Extra, ", "))
	}
	if len(e.Duplicated) > 0 {
		fmt.Fprintf(&b, ": repeated terminals: %s", strings.Join(e.Duplicated, ", "))
	}
	return b.String()
}

// Is returns true for ErrTipSetMismatch.
func (e *TipSetError) Is(target error) bool {
	return target == ErrTipSetMismatch
}

// CheckTips returns an error
// if the terminals of the tree
// are not the terminals of the universe.
// The index of the tree is used
// to report the error.
func CheckTips(i int, t *tree.Tree, u *Universe) error {
	e := &TipSetError{Tree: i}
	seen := make(map[string]bool, t.NumTips())
	for _, n := range t.Terms() {
		if seen[n] {
			e.Duplicated = append(e.Duplicated, n)
			continue
		}
		seen[n] = true
		if !u.Has(n) {
			e.Extra = append(e.Extra, n)
		}
	}
	for _, n := range u.names {
		if !seen[n] {
			e.Missing = append(e.Missing, n)
		}
	}
	if len(e.Missing) == 0 && len(e.Extra) == 0 && len(e.Duplicated) == 0 {
		return nil
	}
	slices.Sort(e.Extra)
	slices.Sort(e.Duplicated)
	e.Duplicated = slices.Compact(e.Duplicated)
	return e
}

// A Record is a clade observed in a collection of trees.
type Record struct {
	Clade Set

	// Count is the number of trees
	// in which the clade was found.
	Count int

	// Branch lengths of the clade in each tree
	// in which the clade was found.
	Dists []float64

	// Heights of the clade node.
	// In an unrooted table,
	// only trees in which the clade is not
	// the complement side of its bipartition
	// have a height.
	Heights []float64

	trees int
}

// Frequency returns the proportion of trees
// in which the clade was found.
func (r *Record) Frequency() float64 {
	if r.trees == 0 {
		return 0
	}
	return float64(r.Count) / float64(r.trees)
}

// DistStats returns the statistics
// of the clade branch lengths.
func (r *Record) DistStats() Stats {
	return NewStats(r.Dists)
}

// HeightStats returns the statistics
// of the clade heights.
func (r *Record) HeightStats() Stats {
	return NewStats(r.Heights)
}

// Stats is a summary of a sample of values.
type Stats struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64 // population standard deviation
}

// NewStats returns the summary statistics of a sample.
func NewStats(x []float64) Stats {
	if len(x) == 0 {
		return Stats{}
	}
	s := slices.Clone(x)
	slices.Sort(s)

	med := s[len(s)/2]
	if len(s)%2 == 0 {
		med = (s[len(s)/2-1] + med) / 2
	}
	return Stats{
		N:      len(x),
		Min:    floats.Min(x),
		Max:    floats.Max(x),
		Mean:   stat.Mean(x, nil),
		Median: med,
		Std:    stat.PopStdDev(x, nil),
	}
}

// CompareRecords is the canonical order of clade records:
// by frequency (from the most to the less frequent),
// then by the clade size (from the largest to the smallest),
// and then by the lexicographic order
// of the sorted terminal names.
func CompareRecords(a, b *Record) int {
	if c := cmp.Compare(b.Frequency(), a.Frequency()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Clade.Len(), a.Clade.Len()); c != 0 {
		return c
	}
	return a.Clade.Compare(b.Clade)
}

// SortRecords sorts clade records
// in the canonical order.
func SortRecords(recs []*Record) {
	slices.SortFunc(recs, CompareRecords)
}

// A Table is a collection of clade records.
type Table struct {
	u     *Universe
	opts  Options
	trees int

	full  *Record
	recs  map[string]*Record
	order []*Record
}

// Aggregate counts the clades
// of a collection of trees.
// All trees must have the same terminals.
//
// The record of the clade with all terminals
// is always present,
// with the branch lengths and heights
// of the root of each tree.
func Aggregate(trees []*tree.Tree, opts Options) (*Table, error) {
	if len(trees) == 0 {
		return nil, ErrEmptyInput
	}

	names := trees[0].Terms()
	slices.Sort(names)
	u, err := NewUniverse(slices.Compact(names))
	if err != nil {
		return nil, fmt.Errorf("tree 0: %v", err)
	}
	if u.Len() == 0 {
		return nil, fmt.Errorf("%w: trees without terminals", ErrEmptyInput)
	}
	for i, t := range trees {
		if err := CheckTips(i, t, u); err != nil {
			return nil, err
		}
	}

	splits, err := extractAll(trees, u, opts)
	if err != nil {
		return nil, err
	}

	tab := &Table{
		u:     u,
		opts:  opts,
		trees: len(trees),
		recs:  make(map[string]*Record),
	}
	full := u.Full()
	tab.full = &Record{Clade: full, trees: len(trees)}
	tab.recs[full.Key()] = tab.full

	for i, t := range trees {
		tab.add(t, splits[i])
	}

	tab.order = make([]*Record, 0, len(tab.recs))
	for _, r := range tab.recs {
		tab.order = append(tab.order, r)
	}
	SortRecords(tab.order)
	return tab, nil
}

func (tab *Table) add(t *tree.Tree, splits []Split) {
	root := t.Root()
	tab.full.Count++
	tab.full.Dists = append(tab.full.Dists, t.Dist(root))
	tab.full.Heights = append(tab.full.Heights, t.Height(root))

	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		k := s.Key.Key()
		if seen[k] {
			continue
		}
		seen[k] = true

		r, ok := tab.recs[k]
		if !ok {
			r = &Record{Clade: s.Key, trees: tab.trees}
			tab.recs[k] = r
		}
		r.Count++
		r.Dists = append(r.Dists, s.Dist)
		if !math.IsNaN(s.Height) {
			r.Heights = append(r.Heights, s.Height)
		}
	}
}

type extractJob struct {
	i  int
	t  *tree.Tree
	wg *sync.WaitGroup
}

// extractAll extracts the clades of each tree
// using a pool of goroutines.
// Results are stored by tree index,
// so the merge order is the input order.
func extractAll(trees []*tree.Tree, u *Universe, opts Options) ([][]Split, error) {
	cpu := opts.CPU
	if cpu <= 0 {
		cpu = runtime.NumCPU()
	}
	cpu = min(cpu, len(trees))

	splits := make([][]Split, len(trees))
	errs := make([]error, len(trees))

	jobs := make(chan extractJob, cpu*2)
	for range cpu {
		go func() {
			for j := range jobs {
				splits[j.i], errs[j.i] = Extract(j.t, u, opts)
				j.wg.Done()
			}
		}()
	}

	var wg sync.WaitGroup
	for i, t := range trees {
		wg.Add(1)
		jobs <- extractJob{i: i, t: t, wg: &wg}
	}
	wg.Wait()
	close(jobs)

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("tree %d: %v", i, err)
		}
	}
	return splits, nil
}

// Universe returns the terminals of the table.
func (tab *Table) Universe() *Universe {
	return tab.u
}

// Options returns the options
// used to extract the clades.
func (tab *Table) Options() Options {
	return tab.opts
}

// Trees returns the number of trees
// used to build the table.
func (tab *Table) Trees() int {
	return tab.trees
}

// Len returns the number of records in the table.
func (tab *Table) Len() int {
	return len(tab.order)
}

// Full returns the record of the clade
// with all the terminals.
func (tab *Table) Full() *Record {
	return tab.full
}

// Records returns the records of the table
// in the canonical order.
func (tab *Table) Records() []*Record {
	return slices.Clone(tab.order)
}

// Lookup returns the record of a clade.
// If the table is unrooted,
// the clade is searched by the canonical side
// of its bipartition.
func (tab *Table) Lookup(s Set) (*Record, bool) {
	if !tab.opts.IncludeRootChildren && s.Len() < tab.u.Len() {
		s = s.Canonical()
	}
	r, ok := tab.recs[s.Key()]
	return r, ok
}

// LookupClade returns the record of a clade
// only if the clade is the keyed side of the record.
// In an unrooted table,
// it fails for the complement side of a bipartition,
// so the heights of the returned record
// are always heights of the clade.
func (tab *Table) LookupClade(s Set) (*Record, bool) {
	r, ok := tab.recs[s.Key()]
	return r, ok
}
