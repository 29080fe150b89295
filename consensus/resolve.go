// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package consensus

import (
	"github.com/js-arias/phycons/clade"
	"github.com/js-arias/phycons/tree"
)

// Ultrametric returns an ultrametric version of a tree
// using the clade heights stored in a table.
//
// The tree is rooted at its midpoint.
// Terminals are set at height zero,
// and internal nodes at the mean height of their clade.
// Nodes whose clade is not in the table,
// or without height samples,
// use the largest height of their children
// plus the branch length of that child.
// Branch lengths are the height differences
// between a node and its parent;
// a negative difference is set to zero
// and reported as a warning.
func Ultrametric(t *tree.Tree, tab *clade.Table) (*tree.Tree, []Warning, error) {
	mt := t.MidpointRoot()
	sets, err := clade.Subtrees(mt, tab.Universe())
	if err != nil {
		return nil, nil, err
	}

	height := make([]float64, mt.Len())
	for id := mt.NumTips(); id < mt.Len(); id++ {
		if r, ok := tab.LookupClade(sets[id]); ok && len(r.Heights) > 0 {
			height[id] = r.HeightStats().Mean
			continue
		}
		for _, c := range mt.Children(id) {
			height[id] = max(height[id], height[c]+mt.Dist(c))
		}
	}

	var warns []Warning
	dist := make([]float64, mt.Len())
	for id := 0; id < mt.Root(); id++ {
		p := mt.Parent(id)
		d := height[p] - height[id]
		if d < 0 {
			warns = append(warns, Warning{
				Clade:  sets[id].Names(),
				Height: height[id],
				Parent: height[p],
			})
			d = 0
		}
		dist[id] = d
	}

	ut, err := mt.WithDists(dist)
	if err != nil {
		return nil, nil, err
	}
	if ut.Len() > 1 {
		ut.SetSupport(ut.Root(), tab.Full().Frequency())
	}
	return ut, warns, nil
}
