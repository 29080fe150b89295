// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package clade implements the extraction of clades
// (bipartitions)
// from phylogenetic trees,
// and the count of the clade frequencies
// over a collection of trees.
package clade

import (
	"fmt"
	"math"

	"github.com/js-arias/phycons/tree"
)

// Options define how clades are extracted from a tree.
type Options struct {
	// ExcludeSingletons remove the clades
	// with a single terminal.
	ExcludeSingletons bool

	// IncludeRootChildren keeps both subtrees
	// of the root.
	// If set, clades are the rooted clades
	// of each node.
	// If not set,
	// the tree is taken as unrooted,
	// clades are identified by the canonical side
	// of the bipartition,
	// and the branches of a bifurcating root
	// are counted as a single clade.
	IncludeRootChildren bool

	// CPU is the number of goroutines
	// used for the extraction.
	// If zero, it will use all available CPUs.
	CPU int
}

// A Split is a clade extracted from a tree.
type Split struct {
	// Node is the ID of the node
	// that defines the clade.
	Node int

	// Clade is the set of terminals
	// descendant of the node.
	Clade Set

	// Key is the set used to identify the clade,
	// either the clade itself,
	// or the canonical side of its bipartition.
	Key Set

	Dist float64

	// Height of the node that defines the clade.
	// It is NaN if Key is the complement of Clade,
	// as the height of the node
	// is not the height of the keyed clade.
	Height float64
}

// Subtrees returns the set of descendant terminals
// of each node of a tree,
// in ID order.
func Subtrees(t *tree.Tree, u *Universe) ([]Set, error) {
	sets := make([]Set, t.Len())
	for id := 0; id < t.NumTips(); id++ {
		s, err := u.Set(t.Name(id))
		if err != nil {
			return nil, fmt.Errorf("node %d: %v", id, err)
		}
		sets[id] = s
	}
	for id := t.NumTips(); id < t.Len(); id++ {
		s := u.empty()
		for _, c := range t.Children(id) {
			s.b.InPlaceUnion(sets[c].b)
		}
		sets[id] = s
	}
	return sets, nil
}

// Extract returns the clades of a tree,
// one for each qualifying non-root node,
// in ID order.
// A tree with a single terminal has no clades.
//
// Clades that include all the terminals
// (the descendants of a root with a single child)
// are ignored.
// Terminals are always keyed by themselves.
func Extract(t *tree.Tree, u *Universe, opts Options) ([]Split, error) {
	if t.Len() < 2 {
		return nil, nil
	}
	sets, err := Subtrees(t, u)
	if err != nil {
		return nil, err
	}

	root := t.Root()
	rc := t.Children(root)
	biRoot := !opts.IncludeRootChildren && len(rc) == 2
	skip := -1
	if biRoot {
		// the branches of the root are a single branch,
		// defined from a terminal if possible
		skip = rc[1]
		if t.IsTerm(rc[1]) {
			skip = rc[0]
		}
		if t.IsTerm(rc[0]) && t.IsTerm(rc[1]) {
			// two terminals: both are singletons
			skip = -1
		}
	}

	var splits []Split
	for id := 0; id < root; id++ {
		if id == skip {
			continue
		}
		c := sets[id]
		key := c
		if !opts.IncludeRootChildren && !t.IsTerm(id) {
			key = c.Canonical()
		}
		if key.Len() == 0 || key.Len() == u.Len() {
			continue
		}
		if opts.ExcludeSingletons && key.Len() == 1 {
			continue
		}

		d := t.Dist(id)
		if biRoot && (id == rc[0] || id == rc[1]) {
			// single branch in the unrooted tree
			d = t.Dist(rc[0]) + t.Dist(rc[1])
		}
		h := t.Height(id)
		if !key.Equal(c) {
			h = math.NaN()
		}
		splits = append(splits, Split{
			Node:   id,
			Clade:  c,
			Key:    key,
			Dist:   d,
			Height: h,
		})
	}
	return splits, nil
}
