// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package consensus implements extended majority-rule
// consensus trees.
//
// The clades of a collection of trees are counted,
// and the most frequent clades
// that are compatible with each other
// are assembled into a single tree.
// Internal nodes of the consensus tree
// have the frequency of the clade as support.
package consensus

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/js-arias/phycons/clade"
	"github.com/js-arias/phycons/tree"
)

// Mode defines when the consensus tree
// is made ultrametric.
type Mode int

// Valid ultrametric modes.
const (
	// Auto makes the consensus ultrametric
	// if all input trees are ultrametric.
	Auto Mode = iota

	// Always makes the consensus ultrametric.
	Always

	// Never keeps the mean branch lengths.
	Never
)

// Tolerance is the relative tolerance
// used to detect ultrametric trees.
const Tolerance = 1e-6

// Options are the options for a consensus.
type Options struct {
	// Min is the minimum frequency
	// of a clade to be included in the consensus.
	Min float64

	// Ultrametric defines if the consensus
	// is made ultrametric.
	Ultrametric Mode

	// Unrooted takes the input trees as unrooted.
	Unrooted bool

	// CPU is the number of goroutines
	// used to extract the clades.
	// If zero, all available CPUs are used.
	CPU int

	// Logger is used for progress messages
	// and warnings.
	// If nil, nothing is logged.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

func (o Options) cladeOptions() clade.Options {
	return clade.Options{
		IncludeRootChildren: !o.Unrooted,
		CPU:                 o.CPU,
	}
}

// A Result is the result of a consensus.
type Result struct {
	// Tree is the consensus tree.
	Tree *tree.Tree

	// Table is the clade table
	// of the input trees.
	Table *clade.Table

	// Kept are the clades of the consensus.
	Kept []*clade.Record

	// Warnings found when making the tree ultrametric.
	Warnings []Warning
}

// Build returns the extended majority-rule consensus
// of a collection of trees.
// All trees must have the same terminals.
func Build(trees []*tree.Tree, opts Options) (*Result, error) {
	if err := checkThreshold(opts.Min); err != nil {
		return nil, err
	}
	l := opts.logger()

	tab, err := clade.Aggregate(trees, opts.cladeOptions())
	if err != nil {
		return nil, err
	}
	l.Debug("clades counted", "trees", tab.Trees(), "terminals", tab.Universe().Len(), "clades", tab.Len())

	kept, err := Filter(tab.Records(), opts.Min)
	if err != nil {
		return nil, err
	}
	l.Debug("clades selected", "min", opts.Min, "clades", len(kept))

	t, err := Assemble(tab.Universe(), kept)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Tree:  t,
		Table: tab,
		Kept:  kept,
	}

	if !makeUltrametric(trees, opts.Ultrametric) {
		return res, nil
	}
	ut, warns, err := Ultrametric(t, tab)
	if err != nil {
		return nil, err
	}
	for _, w := range warns {
		l.Warn("negative height difference", "clade", w.Clade, "delta", w.Delta())
	}
	l.Debug("ultrametric tree", "height", ut.MaxHeight())
	res.Tree = ut
	res.Warnings = warns
	return res, nil
}

func makeUltrametric(trees []*tree.Tree, m Mode) bool {
	switch m {
	case Always:
		return true
	case Never:
		return false
	}
	return IsUltrametric(trees)
}

// IsUltrametric returns true if all the trees
// are ultrametric.
func IsUltrametric(trees []*tree.Tree) bool {
	for _, t := range trees {
		if !t.IsUltrametric(Tolerance) {
			return false
		}
	}
	return true
}

// MapSupport sets the frequency of the clades
// of a collection of trees
// as the support of the nodes of a given tree.
// Clades not found in the collection have zero support.
//
// The returned tree is a copy of best,
// and the result does not include kept clades.
func MapSupport(best *tree.Tree, trees []*tree.Tree, opts Options) (*Result, error) {
	if err := checkThreshold(opts.Min); err != nil {
		return nil, err
	}
	l := opts.logger()

	tab, err := clade.Aggregate(trees, opts.cladeOptions())
	if err != nil {
		return nil, err
	}
	if err := clade.CheckTips(-1, best, tab.Universe()); err != nil {
		return nil, err
	}
	l.Debug("clades counted", "trees", tab.Trees(), "clades", tab.Len())

	sets, err := clade.Subtrees(best, tab.Universe())
	if err != nil {
		return nil, err
	}

	t := best.Clone()
	for id := t.NumTips(); id < t.Len(); id++ {
		if t.IsRoot(id) {
			t.SetSupport(id, tab.Full().Frequency())
			continue
		}
		var s float64
		if r, ok := tab.Lookup(sets[id]); ok {
			s = r.Frequency()
		}
		t.SetSupport(id, s)
	}
	for id := 0; id < t.NumTips(); id++ {
		t.SetSupport(id, math.NaN())
	}

	return &Result{
		Tree:  t,
		Table: tab,
	}, nil
}
