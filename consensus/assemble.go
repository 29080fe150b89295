// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package consensus

import (
	"cmp"
	"slices"

	"github.com/js-arias/phycons/clade"
	"github.com/js-arias/phycons/tree"
)

type placed struct {
	set clade.Set
	id  int
}

// Assemble builds a tree from a set of compatible clades.
//
// The clades must include the clade with all terminals,
// and the clade of each terminal.
// Each clade is attached to the smallest clade
// that includes it,
// so the clade with all terminals is the root.
// Internal nodes have the clade frequency as support,
// and the mean of the clade branch lengths
// as branch length.
func Assemble(u *clade.Universe, recs []*clade.Record) (*tree.Tree, error) {
	cls := slices.Clone(recs)
	slices.SortFunc(cls, func(a, b *clade.Record) int {
		if c := cmp.Compare(b.Clade.Len(), a.Clade.Len()); c != 0 {
			return c
		}
		return a.Clade.Compare(b.Clade)
	})
	if len(cls) == 0 || cls[0].Clade.Len() != u.Len() {
		return nil, &AssemblyError{Reason: "clade with all terminals not found"}
	}

	root := cls[0]
	b := tree.NewBuilder(nodeName(root.Clade), root.DistStats().Mean)
	if root.Clade.Len() > 1 {
		b.SetSupport(0, root.Frequency())
	}
	pl := []placed{{set: root.Clade, id: 0}}

	for _, r := range cls[1:] {
		if r.Clade.Equal(pl[len(pl)-1].set) {
			// repeated clade
			continue
		}

		parent := -1
		for i := len(pl) - 1; i >= 0; i-- {
			if pl[i].set.IsStrictSuperset(r.Clade) {
				parent = pl[i].id
				break
			}
		}
		if parent < 0 {
			return nil, &AssemblyError{
				Clade:  r.Clade.Names(),
				Reason: "without an including clade",
			}
		}

		id, err := b.Add(parent, nodeName(r.Clade), r.DistStats().Mean)
		if err != nil {
			return nil, &AssemblyError{
				Clade:  r.Clade.Names(),
				Reason: err.Error(),
			}
		}
		if r.Clade.Len() > 1 {
			b.SetSupport(id, r.Frequency())
		}
		pl = append(pl, placed{set: r.Clade, id: id})
	}

	t := b.Build()
	if err := checkTerms(u, t); err != nil {
		return nil, err
	}
	if err := checkClades(u, t, pl); err != nil {
		return nil, err
	}
	return t, nil
}

// checkClades checks that each placed clade
// is the set of terminals of a node of the tree.
func checkClades(u *clade.Universe, t *tree.Tree, pl []placed) error {
	sets, err := clade.Subtrees(t, u)
	if err != nil {
		return &AssemblyError{Reason: err.Error()}
	}
	found := make(map[string]bool, len(sets))
	for _, s := range sets {
		found[s.Key()] = true
	}
	for _, p := range pl {
		if !found[p.set.Key()] {
			return &AssemblyError{
				Clade:  p.set.Names(),
				Reason: "clade not recovered in the tree",
			}
		}
	}
	return nil
}

// nodeName returns the name of the terminal
// of a single terminal clade.
func nodeName(s clade.Set) string {
	if s.Len() != 1 {
		return ""
	}
	return s.Names()[0]
}

// checkTerms checks that each terminal of the universe
// is found exactly once in the tree.
func checkTerms(u *clade.Universe, t *tree.Tree) error {
	seen := make(map[string]bool, t.NumTips())
	for _, n := range t.Terms() {
		if n == "" {
			return &AssemblyError{Reason: "internal clade without descendants"}
		}
		if seen[n] {
			return &AssemblyError{Tip: n, Reason: "placed more than once"}
		}
		if !u.Has(n) {
			return &AssemblyError{Tip: n, Reason: "not in the terminal set"}
		}
		seen[n] = true
	}
	for _, n := range u.Names() {
		if !seen[n] {
			return &AssemblyError{Tip: n, Reason: "not placed"}
		}
	}
	return nil
}
