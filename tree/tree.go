// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements rooted phylogenetic trees
// with a canonical node index.
//
// Nodes are stored in an arena owned by the tree,
// and parent and children are stored as node IDs,
// so a node is never shared between trees.
// Trees are created with a Builder.
//
// The ID of a node is its canonical index:
// IDs 0 to NumTips()-1 are the terminals
// (in the left-to-right order of the input),
// the other internal nodes follow in postorder,
// and the root is always the last node,
// with ID Len()-1.
package tree

import (
	"math"
	"slices"
)

// A Node is a vertex of a tree.
type Node struct {
	// ID is the canonical index of the node.
	ID int

	// Name of the node.
	// It is usually empty for internal nodes.
	Name string

	// Dist is the branch length
	// to the parent of the node.
	Dist float64

	// Support of the node,
	// it is NaN if the value is not set.
	Support float64

	// Height is the distance between the node
	// and the most distant point of the tree
	// from the root.
	Height float64
}

// A Tree is a rooted phylogenetic tree.
type Tree struct {
	nodes    []Node
	parent   []int
	children [][]int

	// layout side table
	x []float64

	ntips int
	taxa  map[string]int
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NumTips returns the number of terminals in the tree.
func (t *Tree) NumTips() int {
	return t.ntips
}

// Root returns the ID of the root node.
// It returns -1 if the tree is empty.
func (t *Tree) Root() int {
	return len(t.nodes) - 1
}

// Parent returns the ID of the parent of a node.
// It returns -1 for the root.
func (t *Tree) Parent(id int) int {
	return t.parent[id]
}

// Children returns the IDs of the children of a node,
// in the order given by the input.
func (t *Tree) Children(id int) []int {
	return slices.Clone(t.children[id])
}

// IsTerm returns true if the node is a terminal.
func (t *Tree) IsTerm(id int) bool {
	return len(t.children[id]) == 0
}

// IsRoot returns true if the node is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	return t.parent[id] == -1
}

// Node returns a copy of a node.
func (t *Tree) Node(id int) Node {
	return t.nodes[id]
}

// Name returns the name of a node.
func (t *Tree) Name(id int) string {
	return t.nodes[id].Name
}

// Dist returns the branch length of a node.
func (t *Tree) Dist(id int) float64 {
	return t.nodes[id].Dist
}

// Support returns the support of a node,
// and false if the support is not set.
func (t *Tree) Support(id int) (float64, bool) {
	s := t.nodes[id].Support
	return s, !math.IsNaN(s)
}

// Height returns the height of a node.
func (t *Tree) Height(id int) float64 {
	return t.nodes[id].Height
}

// MaxHeight returns the height of the root.
func (t *Tree) MaxHeight() float64 {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.nodes[t.Root()].Height
}

// X returns the relative horizontal position of a node,
// as used for tree drawings.
func (t *Tree) X(id int) float64 {
	return t.x[id]
}

// SetSupport sets the support of a node.
// Use NaN to unset the support.
func (t *Tree) SetSupport(id int, s float64) {
	t.nodes[id].Support = s
}

// SetName sets the name of a node.
func (t *Tree) SetName(id int, name string) {
	if t.IsTerm(id) {
		delete(t.taxa, t.nodes[id].Name)
		if name != "" {
			t.taxa[name] = id
		}
	}
	t.nodes[id].Name = name
}

// Terms returns the names of the terminals
// in ID order.
func (t *Tree) Terms() []string {
	terms := make([]string, 0, t.ntips)
	for id := 0; id < t.ntips; id++ {
		terms = append(terms, t.nodes[id].Name)
	}
	return terms
}

// TaxNode returns the ID of the terminal
// with the given name.
func (t *Tree) TaxNode(name string) (int, bool) {
	id, ok := t.taxa[name]
	return id, ok
}

// Tips returns the IDs of the terminals
// descendant from a node.
func (t *Tree) Tips(id int) []int {
	if t.IsTerm(id) {
		return []int{id}
	}
	var tips []int
	for _, c := range t.children[id] {
		tips = append(tips, t.Tips(c)...)
	}
	return tips
}

// IsUltrametric returns true if all terminals
// have the same height,
// using tol as a tolerance
// relative to the height of the root.
func (t *Tree) IsUltrametric(tol float64) bool {
	max := t.MaxHeight()
	lim := tol
	if max > 0 {
		lim = tol * max
	}
	for id := 0; id < t.ntips; id++ {
		if t.nodes[id].Height > lim {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of a tree.
func (t *Tree) Clone() *Tree {
	nt := &Tree{
		nodes:    slices.Clone(t.nodes),
		parent:   slices.Clone(t.parent),
		children: make([][]int, len(t.children)),
		x:        slices.Clone(t.x),
		ntips:    t.ntips,
		taxa:     make(map[string]int, len(t.taxa)),
	}
	for i, c := range t.children {
		nt.children[i] = slices.Clone(c)
	}
	for n, id := range t.taxa {
		nt.taxa[n] = id
	}
	return nt
}

// WithDists returns a copy of the tree
// with the given branch lengths
// (one for each node, in ID order).
// As the topology is the same,
// node IDs are preserved.
func (t *Tree) WithDists(dist []float64) (*Tree, error) {
	if len(dist) != len(t.nodes) {
		return nil, errLen(len(dist), len(t.nodes))
	}
	a := &arena{
		nodes:    slices.Clone(t.nodes),
		parent:   slices.Clone(t.parent),
		children: make([][]int, len(t.children)),
	}
	for i, c := range t.children {
		a.children[i] = slices.Clone(c)
	}
	for id, d := range dist {
		if err := checkDist(d); err != nil {
			return nil, err
		}
		a.nodes[id].Dist = d
	}
	return a.index(t.Root()), nil
}
