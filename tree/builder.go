// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"math"
)

// arena stores nodes by position,
// with parent and children as positions.
type arena struct {
	nodes    []Node
	parent   []int
	children [][]int
}

// A Builder is used to build a tree.
//
// Nodes can only be attached to nodes
// already in the builder,
// so the resulting graph is always a tree.
type Builder struct {
	a arena
}

// NewBuilder returns a builder
// with a root node of the given name
// and branch length.
// The ID of the root in the builder is 0.
//
// The root branch does not define any clade,
// so an invalid root branch length
// (negative, NaN, or infinite)
// is set to zero.
func NewBuilder(name string, dist float64) *Builder {
	if checkDist(dist) != nil {
		dist = 0
	}
	b := &Builder{}
	b.a.nodes = append(b.a.nodes, Node{
		Name:    name,
		Dist:    dist,
		Support: math.NaN(),
	})
	b.a.parent = append(b.a.parent, -1)
	b.a.children = append(b.a.children, nil)
	return b
}

// Len returns the number of nodes in the builder.
func (b *Builder) Len() int {
	return len(b.a.nodes)
}

// Add adds a new node as the last child
// of the given parent.
// It returns the builder ID of the new node.
//
// Builder IDs are not the IDs of the nodes
// in the built tree.
func (b *Builder) Add(parent int, name string, dist float64) (int, error) {
	if parent < 0 || parent >= len(b.a.nodes) {
		return -1, fmt.Errorf("tree: parent node %d not found", parent)
	}
	if err := checkDist(dist); err != nil {
		return -1, fmt.Errorf("tree: node %q: %v", name, err)
	}

	return b.add(parent, name, dist, math.NaN()), nil
}

func (b *Builder) add(parent int, name string, dist, support float64) int {
	id := len(b.a.nodes)
	b.a.nodes = append(b.a.nodes, Node{
		Name:    name,
		Dist:    dist,
		Support: support,
	})
	b.a.parent = append(b.a.parent, parent)
	b.a.children = append(b.a.children, nil)
	b.a.children[parent] = append(b.a.children[parent], id)
	return id
}

// SetSupport sets the support value
// of a node in the builder.
func (b *Builder) SetSupport(id int, s float64) {
	b.a.nodes[id].Support = s
}

// Build returns a new indexed tree
// from the nodes in the builder.
// The builder can still be used after calling Build.
func (b *Builder) Build() *Tree {
	return b.a.index(0)
}

func checkDist(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("invalid branch length %v", d)
	}
	if d < 0 {
		return fmt.Errorf("negative branch length %v", d)
	}
	return nil
}

func errLen(got, want int) error {
	return fmt.Errorf("tree: got %d branch lengths, want %d", got, want)
}
