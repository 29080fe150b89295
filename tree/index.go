// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

// index returns the tree nodes
// reachable from root
// as a new tree in canonical index order.
//
// Nodes are expanded using a stack,
// so children are discovered from right to left.
// Terminals receive IDs in the reverse discovery order,
// and internal nodes are numbered
// in the reverse order of their expansion,
// so children always precede their parents
// and the root is the last node.
func (a *arena) index(root int) *Tree {
	depth := make([]float64, len(a.nodes))
	var tips, inner []int
	var maxDepth float64

	stack := []int{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id != root {
			depth[id] = depth[a.parent[id]] + a.nodes[id].Dist
		}
		if depth[id] > maxDepth {
			maxDepth = depth[id]
		}

		if len(a.children[id]) == 0 {
			tips = append(tips, id)
			continue
		}
		inner = append(inner, id)
		stack = append(stack, a.children[id]...)
	}

	order := make([]int, 0, len(tips)+len(inner))
	for i := len(tips) - 1; i >= 0; i-- {
		order = append(order, tips[i])
	}
	for i := len(inner) - 1; i >= 0; i-- {
		order = append(order, inner[i])
	}
	newID := make(map[int]int, len(order))
	for i, id := range order {
		newID[id] = i
	}

	t := &Tree{
		nodes:    make([]Node, len(order)),
		parent:   make([]int, len(order)),
		children: make([][]int, len(order)),
		x:        make([]float64, len(order)),
		ntips:    len(tips),
		taxa:     make(map[string]int, len(tips)),
	}
	for i, id := range order {
		n := a.nodes[id]
		n.ID = i
		n.Height = maxDepth - depth[id]
		t.nodes[i] = n

		t.parent[i] = -1
		if id != root {
			t.parent[i] = newID[a.parent[id]]
		}
		if len(a.children[id]) > 0 {
			ch := make([]int, 0, len(a.children[id]))
			for _, c := range a.children[id] {
				ch = append(ch, newID[c])
			}
			t.children[i] = ch
		}
	}

	for i := 0; i < t.ntips; i++ {
		t.x[i] = float64(i)
		if n := t.nodes[i].Name; n != "" {
			t.taxa[n] = i
		}
	}
	for i := t.ntips; i < len(order); i++ {
		var sum float64
		for _, c := range t.children[i] {
			sum += t.x[c]
		}
		t.x[i] = sum / float64(len(t.children[i]))
	}
	return t
}

// Reindex returns a new tree
// with the nodes of t in canonical index order.
// On an already indexed tree,
// the IDs, heights, and positions are unchanged.
func (t *Tree) Reindex() *Tree {
	if len(t.nodes) == 0 {
		return &Tree{taxa: make(map[string]int)}
	}
	a := &arena{
		nodes:    t.nodes,
		parent:   t.parent,
		children: t.children,
	}
	return a.index(t.Root())
}
