// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"math"
	"slices"
)

// link is an edge of the unrooted view of a tree.
type link struct {
	to      int
	dist    float64
	support float64
}

// MidpointRoot returns a new tree
// rooted at the midpoint of the longest path
// between two terminals.
//
// The support of a node is a property of its branch,
// so when a branch is reversed,
// the support moves with it.
// If the original root has two children,
// its branches are merged into a single branch.
func (t *Tree) MidpointRoot() *Tree {
	if t.ntips < 2 {
		return t.Clone()
	}

	adj := t.unrooted()
	a, _, _ := t.farthest(adj, 0)
	b, dist, prev := t.farthest(adj, a)
	total := dist[b]
	if total == 0 {
		return t.Clone()
	}

	var path []int
	for v := b; v != -1; v = prev[v] {
		path = append(path, v)
	}
	slices.Reverse(path)

	half := total / 2
	eps := total * 1e-12
	for i := 0; i < len(path)-1; i++ {
		u, w := path[i], path[i+1]
		if dist[w] < half {
			continue
		}
		if half-dist[u] <= eps {
			return t.rootAt(adj, u)
		}
		if dist[w]-half <= eps {
			return t.rootAt(adj, w)
		}
		return t.rootOnLink(adj, u, w, half-dist[u])
	}
	return t.rootAt(adj, b)
}

// unrooted returns the adjacency list
// of the unrooted view of the tree.
// Children precede the parent in each list.
func (t *Tree) unrooted() [][]link {
	root := t.Root()
	rc := t.children[root]
	skipRoot := len(rc) <= 2

	adj := make([][]link, len(t.nodes))
	for p := range t.nodes {
		if p == root && skipRoot {
			continue
		}
		for _, c := range t.children[p] {
			n := t.nodes[c]
			adj[p] = append(adj[p], link{to: c, dist: n.Dist, support: n.Support})
		}
	}
	for c, p := range t.parent {
		if p == -1 || (p == root && skipRoot) {
			continue
		}
		n := t.nodes[c]
		adj[c] = append(adj[c], link{to: p, dist: n.Dist, support: n.Support})
	}

	if len(rc) == 2 {
		l, r := t.nodes[rc[0]], t.nodes[rc[1]]
		s := l.Support
		if math.IsNaN(s) {
			s = r.Support
		}
		d := l.Dist + r.Dist
		adj[rc[0]] = append(adj[rc[0]], link{to: rc[1], dist: d, support: s})
		adj[rc[1]] = append(adj[rc[1]], link{to: rc[0], dist: d, support: s})
	}
	return adj
}

// farthest returns the terminal most distant from a node,
// and the distances and predecessors
// of every node reachable from it.
func (t *Tree) farthest(adj [][]link, from int) (int, []float64, []int) {
	dist := make([]float64, len(adj))
	prev := make([]int, len(adj))
	seen := make([]bool, len(adj))
	for i := range prev {
		prev[i] = -1
	}

	seen[from] = true
	stack := []int{from}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, l := range adj[v] {
			if seen[l.to] {
				continue
			}
			seen[l.to] = true
			dist[l.to] = dist[v] + l.dist
			prev[l.to] = v
			stack = append(stack, l.to)
		}
	}

	best := from
	for id := 0; id < t.ntips; id++ {
		if seen[id] && dist[id] > dist[best] {
			best = id
		}
	}
	return best, dist, prev
}

func (t *Tree) rootAt(adj [][]link, v int) *Tree {
	b := NewBuilder(t.nodes[v].Name, 0)
	t.addLinks(b, adj, 0, v, -1)
	return b.Build()
}

func (t *Tree) rootOnLink(adj [][]link, u, w int, d float64) *Tree {
	var l link
	for _, x := range adj[u] {
		if x.to == w {
			l = x
			break
		}
	}

	b := NewBuilder("", 0)
	uID := b.add(0, t.nodes[u].Name, d, l.support)
	t.addLinks(b, adj, uID, u, w)
	wID := b.add(0, t.nodes[w].Name, max(l.dist-d, 0), l.support)
	t.addLinks(b, adj, wID, w, u)
	return b.Build()
}

func (t *Tree) addLinks(b *Builder, adj [][]link, parent, v, from int) {
	for _, l := range adj[v] {
		if l.to == from {
			continue
		}
		id := b.add(parent, t.nodes[l.to].Name, l.dist, l.support)
		t.addLinks(b, adj, id, l.to, v)
	}
}
