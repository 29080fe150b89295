// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree_test

import (
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/phycons/tree"
)

// newTree returns the tree
// ((a:1,b:1):1,(c:1,(d:0.5,e:0.5):0.5):1);
func newTree(t testing.TB) *tree.Tree {
	t.Helper()

	b := tree.NewBuilder("", 0)
	ab := mustAdd(t, b, 0, "", 1)
	mustAdd(t, b, ab, "a", 1)
	mustAdd(t, b, ab, "b", 1)
	cde := mustAdd(t, b, 0, "", 1)
	mustAdd(t, b, cde, "c", 1)
	de := mustAdd(t, b, cde, "", 0.5)
	mustAdd(t, b, de, "d", 0.5)
	mustAdd(t, b, de, "e", 0.5)
	return b.Build()
}

func mustAdd(t testing.TB, b *tree.Builder, parent int, name string, dist float64) int {
	t.Helper()

	id, err := b.Add(parent, name, dist)
	if err != nil {
		t.Fatalf("unable to add node %q: %v", name, err)
	}
	return id
}

type nodeData struct {
	id     int
	name   string
	parent int
	height float64
	x      float64
}

func TestIndex(t *testing.T) {
	tr := newTree(t)

	if tr.Len() != 9 {
		t.Fatalf("nodes: got %d, want %d", tr.Len(), 9)
	}
	if tr.NumTips() != 5 {
		t.Errorf("tips: got %d, want %d", tr.NumTips(), 5)
	}
	if tr.Root() != 8 {
		t.Errorf("root: got %d, want %d", tr.Root(), 8)
	}

	want := []nodeData{
		{0, "a", 5, 0, 0},
		{1, "b", 5, 0, 1},
		{2, "c", 7, 0, 2},
		{3, "d", 6, 0, 3},
		{4, "e", 6, 0, 4},
		{5, "", 8, 1, 0.5},
		{6, "", 7, 0.5, 3.5},
		{7, "", 8, 1, 2.75},
		{8, "", -1, 2, 1.625},
	}
	testNodes(t, "index", tr, want)

	if terms := tr.Terms(); !reflect.DeepEqual(terms, []string{"a", "b", "c", "d", "e"}) {
		t.Errorf("terms: got %v", terms)
	}
	if ch := tr.Children(7); !reflect.DeepEqual(ch, []int{2, 6}) {
		t.Errorf("children of 7: got %v, want %v", ch, []int{2, 6})
	}
	if id, ok := tr.TaxNode("d"); !ok || id != 3 {
		t.Errorf("taxon d: got %d (%v), want %d", id, ok, 3)
	}
	if tips := tr.Tips(7); !reflect.DeepEqual(tips, []int{2, 3, 4}) {
		t.Errorf("tips of 7: got %v", tips)
	}
	if !tr.IsUltrametric(1e-6) {
		t.Errorf("ultrametric: got false, want true")
	}
}

func TestIdxInvariant(t *testing.T) {
	tr := newTree(t)

	for id := 0; id < tr.Len(); id++ {
		if tr.IsTerm(id) != (id < tr.NumTips()) {
			t.Errorf("node %d: terminal %v, tips %d", id, tr.IsTerm(id), tr.NumTips())
		}
		if tr.IsRoot(id) != (id == tr.Len()-1) {
			t.Errorf("node %d: root %v", id, tr.IsRoot(id))
		}
		if tr.IsRoot(id) {
			continue
		}
		if p := tr.Parent(id); p <= id {
			t.Errorf("node %d: parent %d precedes its child", id, p)
		}
	}
}

func TestReindex(t *testing.T) {
	tr := newTree(t)
	nt := tr.Reindex()

	var want []nodeData
	for id := 0; id < tr.Len(); id++ {
		want = append(want, nodeData{
			id:     id,
			name:   tr.Name(id),
			parent: tr.Parent(id),
			height: tr.Height(id),
			x:      tr.X(id),
		})
	}
	testNodes(t, "reindex", nt, want)
}

func TestSingleNode(t *testing.T) {
	tr := tree.NewBuilder("a", 0).Build()

	if tr.Len() != 1 || tr.NumTips() != 1 {
		t.Fatalf("got %d nodes and %d tips, want 1 and 1", tr.Len(), tr.NumTips())
	}
	if !tr.IsTerm(0) || !tr.IsRoot(0) {
		t.Errorf("node 0: terminal %v, root %v", tr.IsTerm(0), tr.IsRoot(0))
	}
	if terms := tr.Terms(); !reflect.DeepEqual(terms, []string{"a"}) {
		t.Errorf("terms: got %v", terms)
	}
	mt := tr.MidpointRoot()
	if mt.Len() != 1 {
		t.Errorf("midpoint: got %d nodes, want 1", mt.Len())
	}
}

func TestBuilderErrors(t *testing.T) {
	b := tree.NewBuilder("", 0)
	if _, err := b.Add(-1, "a", 1); err == nil {
		t.Errorf("parent -1: expecting error")
	}
	if _, err := b.Add(3, "a", 1); err == nil {
		t.Errorf("parent 3: expecting error")
	}
	if _, err := b.Add(0, "a", -1); err == nil {
		t.Errorf("negative length: expecting error")
	}
	if _, err := b.Add(0, "a", math.NaN()); err == nil {
		t.Errorf("NaN length: expecting error")
	}
	if b.Len() != 1 {
		t.Errorf("builder: got %d nodes, want 1", b.Len())
	}
}

func TestBuilderRootDist(t *testing.T) {
	for _, d := range []float64{-2, math.NaN(), math.Inf(1)} {
		b := tree.NewBuilder("", d)
		mustAdd(t, b, 0, "a", 1)
		mustAdd(t, b, 0, "b", 2)
		tr := b.Build()

		if rd := tr.Dist(tr.Root()); rd != 0 {
			t.Errorf("root length %v: got %v, want 0", d, rd)
		}
		if h := tr.MaxHeight(); h != 2 {
			t.Errorf("root length %v: got height %v, want 2", d, h)
		}
	}
}

func TestSupport(t *testing.T) {
	tr := newTree(t)
	if _, ok := tr.Support(5); ok {
		t.Errorf("support: unexpected value on node 5")
	}

	c := tr.Clone()
	c.SetSupport(5, 0.5)
	if s, ok := c.Support(5); !ok || s != 0.5 {
		t.Errorf("support: got %.3f (%v), want %.3f", s, ok, 0.5)
	}
	if _, ok := tr.Support(5); ok {
		t.Errorf("support: clone modified the original tree")
	}
}

func TestWithDists(t *testing.T) {
	tr := newTree(t)

	dist := make([]float64, tr.Len())
	for id := range dist {
		dist[id] = 1
	}
	dist[tr.Root()] = 0
	nt, err := tr.WithDists(dist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(nt.Terms(), tr.Terms()) {
		t.Errorf("terms: got %v, want %v", nt.Terms(), tr.Terms())
	}
	if h := nt.MaxHeight(); h != 3 {
		t.Errorf("root height: got %.3f, want %.3f", h, 3.0)
	}
	if nt.IsUltrametric(1e-6) {
		t.Errorf("ultrametric: got true, want false")
	}

	if _, err := tr.WithDists(dist[:3]); err == nil {
		t.Errorf("short slice: expecting error")
	}
}

func TestMidpointRoot(t *testing.T) {
	// (a:1,(b:1,c:5):1);
	b := tree.NewBuilder("", 0)
	mustAdd(t, b, 0, "a", 1)
	bc := mustAdd(t, b, 0, "", 1)
	mustAdd(t, b, bc, "b", 1)
	mustAdd(t, b, bc, "c", 5)
	tr := b.Build()

	mt := tr.MidpointRoot()
	if terms := mt.Terms(); !reflect.DeepEqual(terms, []string{"c", "b", "a"}) {
		t.Fatalf("terms: got %v, want %v", terms, []string{"c", "b", "a"})
	}
	if mt.Len() != 5 {
		t.Fatalf("nodes: got %d, want %d", mt.Len(), 5)
	}

	tests := map[string]struct {
		dist   float64
		height float64
	}{
		"a": {2, 0},
		"b": {1, 1},
		"c": {3.5, 0},
	}
	for n, w := range tests {
		id, _ := mt.TaxNode(n)
		if d := mt.Dist(id); math.Abs(d-w.dist) > 1e-9 {
			t.Errorf("%s: got length %.3f, want %.3f", n, d, w.dist)
		}
		if h := mt.Height(id); math.Abs(h-w.height) > 1e-9 {
			t.Errorf("%s: got height %.3f, want %.3f", n, h, w.height)
		}
	}
	if h := mt.MaxHeight(); math.Abs(h-3.5) > 1e-9 {
		t.Errorf("root height: got %.3f, want %.3f", h, 3.5)
	}
	if p := mt.Parent(3); p != mt.Root() || math.Abs(mt.Dist(3)-1.5) > 1e-9 {
		t.Errorf("node 3: parent %d, length %.3f", p, mt.Dist(3))
	}
}

func testNodes(t testing.TB, name string, tr *tree.Tree, want []nodeData) {
	t.Helper()

	for _, w := range want {
		n := tr.Node(w.id)
		if n.ID != w.id {
			t.Errorf("%s: node %d: got ID %d", name, w.id, n.ID)
		}
		if n.Name != w.name {
			t.Errorf("%s: node %d: got name %q, want %q", name, w.id, n.Name, w.name)
		}
		if p := tr.Parent(w.id); p != w.parent {
			t.Errorf("%s: node %d: got parent %d, want %d", name, w.id, p, w.parent)
		}
		if math.Abs(n.Height-w.height) > 1e-9 {
			t.Errorf("%s: node %d: got height %.3f, want %.3f", name, w.id, n.Height, w.height)
		}
		if x := tr.X(w.id); math.Abs(x-w.x) > 1e-9 {
			t.Errorf("%s: node %d: got x %.3f, want %.3f", name, w.id, x, w.x)
		}
	}
}
