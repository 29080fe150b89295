// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clade_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/phycons/clade"
	"github.com/js-arias/phycons/tree"
	"github.com/js-arias/phycons/treeio"
)

func readTrees(t testing.TB, data string) []*tree.Tree {
	t.Helper()

	trees, err := treeio.ReadNewick(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unable to read trees: %v", err)
	}
	return trees
}

func universe(t testing.TB, tr *tree.Tree) *clade.Universe {
	t.Helper()

	u, err := clade.NewUniverse(tr.Terms())
	if err != nil {
		t.Fatalf("unable to build universe: %v", err)
	}
	return u
}

func TestExtract(t *testing.T) {
	tr := readTrees(t, "((a:1,b:1):1,(c:1,(d:0.5,e:0.5):0.5):1);")[0]
	u := universe(t, tr)

	tests := map[string]struct {
		opts  clade.Options
		want  []string
		nodes []int
	}{
		"rooted": {
			opts:  clade.Options{ExcludeSingletons: true, IncludeRootChildren: true},
			want:  []string{"{a,b}", "{d,e}", "{c,d,e}"},
			nodes: []int{5, 6, 7},
		},
		"unrooted": {
			opts:  clade.Options{ExcludeSingletons: true},
			want:  []string{"{a,b}", "{d,e}"},
			nodes: []int{5, 6},
		},
		"singletons": {
			opts:  clade.Options{IncludeRootChildren: true},
			want:  []string{"{a}", "{b}", "{c}", "{d}", "{e}", "{a,b}", "{d,e}", "{c,d,e}"},
			nodes: []int{0, 1, 2, 3, 4, 5, 6, 7},
		},
	}

	for name, test := range tests {
		splits, err := clade.Extract(tr, u, test.opts)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		var got []string
		var nodes []int
		for _, s := range splits {
			got = append(got, s.Key.String())
			nodes = append(nodes, s.Node)
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v, want %v", name, got, test.want)
		}
		if !reflect.DeepEqual(nodes, test.nodes) {
			t.Errorf("%s: nodes: got %v, want %v", name, nodes, test.nodes)
		}
	}
}

func TestExtractUnrootedLength(t *testing.T) {
	tr := readTrees(t, "((a:1,b:1):1,(c:1,(d:0.5,e:0.5):0.5):2);")[0]
	u := universe(t, tr)

	splits, err := clade.Extract(tr, u, clade.Options{ExcludeSingletons: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(splits) == 0 || splits[0].Key.String() != "{a,b}" {
		t.Fatalf("got %v, want {a,b} as first split", splits)
	}
	if d := splits[0].Dist; d != 3 {
		t.Errorf("root branch: got length %.3f, want %.3f", d, 3.0)
	}
}

func TestExtractCount(t *testing.T) {
	// fully resolved trees with n terminals
	// have n-2 clades in a rooted tree,
	// and n-3 clades in an unrooted tree.
	data := `((a,b),(c,(d,e)));
(a,(b,(c,(d,(e,f)))));
(((a,b),(c,d)),((e,f),(g,h)));
`
	for i, tr := range readTrees(t, data) {
		u := universe(t, tr)
		n := tr.NumTips()

		rooted, err := clade.Extract(tr, u, clade.Options{ExcludeSingletons: true, IncludeRootChildren: true})
		if err != nil {
			t.Fatalf("tree %d: unexpected error: %v", i, err)
		}
		if len(rooted) != n-2 {
			t.Errorf("tree %d: rooted: got %d clades, want %d", i, len(rooted), n-2)
		}

		unrooted, err := clade.Extract(tr, u, clade.Options{ExcludeSingletons: true})
		if err != nil {
			t.Fatalf("tree %d: unexpected error: %v", i, err)
		}
		if len(unrooted) != n-3 {
			t.Errorf("tree %d: unrooted: got %d clades, want %d", i, len(unrooted), n-3)
		}

		all, err := clade.Extract(tr, u, clade.Options{IncludeRootChildren: true})
		if err != nil {
			t.Fatalf("tree %d: unexpected error: %v", i, err)
		}
		if len(all) != 2*n-2 {
			t.Errorf("tree %d: with singletons: got %d clades, want %d", i, len(all), 2*n-2)
		}
		for _, s := range all {
			if s.Clade.Len() >= n {
				t.Errorf("tree %d: clade %v with all terminals", i, s.Clade)
			}
		}
	}
}

func TestExtractSingleLeaf(t *testing.T) {
	tr := tree.NewBuilder("a", 0).Build()
	u := universe(t, tr)

	splits, err := clade.Extract(tr, u, clade.Options{IncludeRootChildren: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(splits) != 0 {
		t.Errorf("got %d clades, want 0", len(splits))
	}
}

func TestExtractTwoTerminals(t *testing.T) {
	tr := readTrees(t, "(a:1,b:1);")[0]
	u := universe(t, tr)

	splits, err := clade.Extract(tr, u, clade.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, s := range splits {
		got = append(got, s.Key.String())
		if s.Dist != 2 {
			t.Errorf("clade %v: got length %.3f, want %.3f", s.Key, s.Dist, 2.0)
		}
	}
	if want := []string{"{a}", "{b}"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractUnrootedHeight(t *testing.T) {
	tr := readTrees(t, "(a:5,(b:4,(c:3,(d:2,(e:1,f:1):1):1):1):1);")[0]
	u := universe(t, tr)

	splits, err := clade.Extract(tr, u, clade.Options{ExcludeSingletons: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	heights := make(map[string]float64)
	for _, s := range splits {
		heights[s.Key.String()] = s.Height
	}
	if len(heights) != 3 {
		t.Errorf("got %d clades, want %d", len(heights), 3)
	}

	// keyed by the complement of the node clade
	for _, k := range []string{"{a,b}", "{a,b,c}"} {
		h, ok := heights[k]
		if !ok {
			t.Errorf("clade %s not found", k)
			continue
		}
		if !math.IsNaN(h) {
			t.Errorf("clade %s: got height %.3f, want NaN", k, h)
		}
	}
	if h := heights["{e,f}"]; h != 1 {
		t.Errorf("clade {e,f}: got height %.3f, want %.3f", h, 1.0)
	}
}
