// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package treeio implements reading and writing
// of phylogenetic trees
// in tab-delimited and newick formats.
package treeio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/js-arias/phycons/tree"
	"github.com/js-arias/timetree"
)

// MillionYears is the unit of branch lengths
// of trees read from time-calibrated tree files.
const MillionYears = 1_000_000

// A Named tree is a tree with a name.
type Named struct {
	Name string
	Tree *tree.Tree
}

// ReadTSV reads time-calibrated trees
// from a tab-delimited tree file.
// Branch lengths are in million years.
func ReadTSV(r io.Reader) ([]Named, error) {
	c, err := timetree.ReadTSV(r)
	if err != nil {
		return nil, err
	}

	var trees []Named
	for _, tn := range c.Names() {
		t, err := FromTimeTree(c.Tree(tn))
		if err != nil {
			return nil, fmt.Errorf("tree %q: %v", tn, err)
		}
		trees = append(trees, Named{Name: tn, Tree: t})
	}
	return trees, nil
}

// FromTimeTree returns a tree from a time-calibrated tree.
// Branch lengths are the differences of the ages
// in million years.
func FromTimeTree(tt *timetree.Tree) (*tree.Tree, error) {
	root := tt.Root()
	b := tree.NewBuilder(tt.Taxon(root), 0)
	if err := addTimeNode(b, tt, 0, root); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func addTimeNode(b *tree.Builder, tt *timetree.Tree, parent, id int) error {
	for _, c := range tt.Children(id) {
		d := float64(tt.Age(id)-tt.Age(c)) / MillionYears
		nID, err := b.Add(parent, tt.Taxon(c), d)
		if err != nil {
			return err
		}
		if err := addTimeNode(b, tt, nID, c); err != nil {
			return err
		}
	}
	return nil
}

var header = []string{
	"tree",
	"node",
	"parent",
	"age",
	"taxon",
	"support",
}

// WriteTSV writes a tree as a tab-delimited file.
//
// The file contains the following columns:
//
//   - tree, the name of the tree
//   - node, the ID of the node
//   - parent, the ID of the parent node
//     (-1 for the root)
//   - age, the height of the node in years,
//     assuming branch lengths in million years
//   - taxon, the name of the node
//   - support, the support of the node
//     (empty if not defined)
func WriteTSV(w io.Writer, name string, t *tree.Tree) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# consensus tree\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	// the root is written first
	for id := t.Len() - 1; id >= 0; id-- {
		age := int64(math.Round(t.Height(id) * MillionYears))
		sup := ""
		if s, ok := t.Support(id); ok {
			sup = strconv.FormatFloat(s, 'f', 6, 64)
		}
		row := []string{
			name,
			strconv.Itoa(id),
			strconv.Itoa(t.Parent(id)),
			strconv.FormatInt(age, 10),
			t.Name(id),
			sup,
		}
		if err := tsv.Write(row); err != nil {
			return err
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
