// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	gtree "github.com/evolbioinfo/gotree/tree"
	"github.com/js-arias/phycons/tree"
)

// ReadNewick reads one or more trees in newick format.
// Each tree must end with a semicolon.
//
// Branches without length are read as zero-length branches,
// and support values of internal nodes are kept.
func ReadNewick(r io.Reader) ([]*tree.Tree, error) {
	br := bufio.NewReader(r)

	var trees []*tree.Tree
	for {
		s, err := br.ReadString(';')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s != "" {
			if !strings.HasSuffix(s, ";") {
				return nil, fmt.Errorf("tree %d: expecting ';' at the end of the tree", len(trees))
			}
			gt, perr := newick.NewParser(strings.NewReader(s)).Parse()
			if perr != nil {
				return nil, fmt.Errorf("tree %d: %v", len(trees), perr)
			}
			t, cerr := fromGoTree(gt)
			if cerr != nil {
				return nil, fmt.Errorf("tree %d: %v", len(trees), cerr)
			}
			trees = append(trees, t)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return trees, nil
}

func fromGoTree(gt *gtree.Tree) (*tree.Tree, error) {
	root := gt.Root()
	b := tree.NewBuilder(root.Name(), 0)
	if err := addGoNode(b, 0, root, nil); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func addGoNode(b *tree.Builder, parent int, n, prev *gtree.Node) error {
	edges := n.Edges()
	for i, c := range n.Neigh() {
		if c == prev {
			continue
		}
		e := edges[i]
		d := e.Length()
		if d < 0 {
			// length not defined
			d = 0
		}
		id, err := b.Add(parent, c.Name(), d)
		if err != nil {
			return err
		}
		if s := e.Support(); s >= 0 {
			b.SetSupport(id, s)
		}
		if err := addGoNode(b, id, c, n); err != nil {
			return err
		}
	}
	return nil
}

// WriteNewick writes a tree in newick format.
// Support values are written for internal nodes.
func WriteNewick(w io.Writer, t *tree.Tree) error {
	if t.Len() == 0 {
		return errors.New("empty tree")
	}
	gt := gtree.NewTree()
	root := gt.NewNode()
	root.SetName(t.Name(t.Root()))
	gt.SetRoot(root)
	addTreeNode(gt, t, root, t.Root())

	if _, err := fmt.Fprintln(w, gt.Newick()); err != nil {
		return err
	}
	return nil
}

func addTreeNode(gt *gtree.Tree, t *tree.Tree, gn *gtree.Node, id int) {
	for _, c := range t.Children(id) {
		n := gt.NewNode()
		n.SetName(t.Name(c))
		e := gt.ConnectNodes(gn, n)
		e.SetLength(t.Dist(c))
		if s, ok := t.Support(c); ok && !t.IsTerm(c) {
			e.SetSupport(s)
		}
		addTreeNode(gt, t, n, c)
	}
}
