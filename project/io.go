// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/phycons/tree"
	"github.com/js-arias/phycons/treeio"
)

// Trees reads the tree files
// as defined in a project.
// Trees from the TSV file are returned first,
// followed by the trees of the newick file.
func (p *Project) Trees() ([]*tree.Tree, error) {
	tsv := p.Path(Trees)
	nwk := p.Path(Newick)
	if tsv == "" && nwk == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}

	var trees []*tree.Tree
	if tsv != "" {
		named, err := readTSV(tsv)
		if err != nil {
			return nil, err
		}
		for _, nt := range named {
			trees = append(trees, nt.Tree)
		}
	}
	if nwk != "" {
		ts, err := readNewick(nwk)
		if err != nil {
			return nil, err
		}
		trees = append(trees, ts...)
	}
	return trees, nil
}

// NamedTrees reads the time calibrated trees
// as defined in a project.
func (p *Project) NamedTrees() ([]treeio.Named, error) {
	name := p.Path(Trees)
	if name == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}
	return readTSV(name)
}

func readTSV(name string) ([]treeio.Named, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := treeio.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return ts, nil
}

func readNewick(name string) ([]*tree.Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := treeio.ReadNewick(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return ts, nil
}
