// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package support implements a command
// to set clade frequencies as the support
// of the nodes of a given tree.
package support

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phycons/cmd/phycons/internal/clilog"
	"github.com/js-arias/phycons/consensus"
	"github.com/js-arias/phycons/project"
	"github.com/js-arias/phycons/tree"
	"github.com/js-arias/phycons/treeio"
)

var Command = &command.Command{
	Usage: `support --best <newick-file> [--unrooted]
	[--cpu <number>] [--format <format>] [-o|--output <file>]
	[-v|--verbose] <project-file>`,
	Short: "map clade frequencies on a tree",
	Long: `
Command support reads the trees of a PhyCons project, and a given tree (for
example, the best tree of an analysis), and sets the frequency of each clade
of the given tree in the project trees as the support of the clade. Clades of
the given tree not found in the project trees will have a support of zero.
The given tree must have the same terminals as the project trees.

The argument of the command is the name of the project file.

The flag --best is required, and defines a file with the tree in newick
format. If the file has more than one tree, only the first tree will be used.

By default, the trees are taken as rooted trees. Use the flag --unrooted to
take the trees as unrooted; in this case the clades are the bipartitions of
the terminals.

By default, all available CPUs will be used to read the clades of the trees.
Use the flag --cpu to change the number of processors.

By default, the tree is written in the standard output in newick format. Use
the flag --format with "tsv" to write the tree as a tab-delimited tree file.
Use the flag --output, or -o, to define an output file.

The flag --verbose, or -v, reports the progress of the command in the
standard error.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var bestFile string
var unrooted bool
var numCPU int
var format string
var output string
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&bestFile, "best", "", "")
	c.Flags().BoolVar(&unrooted, "unrooted", false, "")
	c.Flags().IntVar(&numCPU, "cpu", 0, "")
	c.Flags().StringVar(&format, "format", "newick", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
	c.Flags().BoolVar(&verbose, "v", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if bestFile == "" {
		return c.UsageError("expecting tree file, flag --best")
	}
	format = strings.ToLower(format)
	if format != "newick" && format != "tsv" {
		return c.UsageError(fmt.Sprintf("unknown format %q", format))
	}
	l := clilog.New(os.Stderr, verbose)

	best, err := readBest(bestFile)
	if err != nil {
		return err
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	trees, err := p.Trees()
	if err != nil {
		return err
	}
	l.Debug("trees read", "project", p.Name(), "trees", len(trees))

	res, err := consensus.MapSupport(best, trees, consensus.Options{
		Unrooted: unrooted,
		CPU:      numCPU,
		Logger:   l,
	})
	if err != nil {
		return err
	}

	if output == "" {
		return writeTree(c.Stdout(), res.Tree)
	}
	return writeFile(output, res.Tree)
}

func readBest(name string) (*tree.Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := treeio.ReadNewick(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("while reading file %q: no trees", name)
	}
	return ts[0], nil
}

func writeTree(w io.Writer, t *tree.Tree) error {
	if format == "tsv" {
		return treeio.WriteTSV(w, "support", t)
	}
	return treeio.WriteNewick(w, t)
}

func writeFile(name string, t *tree.Tree) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := writeTree(f, t); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
