// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package conscmd implements a command
// to build the extended majority-rule consensus
// of the trees in a PhyCons project.
package conscmd

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
	Usage: `consensus [--min <value>] [--ultrametric <mode>]
	[--unrooted] [--cpu <number>]
	[--format <format>] [-o|--output <file>]
	[-v|--verbose] <project-file>`,
	Short: "build a majority-rule consensus tree",
	Long: `
Command consensus reads the trees of a PhyCons project and builds an extended
majority-rule consensus tree. All trees must have the same terminals.

The argument of the command is the name of the project file.

The clades of the trees are counted, and then, from the most frequent to the
less frequent, each clade is added to the consensus if it is compatible with
all the clades already added. If two clades in conflict have the same
frequency, both clades are removed. Each internal node of the consensus tree
has the frequency of its clade as support, and the mean branch length of the
clade as branch length.

By default, all compatible clades are added (i.e., a fully resolved consensus
if possible). Use the flag --min to set the minimum frequency of a clade to be
included. For example, --min 0.5 produces the classic majority-rule
consensus. The value must be between 0 and 1.

By default, the trees are taken as rooted trees. Use the flag --unrooted to
take the trees as unrooted; in this case the clades are the bipartitions of
the terminals.

The flag --ultrametric defines if the consensus tree is made ultrametric, using
the mean heights of the clades. Valid values are:

	auto  the consensus is ultrametric if all the trees are ultrametric.
	      This is the default.
	yes   the consensus is always ultrametric.
	no    the branch lengths are the mean branch lengths.

When the consensus is made ultrametric, the tree is rooted at its midpoint. If
a clade has a height larger than the height of its parent, the branch length
will be set to zero, and a warning will be reported.

By default, all available CPUs will be used to read the clades of the trees.
Use the flag --cpu to change the number of processors.

By default, the consensus tree is written in the standard output in newick
format. Use the flag --format with "tsv" to write the tree as a tab-delimited
tree file. Use the flag --output, or -o, to define an output file. If an
output file is defined, it will be stored in the project as the consensus
tree.

The flag --verbose, or -v, reports the progress of the command in the
standard error.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var minFreq float64
var ultraFlag string
var unrooted bool
var numCPU int
var format string
var output string
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&minFreq, "min", 0, "")
	c.Flags().StringVar(&ultraFlag, "ultrametric", "auto", "")
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
	mode, err := parseMode(ultraFlag)
	if err != nil {
		return c.UsageError(err.Error())
	}
	format = strings.ToLower(format)
	if format != "newick" && format != "tsv" {
		return c.UsageError(fmt.Sprintf("unknown format %q", format))
	}
	l := clilog.New(os.Stderr, verbose)

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	trees, err := p.Trees()
	if err != nil {
		return err
	}
	l.Debug("trees read", "project", p.Name(), "trees", len(trees))

	pg := clilog.NewProgress(l)
	res, err := consensus.Build(trees, consensus.Options{
		Min:         minFreq,
		Ultrametric: mode,
		Unrooted:    unrooted,
		CPU:         numCPU,
		Logger:      l,
	})
	if err != nil {
		return err
	}
	pg.Done(fmt.Sprintf("consensus of %d trees with %d clades", res.Table.Trees(), len(res.Kept)))

	if output == "" {
		return writeTree(c.Stdout(), res.Tree)
	}
	if err := writeFile(output, res.Tree); err != nil {
		return err
	}
	p.Add(project.Consensus, output)
	return p.Write()
}

func parseMode(s string) (consensus.Mode, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return consensus.Auto, nil
	case "yes", "true", "always":
		return consensus.Always, nil
	case "no", "false", "never":
		return consensus.Never, nil
	}
	return consensus.Auto, fmt.Errorf("unknown ultrametric mode %q", s)
}

func writeTree(w io.Writer, t *tree.Tree) error {
	if format == "tsv" {
		return treeio.WriteTSV(w, "consensus", t)
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
