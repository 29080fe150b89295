// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terms implements a command to print
// the list of the terminals in the trees of a PhyCons project.
package terms

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/js-arias/command"
	"github.com/js-arias/phycons/clade"
	"github.com/js-arias/phycons/cmd/phycons/internal/clilog"
	"github.com/js-arias/phycons/project"
)

var Command = &command.Command{
	Usage: "terms [--check] [-v|--verbose] <project-file>",
	Short: "print a list of tree terminals",
	Long: `
Command terms reads the trees from a PhyCons project and prints the name of
the terminals in the standard output.

The argument of the command is the name of the project file.

By default, all terminals found in any tree will be printed. If the flag
--check is set, each tree will be compared with the first tree of the
project, and the trees with a different set of terminals will be reported,
with the missing, unknown, or repeated terminals. Consensus commands require
that all trees have the same terminals.

The flag --verbose, or -v, reports the progress of the command in the
standard error.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var checkFlag bool
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&checkFlag, "check", false, "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
	c.Flags().BoolVar(&verbose, "v", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
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
	if len(trees) == 0 {
		return nil
	}

	terms := make(map[string]bool)
	for _, t := range trees {
		for _, tax := range t.Terms() {
			terms[tax] = true
		}
	}
	ls := make([]string, 0, len(terms))
	for tax := range terms {
		ls = append(ls, tax)
	}
	slices.Sort(ls)

	if !checkFlag {
		for _, term := range ls {
			fmt.Fprintf(c.Stdout(), "%s\n", term)
		}
		return nil
	}

	names := trees[0].Terms()
	slices.Sort(names)
	u, err := clade.NewUniverse(slices.Compact(names))
	if err != nil {
		return fmt.Errorf("tree 0: %v", err)
	}
	var bad int
	for i, t := range trees {
		err := clade.CheckTips(i, t, u)
		if err == nil {
			continue
		}
		var tsErr *clade.TipSetError
		if !errors.As(err, &tsErr) {
			return err
		}
		bad++
		fmt.Fprintf(c.Stdout(), "%v\n", tsErr)
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d trees: %w", bad, len(trees), clade.ErrTipSetMismatch)
	}
	for _, term := range ls {
		fmt.Fprintf(c.Stdout(), "%s\n", term)
	}
	return nil
}
