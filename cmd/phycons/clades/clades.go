// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package clades implements a command to print
// the clade frequencies of the trees in a PhyCons project.
package clades

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phycons/clade"
	"github.com/js-arias/phycons/cmd/phycons/internal/clilog"
	"github.com/js-arias/phycons/project"
)

var Command = &command.Command{
	Usage: `clades [--min <value>] [--singletons] [--unrooted]
	[--cpu <number>] [-o|--output <file>]
	[-v|--verbose] <project-file>`,
	Short: "print the clade frequencies",
	Long: `
Command clades reads the trees of a PhyCons project and writes a table with
the frequency, branch lengths, and heights of the clades found in the trees.
All trees must have the same terminals. See "phycons help clade-table" for
the description of the table.

The argument of the command is the name of the project file.

By default, all clades are reported. Use the flag --min to report only the
clades with at least the given frequency. The value must be between 0 and 1.

By default, clades of a single terminal are not reported. Use the flag
--singletons to include them.

By default, the trees are taken as rooted trees. Use the flag --unrooted to
take the trees as unrooted; in this case the clades are the bipartitions of
the terminals.

By default, all available CPUs will be used to read the clades of the trees.
Use the flag --cpu to change the number of processors.

By default, the table is written in the standard output. Use the flag
--output, or -o, to define an output file. If an output file is defined, it
will be stored in the project as the clade table.

The flag --verbose, or -v, reports the progress of the command in the
standard error.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var minFreq float64
var singletons bool
var unrooted bool
var numCPU int
var output string
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&minFreq, "min", 0, "")
	c.Flags().BoolVar(&singletons, "singletons", false, "")
	c.Flags().BoolVar(&unrooted, "unrooted", false, "")
	c.Flags().IntVar(&numCPU, "cpu", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
	c.Flags().BoolVar(&verbose, "v", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if !(minFreq >= 0 && minFreq <= 1) {
		return c.UsageError(fmt.Sprintf("invalid --min value %g", minFreq))
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
	tab, err := clade.Aggregate(trees, clade.Options{
		ExcludeSingletons:   !singletons,
		IncludeRootChildren: !unrooted,
		CPU:                 numCPU,
	})
	if err != nil {
		return err
	}
	pg.Done(fmt.Sprintf("%d clades in %d trees", tab.Len(), tab.Trees()))

	var recs []*clade.Record
	for _, r := range tab.Records() {
		if r.Frequency() < minFreq {
			continue
		}
		recs = append(recs, r)
	}

	if output == "" {
		return clade.WriteTSV(c.Stdout(), recs)
	}
	if err := writeTable(output, recs); err != nil {
		return err
	}
	p.Add(project.Clades, output)
	return p.Write()
}

func writeTable(name string, recs []*clade.Record) (err error) {
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

	if err := clade.WriteTSV(f, recs); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
