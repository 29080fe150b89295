// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyCons is a tool for the consensus
// of phylogenetic trees.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phycons/cmd/phycons/add"
	"github.com/js-arias/phycons/cmd/phycons/clades"
	"github.com/js-arias/phycons/cmd/phycons/conscmd"
	"github.com/js-arias/phycons/cmd/phycons/support"
	"github.com/js-arias/phycons/cmd/phycons/terms"
)

var app = &command.Command{
	Usage: "phycons <command> [<argument>...]",
	Short: "a tool for the consensus of phylogenetic trees",
}

func init() {
	app.Add(add.Command)
	app.Add(clades.Command)
	app.Add(conscmd.Command)
	app.Add(support.Command)
	app.Add(terms.Command)
}

func main() {
	app.Main()
}
