// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(cladeTableGuide)
	app.Add(projectsGuide)
	app.Add(treeFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
PhyCons reads the trees to be summarized from one or more files. To reduce the
burden of keeping track of many files, a single project file is used to hold
the reference of all files used in the analysis. This guide explains the
structure of the file, but most of the time, the best and most secure way to
edit or view this file is by using phycons commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# phycons project files
	dataset	path
	newick	mcmc-trees.nwk
	trees	trees.tab
	consensus	consensus.nwk
	clades	clades.tab

The valid file types are:

- Time-calibrated trees. Defined by the dataset keyword "trees". This file
  contains one or more trees in the form of a tab-delimited file. The
  recommended way to add a tree file is by using the command 'phycons add'.
- Newick trees. Defined by the dataset keyword "newick". This file contains
  one or more trees in parenthetical format, for example, the trees sampled
  in a Bayesian analysis. The recommended way to add a newick file is by
  using the command 'phycons add --raw'.
- Consensus tree. Defined by the dataset keyword "consensus". This file
  contains the last consensus tree stored with the command
  'phycons consensus'.
- Clade table. Defined by the dataset keyword "clades". This file contains
  the last clade table stored with the command 'phycons clades'.

If a project has both time-calibrated and newick trees, all the trees will be
used by the commands.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
In PhyCons, phylogenetic trees can be stored in a tab-delimited file, or in
newick format.

A PhyCons tree file is a tab-delimited file with the following columns:

	-tree    for the name of the tree.
	-node    for the ID of the node.
	-parent  for of ID of the parent node (-1 is used for the root).
	-age     the age of the node (in years).
	-taxon   the taxonomic name of the node.

Here is an example file:

	# time calibrated phylogenetic tree
	tree	node	parent	age	taxon
	dinosaurs	0	-1	235000000	
	dinosaurs	1	0	230000000	Eoraptor lunensis
	dinosaurs	2	0	170000000	
	dinosaurs	3	2	145000000	Ceratosaurus nasicornis
	dinosaurs	4	2	71000000	Carnotaurus sastrei

Branch lengths of these trees are the age differences between the nodes, in
million years.

A newick file is a file with one or more trees in parenthetical format, each
tree ending with a semicolon. Branch lengths are optional, and branches
without a length are taken as zero-length branches.

When a consensus tree is stored in a tab-delimited file, an additional column
is added:

	-support  the frequency of the clade in the input trees.

In newick format, the support is written after each internal node.
	`,
}

var cladeTableGuide = &command.Command{
	Usage: "clade-table",
	Short: "about clade table files",
	Long: `
A clade table is a tab-delimited file with the clades found in a collection of
trees. The table is sorted by the frequency of the clades, from the most to
the less frequent, then by the size of the clade (from the largest to the
smallest), and then by the names of the terminals.

The table contains the following columns:

	-clade          the terminals of the clade, separated by commas.
	-size           the number of terminals in the clade.
	-count          the number of trees with the clade.
	-frequency      the proportion of trees with the clade.
	-dist           the mean branch length of the clade.
	-dist-min       the minimum branch length.
	-dist-max       the maximum branch length.
	-dist-median    the median branch length.
	-dist-sd        the standard deviation of branch lengths.
	-height         the mean height of the clade.
	-height-min     the minimum height.
	-height-max     the maximum height.
	-height-median  the median height.
	-height-sd      the standard deviation of heights.

The height of a clade is the distance from the root to the deepest terminal
of the tree, minus the distance from the root to the clade node. If the trees are taken as unrooted, each clade is the smaller side
of a bipartition of the terminals.
	`,
}
