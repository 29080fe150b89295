// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clade

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var header = []string{
	"clade",
	"size",
	"count",
	"frequency",
	"dist",
	"dist-min",
	"dist-max",
	"dist-median",
	"dist-sd",
	"height",
	"height-min",
	"height-max",
	"height-median",
	"height-sd",
}

// WriteTSV writes a list of clade records
// as a tab-delimited file.
//
// The TSV file contains the following columns:
//
//   - clade, the terminals of the clade
//     separated by commas
//   - size, the number of terminals
//   - count, the number of trees with the clade
//   - frequency, the proportion of trees with the clade
//   - dist, the mean branch length of the clade,
//     followed by the minimum, maximum, median,
//     and standard deviation
//   - height, the mean height of the clade,
//     followed by the minimum, maximum, median,
//     and standard deviation
func WriteTSV(w io.Writer, recs []*Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# clade frequencies\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, r := range recs {
		ds := r.DistStats()
		hs := r.HeightStats()
		row := []string{
			strings.Join(r.Clade.Names(), ","),
			strconv.Itoa(r.Clade.Len()),
			strconv.Itoa(r.Count),
			strconv.FormatFloat(r.Frequency(), 'f', 6, 64),
			strconv.FormatFloat(ds.Mean, 'f', 6, 64),
			strconv.FormatFloat(ds.Min, 'f', 6, 64),
			strconv.FormatFloat(ds.Max, 'f', 6, 64),
			strconv.FormatFloat(ds.Median, 'f', 6, 64),
			strconv.FormatFloat(ds.Std, 'f', 6, 64),
			strconv.FormatFloat(hs.Mean, 'f', 6, 64),
			strconv.FormatFloat(hs.Min, 'f', 6, 64),
			strconv.FormatFloat(hs.Max, 'f', 6, 64),
			strconv.FormatFloat(hs.Median, 'f', 6, 64),
			strconv.FormatFloat(hs.Std, 'f', 6, 64),
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
