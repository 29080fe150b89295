// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package consensus

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by consensus functions.
var (
	ErrThreshold = errors.New("majority-rule threshold out of range")
	ErrAssembly  = errors.New("consensus assembly incomplete")
)

// ThresholdError is returned
// when the majority-rule threshold
// is outside [0, 1].
type ThresholdError struct {
	Min float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("%v: %g", ErrThreshold, e.Min)
}

// Is returns true for ErrThreshold.
func (e *ThresholdError) Is(target error) bool {
	return target == ErrThreshold
}

func checkThreshold(min float64) error {
	if !(min >= 0 && min <= 1) {
		return &ThresholdError{Min: min}
	}
	return nil
}

// AssemblyError is returned
// when the selected clades
// do not build a single tree.
// It is an internal error,
// and should never happen with a valid clade table.
type AssemblyError struct {
	// Clade is the clade that was not placed.
	Clade []string

	// Tip is the terminal that was not placed
	// or placed more than once.
	Tip string

	Reason string
}

func (e *AssemblyError) Error() string {
	var b strings.Builder
	b.WriteString(ErrAssembly.Error())
	if len(e.Clade) > 0 {
		fmt.Fprintf(&b, ": clade {%s}", strings.Join(e.Clade, ","))
	}
	if e.Tip != "" {
		fmt.Fprintf(&b, ": terminal %q", e.Tip)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

// Is returns true for ErrAssembly.
func (e *AssemblyError) Is(target error) bool {
	return target == ErrAssembly
}

// A Warning is a negative height difference
// between a node and its parent,
// found when making a tree ultrametric.
// The branch length of the node is set to zero.
type Warning struct {
	Clade  []string
	Height float64
	Parent float64
}

// Delta returns the height difference
// between the parent and the node.
func (w Warning) Delta() float64 {
	return w.Parent - w.Height
}

func (w Warning) String() string {
	return fmt.Sprintf("clade {%s}: negative height difference %g (height %g, parent %g)", strings.Join(w.Clade, ","), w.Delta(), w.Height, w.Parent)
}
