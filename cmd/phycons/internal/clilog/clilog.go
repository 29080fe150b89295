// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package clilog builds the loggers
// used by PhyCons commands.
package clilog

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger that writes to w.
// By default only warnings and errors are reported,
// if verbose is set,
// debug messages are also reported.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "phycons",
	})
}

// A Progress reports the time used by an operation.
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress starts a progress report.
func NewProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Done reports the message
// with the elapsed time since the start of the progress.
func (p *Progress) Done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
