// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package progress provides an in-place terminal progress bar used while
// panels are rendered or copied. On non-terminal output the bar degrades
// to silence so piped or logged runs stay clean.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	fillStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#20B9B4"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
)

// DefaultLength is the character width of a completed bar.
const DefaultLength = 50

// Bar tracks iteration progress and redraws itself on a single line.
type Bar struct {
	total   int
	prefix  string
	suffix  string
	length  int
	current int
	out     io.Writer
	enabled bool
}

// New creates a progress bar for the expected number of iterations,
// writing to stdout. The bar is disabled when stdout is not a terminal.
func New(total int, prefix string) *Bar {
	enabled := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &Bar{
		total:   total,
		prefix:  prefix,
		suffix:  "Complete",
		length:  DefaultLength,
		out:     os.Stdout,
		enabled: enabled,
	}
}

// NewWriter creates a progress bar writing to an explicit destination,
// always enabled. Intended for tests and non-standard sinks.
func NewWriter(total int, prefix string, w io.Writer) *Bar {
	return &Bar{
		total:   total,
		prefix:  prefix,
		suffix:  "Complete",
		length:  DefaultLength,
		out:     w,
		enabled: true,
	}
}

// RecordProgress redraws the bar at the current iteration and advances the
// internal count by one.
func (b *Bar) RecordProgress() {
	b.drawAt(b.current)
	b.current++
}

// drawAt renders the bar at the given iteration count.
func (b *Bar) drawAt(iteration int) {
	if !b.enabled || b.total <= 0 {
		return
	}
	percent := 100 * float64(iteration) / float64(b.total)
	filled := b.length * iteration / b.total
	bar := fillStyle.Render(strings.Repeat("█", filled)) +
		strings.Repeat("-", b.length-filled)
	fmt.Fprintf(b.out, "\r%s %s%s%s %.1f%% %s",
		b.prefix, borderStyle.Render("|"), bar, borderStyle.Render("|"),
		percent, b.suffix)

	if iteration == b.total {
		b.Finish()
	}
}

// Finish terminates the in-place line. Call after the tracked iteration
// completes.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}
	fmt.Fprintln(b.out)
}
