// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/repobatch/internal/color"
)

const (
	tablePadding = 2
	csiStart     = '\x1b'
	csiEnd       = 'm'
)

// Table renders rows in aligned columns. Column headers are underlined when
// color output is enabled. Alignment is computed from the visible width of
// each cell, so colored cells line up with plain ones.
type Table struct {
	w       io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers writing to w.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:       w,
		headers: headers,
	}
}

// AddRow appends one row. Extra cells beyond the header count are kept;
// missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Flush writes the aligned table to the underlying writer.
func (t *Table) Flush() error {
	widths := make([]int, len(t.headers))

	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}

			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	styled := make([]string, 0, len(t.headers))
	for _, h := range t.headers {
		styled = append(styled, color.Colorize(h, color.Bold, color.Underline))
	}

	if err := t.writeRow(styled, widths); err != nil {
		return err
	}

	for _, row := range t.rows {
		if err := t.writeRow(row, widths); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) writeRow(cells []string, widths []int) error {
	sb := strings.Builder{}

	for i, cell := range cells {
		sb.WriteString(cell)

		if i == len(cells)-1 {
			break
		}

		pad := tablePadding
		if i < len(widths) {
			pad += widths[i] - visibleWidth(cell)
		}

		sb.WriteString(strings.Repeat(" ", pad))
	}

	_, err := fmt.Fprintln(t.w, sb.String())

	return err
}

// visibleWidth counts the printable runes of a cell, skipping ANSI escape
// sequences so colored text does not distort column alignment.
func visibleWidth(s string) int {
	width := 0
	inEscape := false

	for _, r := range s {
		switch {
		case inEscape:
			if r == csiEnd {
				inEscape = false
			}
		case r == csiStart:
			inEscape = true
		default:
			width++
		}
	}

	return width
}
