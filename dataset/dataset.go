// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset provides the in-memory column-oriented table that display
// inference runs over.
//
// A Dataset is a read-mostly collection of named columns. Each column holds
// untyped values ([]any) because real display inputs are heterogeneous:
// a column may hold strings, numbers, times, or opaque renderable figure
// objects. Type classification is performed by sampling actual element
// values (see the checks package), not by a declared column type.
//
// Datasets may carry group-by state: a set of grouping columns recorded by
// GroupBy. ResetIndex flattens that state back to plain columns, mirroring
// what happens when a grouped table is handed to display inference.
//
// # Mutation Contract
//
// Dataset methods that change data (SetColumn, SetFactor, RenameColumn,
// GroupBy, ResetIndex) mutate the receiver. Callers that need
// copy-on-write semantics call Copy first; the display orchestrator does
// this for every cast so the caller's dataset is never altered.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for dataset operations.
var (
	// ErrNoSuchColumn is returned when a named column does not exist.
	ErrNoSuchColumn = errors.New("no such column")

	// ErrLengthMismatch is returned when a column's length does not match
	// the number of rows already in the dataset.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrNotFactor is returned when factor-only operations are applied to
	// a column that has not been marked categorical.
	ErrNotFactor = errors.New("column is not a factor")
)

// Renderable is the capability a figure object must expose so a panel
// column can be materialized to a file. Plot values stored in a dataset
// column implement this instead of being probed for ad-hoc attributes.
type Renderable interface {
	// RenderTo writes the figure to the given path. The file extension of
	// path decides the output format.
	RenderTo(path string) error
}

// Column is one named column of a Dataset.
//
// A column may be marked as a factor (categorical), in which case it
// carries an ordered list of levels and its values are expected to be
// strings drawn from those levels.
type Column struct {
	name   string
	values []any
	factor bool
	levels []string
}

// NewColumn creates a plain (non-factor) column.
func NewColumn(name string, values []any) *Column {
	return &Column{name: name, values: values}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Len returns the number of values in the column.
func (c *Column) Len() int { return len(c.values) }

// Value returns the value at row i.
func (c *Column) Value(i int) any { return c.values[i] }

// Values returns the backing value slice. Callers must treat it as
// read-only; mutation goes through Dataset.SetColumn.
func (c *Column) Values() []any { return c.values }

// IsFactor reports whether the column has been marked categorical.
func (c *Column) IsFactor() bool { return c.factor }

// Levels returns the declared factor levels, or nil for plain columns.
func (c *Column) Levels() []string { return c.levels }

// DistinctStrings returns the lexicographically sorted set of distinct
// string representations of the column's non-nil values.
func (c *Column) DistinctStrings() []string {
	seen := make(map[string]struct{}, len(c.values))
	for _, v := range c.values {
		if v == nil {
			continue
		}
		seen[fmt.Sprintf("%v", v)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// FactorCodes returns the 1-based level index of every value, which is the
// representation the viewer expects for factor columns. A value that is not
// among the levels yields an error.
func (c *Column) FactorCodes() ([]int, error) {
	if !c.factor {
		return nil, fmt.Errorf("%w: %s", ErrNotFactor, c.name)
	}
	index := make(map[string]int, len(c.levels))
	for i, level := range c.levels {
		index[level] = i + 1
	}
	codes := make([]int, len(c.values))
	for i, v := range c.values {
		code, ok := index[fmt.Sprintf("%v", v)]
		if !ok {
			return nil, fmt.Errorf("value %v at row %d is not a level of factor %s", v, i, c.name)
		}
		codes[i] = code
	}
	return codes, nil
}

func (c *Column) copy() *Column {
	out := &Column{
		name:   c.name,
		values: append([]any(nil), c.values...),
		factor: c.factor,
	}
	if c.levels != nil {
		out.levels = append([]string(nil), c.levels...)
	}
	return out
}

// Dataset is a column-oriented table with an optional group-by state.
type Dataset struct {
	cols      []*Column
	byName    map[string]*Column
	groupCols []string
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{byName: map[string]*Column{}}
}

// FromColumns creates a dataset from columns in the given order. All
// columns must have the same length.
func FromColumns(cols []*Column) (*Dataset, error) {
	ds := New()
	for _, col := range cols {
		if err := ds.SetColumn(col.name, col.values); err != nil {
			return nil, err
		}
		if col.factor {
			if err := ds.SetFactor(col.name, col.levels); err != nil {
				return nil, err
			}
		}
	}
	return ds, nil
}

// NumRows returns the row count, zero for an empty dataset.
func (ds *Dataset) NumRows() int {
	if len(ds.cols) == 0 {
		return 0
	}
	return ds.cols[0].Len()
}

// NumColumns returns the number of columns.
func (ds *Dataset) NumColumns() int { return len(ds.cols) }

// ColumnNames returns the column names in order.
func (ds *Dataset) ColumnNames() []string {
	names := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		names[i] = c.name
	}
	return names
}

// HasColumn reports whether a column with this name exists.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.byName[name]
	return ok
}

// Column returns the named column, or nil if it does not exist.
func (ds *Dataset) Column(name string) *Column {
	return ds.byName[name]
}

// SetColumn adds or replaces a column in place. A replaced column loses
// any factor marking; call SetFactor again if needed.
func (ds *Dataset) SetColumn(name string, values []any) error {
	if len(ds.cols) > 0 && len(values) != ds.NumRows() {
		return fmt.Errorf("%w: column %s has %d values, dataset has %d rows",
			ErrLengthMismatch, name, len(values), ds.NumRows())
	}
	if existing, ok := ds.byName[name]; ok {
		existing.values = values
		existing.factor = false
		existing.levels = nil
		return nil
	}
	col := NewColumn(name, values)
	ds.cols = append(ds.cols, col)
	ds.byName[name] = col
	return nil
}

// SetFactor marks an existing column as categorical with the given levels.
// Nil levels infers them from the column's distinct values.
func (ds *Dataset) SetFactor(name string, levels []string) error {
	col, ok := ds.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchColumn, name)
	}
	if levels == nil {
		levels = col.DistinctStrings()
	}
	col.factor = true
	col.levels = append([]string(nil), levels...)
	return nil
}

// RenameColumn renames a column in place.
func (ds *Dataset) RenameColumn(from, to string) error {
	col, ok := ds.byName[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchColumn, from)
	}
	delete(ds.byName, from)
	col.name = to
	ds.byName[to] = col
	return nil
}

// GroupBy records group-by state on the dataset. The grouping columns must
// exist; they stay accessible as regular columns.
func (ds *Dataset) GroupBy(cols ...string) error {
	for _, name := range cols {
		if !ds.HasColumn(name) {
			return fmt.Errorf("%w: %s", ErrNoSuchColumn, name)
		}
	}
	ds.groupCols = append([]string(nil), cols...)
	return nil
}

// Grouped reports whether the dataset carries group-by state.
func (ds *Dataset) Grouped() bool { return len(ds.groupCols) > 0 }

// GroupColumns returns the names of the grouping columns.
func (ds *Dataset) GroupColumns() []string {
	return append([]string(nil), ds.groupCols...)
}

// ResetIndex flattens any group-by state back into plain columns.
func (ds *Dataset) ResetIndex() { ds.groupCols = nil }

// UniqueAcross reports whether the combination of values in the given
// columns is unique for every row.
func (ds *Dataset) UniqueAcross(names []string) (bool, error) {
	cols := make([]*Column, len(names))
	for i, name := range names {
		col, ok := ds.byName[name]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNoSuchColumn, name)
		}
		cols[i] = col
	}
	seen := make(map[string]struct{}, ds.NumRows())
	var sb strings.Builder
	for row := 0; row < ds.NumRows(); row++ {
		sb.Reset()
		for _, col := range cols {
			fmt.Fprintf(&sb, "%v\x1f", col.values[row])
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			return false, nil
		}
		seen[key] = struct{}{}
	}
	return true, nil
}

// Copy returns a deep copy of the dataset structure. Column value slices
// are duplicated; the elements themselves (strings, numbers, renderables)
// are shared, which is safe because elements are never mutated in place.
func (ds *Dataset) Copy() *Dataset {
	out := New()
	for _, col := range ds.cols {
		c := col.copy()
		out.cols = append(out.cols, c)
		out.byName[c.name] = c
	}
	out.groupCols = append([]string(nil), ds.groupCols...)
	return out
}
