// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
)

// FromRecord converts an Arrow record batch into a Dataset. Dictionary
// columns become factor columns; nulls become nil values. Unsupported
// Arrow types yield an error rather than a silent misclassification.
func FromRecord(rec arrow.Record) (*Dataset, error) {
	ds := New()
	schema := rec.Schema()
	for colIdx, col := range rec.Columns() {
		name := schema.Field(colIdx).Name
		values, levels, err := arrowValues(col)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		if err := ds.SetColumn(name, values); err != nil {
			return nil, err
		}
		if levels != nil {
			if err := ds.SetFactor(name, levels); err != nil {
				return nil, err
			}
		}
	}
	return ds, nil
}

// ReadCSV loads a CSV file with a header row into a Dataset, letting the
// Arrow CSV reader infer column types.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewInferringReader(f,
		csv.WithHeader(true),
		csv.WithChunk(-1),
	)
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return nil, fmt.Errorf("read csv: %s is empty", path)
	}
	ds, err := FromRecord(reader.Record())
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ds, nil
}

// arrowValues extracts one column into []any values. For dictionary
// columns it also returns the decoded level set.
func arrowValues(col arrow.Array) ([]any, []string, error) {
	n := col.Len()
	values := make([]any, n)

	set := func(fn func(i int) any) {
		for i := 0; i < n; i++ {
			if col.IsNull(i) {
				values[i] = nil
				continue
			}
			values[i] = fn(i)
		}
	}

	switch typed := col.(type) {
	case *array.String:
		set(func(i int) any { return typed.Value(i) })
	case *array.LargeString:
		set(func(i int) any { return typed.Value(i) })
	case *array.Boolean:
		set(func(i int) any { return typed.Value(i) })
	case *array.Int8:
		set(func(i int) any { return int64(typed.Value(i)) })
	case *array.Int16:
		set(func(i int) any { return int64(typed.Value(i)) })
	case *array.Int32:
		set(func(i int) any { return int64(typed.Value(i)) })
	case *array.Int64:
		set(func(i int) any { return typed.Value(i) })
	case *array.Uint8:
		set(func(i int) any { return int64(typed.Value(i)) })
	case *array.Uint16:
		set(func(i int) any { return int64(typed.Value(i)) })
	case *array.Uint32:
		set(func(i int) any { return int64(typed.Value(i)) })
	case *array.Uint64:
		set(func(i int) any { return int64(typed.Value(i)) })
	case *array.Float32:
		set(func(i int) any { return float64(typed.Value(i)) })
	case *array.Float64:
		set(func(i int) any { return typed.Value(i) })
	case *array.Date32:
		set(func(i int) any { return typed.Value(i).ToTime() })
	case *array.Date64:
		set(func(i int) any { return typed.Value(i).ToTime() })
	case *array.Timestamp:
		unit := typed.DataType().(*arrow.TimestampType).Unit
		set(func(i int) any { return typed.Value(i).ToTime(unit) })
	case *array.Dictionary:
		dict, ok := typed.Dictionary().(*array.String)
		if !ok {
			return nil, nil, fmt.Errorf("unsupported dictionary value type %s", typed.Dictionary().DataType())
		}
		set(func(i int) any { return dict.Value(typed.GetValueIndex(i)) })
		levels := make([]string, dict.Len())
		for i := range levels {
			levels[i] = dict.Value(i)
		}
		return values, levels, nil
	default:
		return nil, nil, fmt.Errorf("unsupported arrow type %s", col.DataType())
	}
	return values, nil, nil
}
