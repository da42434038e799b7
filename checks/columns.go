// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checks

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/facetview/dataset"
)

// validImageExtensions is the fixed whitelist of extensions a string column
// may carry to qualify as an image panel column.
var validImageExtensions = map[string]struct{}{
	"apng": {}, "avif": {}, "gif": {}, "jpg": {}, "jpeg": {}, "jfif": {},
	"pjpeg": {}, "pjp": {}, "png": {}, "svg": {}, "webp": {},
}

// ValidImageExtensions returns the sorted extension whitelist.
func ValidImageExtensions() []string {
	out := make([]string, 0, len(validImageExtensions))
	for ext := range validImageExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extension returns the lowercase file extension of a path without the
// leading dot ("jpg", not ".jpg").
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// timeLayouts are the formats tried when coercing strings to datetimes.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// CoerceTime attempts to interpret a value as a datetime. Time values pass
// through; strings are parsed against a small set of common layouts.
func CoerceTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// IsNumericColumn reports whether every non-nil value of the column is
// numeric. Factor columns do not qualify even when their levels look
// numeric.
func IsNumericColumn(col *dataset.Column) bool {
	if col.IsFactor() || col.Len() == 0 {
		return false
	}
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == nil {
			continue
		}
		if _, ok := asFloat(v); !ok {
			return false
		}
	}
	return true
}

// IsStringColumn reports whether the column holds string values. The
// element values themselves are probed, not a declared column type, because
// object columns can hold arbitrary values (figures, panel wrappers) that
// must not be misclassified as strings. Factor columns do not qualify.
func IsStringColumn(col *dataset.Column) bool {
	if col.IsFactor() || col.Len() == 0 {
		return false
	}
	if _, ok := col.Value(0).(string); !ok {
		return false
	}
	for i := 1; i < col.Len(); i++ {
		if _, ok := col.Value(i).(string); !ok {
			return false
		}
	}
	return true
}

// IsDatetimeColumn reports whether every value of the column is a valid
// datetime. With mustBeTimeValues the values must already be time values;
// otherwise coercible strings also qualify.
func IsDatetimeColumn(col *dataset.Column, mustBeTimeValues bool) bool {
	if col.Len() == 0 {
		return false
	}
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if mustBeTimeValues {
			if _, ok := v.(time.Time); !ok {
				return false
			}
			continue
		}
		if _, ok := CoerceTime(v); !ok {
			return false
		}
	}
	return true
}

// IsFigureColumn reports whether the column is uniformly filled with
// renderable figure objects.
func IsFigureColumn(col *dataset.Column) bool {
	if col.Len() == 0 {
		return false
	}
	if _, ok := col.Value(0).(dataset.Renderable); !ok {
		return false
	}
	for i := 1; i < col.Len(); i++ {
		if _, ok := col.Value(i).(dataset.Renderable); !ok {
			return false
		}
	}
	return true
}

// IsImageColumn reports whether the column is uniformly filled with string
// references whose extension matches the whitelisted extension of the first
// value.
func IsImageColumn(col *dataset.Column) bool {
	if !IsStringColumn(col) {
		return false
	}
	first, _ := col.Value(0).(string)
	ext := Extension(first)
	if _, ok := validImageExtensions[ext]; !ok {
		return false
	}
	for i := 1; i < col.Len(); i++ {
		s, _ := col.Value(i).(string)
		if Extension(s) != ext {
			return false
		}
	}
	return true
}

// AllRemote reports whether every value of the column is a string starting
// with "http".
func AllRemote(col *dataset.Column) bool {
	if col.Len() == 0 {
		return false
	}
	for i := 0; i < col.Len(); i++ {
		s, ok := col.Value(i).(string)
		if !ok || !strings.HasPrefix(s, "http") {
			return false
		}
	}
	return true
}

// FindFigureColumns returns the names of columns uniformly holding
// renderable figure objects, in column order.
func FindFigureColumns(ds *dataset.Dataset) []string {
	var out []string
	for _, name := range ds.ColumnNames() {
		if IsFigureColumn(ds.Column(name)) {
			out = append(out, name)
		}
	}
	return out
}

// FindImageColumns returns the names of columns uniformly holding image
// references, in column order.
func FindImageColumns(ds *dataset.Dataset) []string {
	var out []string
	for _, name := range ds.ColumnNames() {
		if IsImageColumn(ds.Column(name)) {
			out = append(out, name)
		}
	}
	return out
}

// StringColumns returns the names of string-typed columns in column order.
func StringColumns(ds *dataset.Dataset) []string {
	var out []string
	for _, name := range ds.ColumnNames() {
		if IsStringColumn(ds.Column(name)) {
			out = append(out, name)
		}
	}
	return out
}

// NumericColumns returns the names of numeric columns in column order.
func NumericColumns(ds *dataset.Dataset) []string {
	var out []string
	for _, name := range ds.ColumnNames() {
		if IsNumericColumn(ds.Column(name)) {
			out = append(out, name)
		}
	}
	return out
}

// isAtomicColumn reports whether the column's values are all plain scalars
// of a single base category (string, numeric, boolean, or datetime).
func isAtomicColumn(col *dataset.Column) bool {
	if col.IsFactor() {
		return true
	}
	category := ""
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == nil {
			continue
		}
		var cat string
		switch v.(type) {
		case string:
			cat = "string"
		case bool:
			cat = "bool"
		case time.Time:
			cat = "time"
		default:
			if _, ok := asFloat(v); ok {
				cat = "number"
			} else {
				return false
			}
		}
		if category == "" {
			category = cat
		} else if category != cat {
			return false
		}
	}
	return true
}
