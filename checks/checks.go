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
	"reflect"

	"github.com/AleutianAI/facetview/dataset"
)

// Int verifies that value is an integer.
func Int(value any, name string, msgf MessageFunc) error {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	default:
		return typeError(msgf, "%s must be an integer.", name)
	}
}

// Bool verifies that value is a boolean.
func Bool(value any, name string, msgf MessageFunc) error {
	if _, ok := value.(bool); !ok {
		return typeError(msgf, "%s must be a boolean value (must be logical).", name)
	}
	return nil
}

// Scalar verifies that value is a scalar, not a list or other collection.
// Strings count as scalars even though they are technically iterable.
func Scalar(value any, name string, msgf MessageFunc) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); ok {
		return nil
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return typeError(msgf, "%s must be a scalar (not a list or other collection type).", name)
	default:
		return nil
	}
}

// PositiveNumeric verifies that value is strictly positive.
func PositiveNumeric(value float64, name string, msgf MessageFunc) error {
	if value > 0 {
		return nil
	}
	return valueError(msgf, "%s must be a positive number.", name)
}

// Enum verifies that value is one of the possible values.
func Enum(value string, possible []string, msgf MessageFunc) error {
	for _, p := range possible {
		if value == p {
			return nil
		}
	}
	return valueError(msgf, "%s must be one of %v", value, possible)
}

// HasVariable verifies that the dataset contains the named column.
func HasVariable(ds *dataset.Dataset, varname string, msgf MessageFunc) error {
	if !ds.HasColumn(varname) {
		return valueError(msgf, "Could not find variable %s in the list of columns", varname)
	}
	return nil
}

// Numeric verifies that the named column holds only numeric values.
func Numeric(ds *dataset.Dataset, varname string, msgf MessageFunc) error {
	col := ds.Column(varname)
	if col == nil || !IsNumericColumn(col) {
		return valueError(msgf, "The variable '%s' must be numeric.", varname)
	}
	return nil
}

// StringDatatype verifies that the named column holds only string values.
func StringDatatype(ds *dataset.Dataset, varname string, msgf MessageFunc) error {
	col := ds.Column(varname)
	if col == nil || !IsStringColumn(col) {
		return valueError(msgf, "The variable '%s' is not a string.", varname)
	}
	return nil
}

// Datetime verifies that the named column is datetime-like: either holding
// time values already, or values coercible to them.
func Datetime(ds *dataset.Dataset, varname string, msgf MessageFunc) error {
	col := ds.Column(varname)
	if col == nil || !IsDatetimeColumn(col, false) {
		return valueError(msgf, "The variable '%s' is not a date time column.", varname)
	}
	return nil
}

// AtomicVector verifies that the named column is an atomic vector: every
// value a plain scalar, with no nested or mixed element types.
func AtomicVector(ds *dataset.Dataset, varname string, msgf MessageFunc) error {
	col := ds.Column(varname)
	if col == nil || !isAtomicColumn(col) {
		return valueError(msgf, "The variable '%s' must be an atomic vector (not a nested type).", varname)
	}
	return nil
}

// Range verifies that every value of the named column lies within
// [min, max] inclusive.
func Range(ds *dataset.Dataset, varname string, min, max float64, msgf MessageFunc) error {
	col := ds.Column(varname)
	if col == nil {
		return valueError(msgf, "Could not find variable %s in the list of columns", varname)
	}
	for i := 0; i < col.Len(); i++ {
		f, ok := asFloat(col.Value(i))
		if !ok || f < min || f > max {
			return valueError(msgf, "The variable '%s' must be in the range %v to %v.", varname, min, max)
		}
	}
	return nil
}

// LatitudeVariable verifies that the column is numeric and within [-90, 90].
func LatitudeVariable(ds *dataset.Dataset, varname string, msgf MessageFunc) error {
	if err := Numeric(ds, varname, msgf); err != nil {
		return err
	}
	return Range(ds, varname, -90, 90, msgf)
}

// LongitudeVariable verifies that the column is numeric and within [0, 180].
func LongitudeVariable(ds *dataset.Dataset, varname string, msgf MessageFunc) error {
	if err := Numeric(ds, varname, msgf); err != nil {
		return err
	}
	return Range(ds, varname, 0, 180, msgf)
}

// ExhaustiveLevels verifies that every value present in the named column is
// one of the declared levels. Extra declared levels are allowed.
func ExhaustiveLevels(ds *dataset.Dataset, levels []string, varname string, msgf MessageFunc) error {
	col := ds.Column(varname)
	if col == nil {
		return valueError(msgf, "Could not find variable %s in the list of columns", varname)
	}
	declared := make(map[string]struct{}, len(levels))
	for _, level := range levels {
		declared[level] = struct{}{}
	}
	for _, actual := range col.DistinctStrings() {
		if _, ok := declared[actual]; !ok {
			return valueError(msgf, "%s contains values not specified in levels: %v", varname, levels)
		}
	}
	return nil
}

// GraphVariable would verify that a column is a valid graph edge list.
// Structural validation of graph columns is deliberately unimplemented.
func GraphVariable(ds *dataset.Dataset, varname, idVarname string, msgf MessageFunc) error {
	return NotImplemented(msgf, "graph variable validation is not implemented")
}

// ImageExtensions verifies that every entry has a recognized image
// extension.
func ImageExtensions(paths []string, msgf MessageFunc) error {
	for _, p := range paths {
		ext := Extension(p)
		if _, ok := validImageExtensions[ext]; !ok {
			return valueError(msgf,
				"Extension %s is not valid. All file extensions must be one of: %v", ext, ValidImageExtensions())
		}
	}
	return nil
}
