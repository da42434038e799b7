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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/facetview/dataset"
)

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("name", []any{"apple", "banana"}),
		dataset.NewColumn("size", []any{int64(1), 3.5}),
		dataset.NewColumn("lat", []any{45.0, -12.5}),
		dataset.NewColumn("long", []any{10.0, 179.0}),
		dataset.NewColumn("when", []any{"2024-01-02", "2024-02-03"}),
	})
	require.NoError(t, err)
	return ds
}

// TestInt_Types verifies integer type acceptance.
func TestInt_Types(t *testing.T) {
	assert.NoError(t, Int(3, "ncol", nil))
	assert.NoError(t, Int(int64(3), "ncol", nil))
	assert.NoError(t, Int(uint8(3), "ncol", nil))

	err := Int(3.5, "ncol", nil)
	assert.ErrorIs(t, err, ErrBadType)
	assert.Contains(t, err.Error(), "ncol must be an integer.")

	assert.ErrorIs(t, Int("3", "ncol", nil), ErrBadType)
}

// TestBool_Types verifies boolean type acceptance.
func TestBool_Types(t *testing.T) {
	assert.NoError(t, Bool(true, "force", nil))
	assert.ErrorIs(t, Bool(1, "force", nil), ErrBadType)
}

// TestScalar_RejectsCollections verifies scalar-ness checks.
func TestScalar_RejectsCollections(t *testing.T) {
	assert.NoError(t, Scalar(3, "digits", nil))
	assert.NoError(t, Scalar("text", "digits", nil))
	assert.NoError(t, Scalar(nil, "digits", nil))

	assert.ErrorIs(t, Scalar([]int{1}, "digits", nil), ErrBadType)
	assert.ErrorIs(t, Scalar(map[string]int{}, "digits", nil), ErrBadType)
}

// TestEnum_Membership verifies enum membership checks.
func TestEnum_Membership(t *testing.T) {
	assert.NoError(t, Enum("asc", []string{"asc", "desc"}, nil))
	assert.ErrorIs(t, Enum("up", []string{"asc", "desc"}, nil), ErrBadValue)
}

// TestPositiveNumeric verifies the strict positivity check.
func TestPositiveNumeric(t *testing.T) {
	assert.NoError(t, PositiveNumeric(1.5, "aspect", nil))
	assert.ErrorIs(t, PositiveNumeric(0, "aspect", nil), ErrBadValue)
	assert.ErrorIs(t, PositiveNumeric(-1, "aspect", nil), ErrBadValue)
}

// TestMessageFunc_InjectsContext verifies the caller-supplied formatter
// wraps the raw message.
func TestMessageFunc_InjectsContext(t *testing.T) {
	msgf := func(text string) string { return "While defining meta: " + text }

	err := Enum("up", []string{"asc", "desc"}, msgf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "While defining meta: up must be one of")

	// Nil formatter returns the raw text unmodified.
	err = Enum("up", []string{"asc", "desc"}, nil)
	assert.Equal(t, "up must be one of [asc desc]", err.Error())
}

// TestHasVariable verifies column-existence checks.
func TestHasVariable(t *testing.T) {
	ds := testDataset(t)

	assert.NoError(t, HasVariable(ds, "name", nil))

	err := HasVariable(ds, "weight", nil)
	assert.ErrorIs(t, err, ErrBadValue)
	assert.Contains(t, err.Error(), "Could not find variable weight in the list of columns")
}

// TestNumeric_Column verifies numeric column checks.
func TestNumeric_Column(t *testing.T) {
	ds := testDataset(t)

	assert.NoError(t, Numeric(ds, "size", nil))
	assert.ErrorIs(t, Numeric(ds, "name", nil), ErrBadValue)
	assert.ErrorIs(t, Numeric(ds, "missing", nil), ErrBadValue)
}

// TestDatetime_Coercible verifies datetime checks accept coercible string
// columns.
func TestDatetime_Coercible(t *testing.T) {
	ds := testDataset(t)

	assert.NoError(t, Datetime(ds, "when", nil))
	assert.ErrorIs(t, Datetime(ds, "name", nil), ErrBadValue)
}

// TestRange_Bounds verifies inclusive range checks.
func TestRange_Bounds(t *testing.T) {
	ds := testDataset(t)

	assert.NoError(t, Range(ds, "lat", -90, 90, nil))
	assert.ErrorIs(t, Range(ds, "lat", 0, 90, nil), ErrBadValue)
}

// TestLatitudeLongitude verifies the geographic range checks.
func TestLatitudeLongitude(t *testing.T) {
	ds := testDataset(t)

	assert.NoError(t, LatitudeVariable(ds, "lat", nil))
	assert.NoError(t, LongitudeVariable(ds, "long", nil))
	assert.ErrorIs(t, LatitudeVariable(ds, "long", nil), ErrBadValue)
	assert.ErrorIs(t, LongitudeVariable(ds, "lat", nil), ErrBadValue)
}

// TestExhaustiveLevels verifies the level exhaustiveness contract: extra
// declared levels pass, missing observed values fail.
func TestExhaustiveLevels(t *testing.T) {
	ds := testDataset(t)

	assert.NoError(t, ExhaustiveLevels(ds, []string{"apple", "banana", "cherry"}, "name", nil))

	err := ExhaustiveLevels(ds, []string{"apple"}, "name", nil)
	require.ErrorIs(t, err, ErrBadValue)
	assert.Contains(t, err.Error(), "name contains values not specified in levels")
}

// TestGraphVariable_NotImplemented verifies the deliberate stub.
func TestGraphVariable_NotImplemented(t *testing.T) {
	ds := testDataset(t)
	assert.ErrorIs(t, GraphVariable(ds, "name", "size", nil), ErrNotImplemented)
}

// TestImageExtensions verifies the extension whitelist check.
func TestImageExtensions(t *testing.T) {
	assert.NoError(t, ImageExtensions([]string{"a.png", "b.JPG", "c.webp"}, nil))
	assert.ErrorIs(t, ImageExtensions([]string{"a.png", "b.tiff"}, nil), ErrBadValue)
}

// TestCheckError_Unwrap verifies errors.Is works through CheckError.
func TestCheckError_Unwrap(t *testing.T) {
	err := &CheckError{Kind: ErrBadValue, Msg: "boom"}
	assert.ErrorIs(t, err, ErrBadValue)
	assert.Equal(t, "boom", err.Error())
}
