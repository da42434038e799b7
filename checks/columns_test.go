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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/facetview/dataset"
)

type stubFigure struct{ payload string }

func (f stubFigure) RenderTo(path string) error { return nil }

func factorColumn(t *testing.T, values []any) *dataset.Column {
	t.Helper()
	ds, err := dataset.FromColumns([]*dataset.Column{dataset.NewColumn("x", values)})
	require.NoError(t, err)
	require.NoError(t, ds.SetFactor("x", nil))
	return ds.Column("x")
}

// TestExtension verifies the lowercase, dot-free extension convention.
func TestExtension(t *testing.T) {
	assert.Equal(t, "png", Extension("a/b/plot.PNG"))
	assert.Equal(t, "", Extension("noext"))
}

// TestValidImageExtensions_Sorted verifies the whitelist is stable and
// sorted.
func TestValidImageExtensions_Sorted(t *testing.T) {
	exts := ValidImageExtensions()
	assert.Contains(t, exts, "png")
	assert.Contains(t, exts, "svg")
	assert.IsIncreasing(t, exts)
}

// TestIsNumericColumn verifies mixed numeric kinds pass and factors are
// excluded.
func TestIsNumericColumn(t *testing.T) {
	assert.True(t, IsNumericColumn(dataset.NewColumn("x", []any{int64(1), 2.5, nil})))
	assert.False(t, IsNumericColumn(dataset.NewColumn("x", []any{1, "two"})))
	assert.False(t, IsNumericColumn(dataset.NewColumn("x", nil)))

	assert.False(t, IsNumericColumn(factorColumn(t, []any{"1", "2"})))
}

// TestIsStringColumn verifies element probing and factor exclusion.
func TestIsStringColumn(t *testing.T) {
	assert.True(t, IsStringColumn(dataset.NewColumn("x", []any{"a", "b"})))
	assert.False(t, IsStringColumn(dataset.NewColumn("x", []any{"a", 1})))

	assert.False(t, IsStringColumn(factorColumn(t, []any{"a", "b"})))
}

// TestIsDatetimeColumn verifies coercion rules and the strict mode.
func TestIsDatetimeColumn(t *testing.T) {
	coercible := dataset.NewColumn("x", []any{"2024-01-02", "2024-05-06T07:08:09Z"})
	assert.True(t, IsDatetimeColumn(coercible, false))
	assert.False(t, IsDatetimeColumn(coercible, true))

	native := dataset.NewColumn("x", []any{time.Now(), time.Now()})
	assert.True(t, IsDatetimeColumn(native, true))

	assert.False(t, IsDatetimeColumn(dataset.NewColumn("x", []any{"apple"}), false))
}

// TestIsImageColumn verifies the uniform-extension rule.
func TestIsImageColumn(t *testing.T) {
	assert.True(t, IsImageColumn(dataset.NewColumn("x", []any{"a.png", "b.png"})))
	assert.False(t, IsImageColumn(dataset.NewColumn("x", []any{"a.png", "b.jpg"})))
	assert.False(t, IsImageColumn(dataset.NewColumn("x", []any{"a.txt", "b.txt"})))
}

// TestIsFigureColumn verifies renderable detection.
func TestIsFigureColumn(t *testing.T) {
	assert.True(t, IsFigureColumn(dataset.NewColumn("x", []any{stubFigure{"a"}, stubFigure{"b"}})))
	assert.False(t, IsFigureColumn(dataset.NewColumn("x", []any{stubFigure{"a"}, "b"})))
	assert.False(t, IsFigureColumn(dataset.NewColumn("x", nil)))
}

// TestAllRemote verifies the http prefix rule.
func TestAllRemote(t *testing.T) {
	assert.True(t, AllRemote(dataset.NewColumn("x", []any{"http://a", "https://b"})))
	assert.False(t, AllRemote(dataset.NewColumn("x", []any{"http://a", "ftp://b"})))
	assert.False(t, AllRemote(dataset.NewColumn("x", nil)))
}

// TestFindColumns_Order verifies the finders preserve dataset column order.
func TestFindColumns_Order(t *testing.T) {
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("img_b", []any{"b.png", "bb.png"}),
		dataset.NewColumn("size", []any{1.0, 2.0}),
		dataset.NewColumn("img_a", []any{"a.png", "aa.png"}),
		dataset.NewColumn("fig", []any{stubFigure{"a"}, stubFigure{"b"}}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"img_b", "img_a"}, FindImageColumns(ds))
	assert.Equal(t, []string{"fig"}, FindFigureColumns(ds))
	assert.Equal(t, []string{"img_b", "img_a"}, StringColumns(ds))
	assert.Equal(t, []string{"size"}, NumericColumns(ds))
}
