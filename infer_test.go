// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package facetview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/meta"
	"github.com/AleutianAI/facetview/panel"
	"github.com/AleutianAI/facetview/pkg/logging"
	"github.com/AleutianAI/facetview/state"
)

// TestInfer_FruitScenario verifies the full inference of metas and state
// for the canonical fruit dataset with a registered image panel.
func TestInfer_FruitScenario(t *testing.T) {
	d := fruitDisplay(t)
	require.NoError(t, d.Dataset().SetFactor("kind", nil))

	d2, err := d.InferPanels()
	require.NoError(t, err)
	require.True(t, d2.HasPanel("img"))
	assert.False(t, d2.Panel("img").Source.(*panel.FileSource).IsLocal)
	assert.Equal(t, "img", d2.PrimaryPanel())

	d3, err := d2.Infer()
	require.NoError(t, err)

	require.IsType(t, &meta.StringMeta{}, d3.Meta("name"))
	require.IsType(t, &meta.NumberMeta{}, d3.Meta("size"))
	require.IsType(t, &meta.PanelMeta{}, d3.Meta("img"))

	fm, ok := d3.Meta("kind").(*meta.FactorMeta)
	require.True(t, ok)
	assert.Equal(t, []string{"berry", "drupe", "pome"}, fm.Levels())

	// Labels default to the varname.
	label, set := d3.Meta("size").Label()
	assert.True(t, set)
	assert.Equal(t, "size", label)

	// State defaults.
	assert.Equal(t, 3, d3.State().Layout().NCol)
	assert.Equal(t, []string{"name"}, d3.State().Labels().Varnames)

	// The receiver stayed untouched.
	assert.Empty(t, d.Metas())
	assert.Nil(t, d.State().Layout())
}

// TestInfer_RemoteStringsBecomeHrefs verifies a URL column with no panel
// infers an href meta.
func TestInfer_RemoteStringsBecomeHrefs(t *testing.T) {
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("name", []any{"a", "b"}),
		dataset.NewColumn("docs", []any{"http://a/doc", "https://b/doc"}),
	})
	require.NoError(t, err)

	d, err := New(ds, "links", WithLogger(logging.Discard()))
	require.NoError(t, err)

	d2, err := d.Infer()
	require.NoError(t, err)
	assert.IsType(t, &meta.HrefMeta{}, d2.Meta("docs"))
}

// TestInfer_IgnoresOpaqueColumns verifies columns no meta kind matches are
// recorded as ignored.
func TestInfer_IgnoresOpaqueColumns(t *testing.T) {
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("name", []any{"a", "b"}),
		dataset.NewColumn("mixed", []any{"a", 1}),
	})
	require.NoError(t, err)

	d, err := New(ds, "opaque", WithLogger(logging.Discard()))
	require.NoError(t, err)

	d2, err := d.Infer()
	require.NoError(t, err)
	assert.Nil(t, d2.Meta("mixed"))
	assert.Contains(t, d2.ColumnsToIgnore(), "mixed")
}

// TestInfer_Idempotent verifies re-running inference changes nothing.
func TestInfer_Idempotent(t *testing.T) {
	d := fruitDisplay(t)

	d2, err := d.Infer()
	require.NoError(t, err)
	d3, err := d2.Infer()
	require.NoError(t, err)

	assert.Equal(t, len(d2.Metas()), len(d3.Metas()))
	assert.Equal(t, d2.ColumnsToIgnore(), d3.ColumnsToIgnore())
	assert.Equal(t, d2.State().Layout().NCol, d3.State().Layout().NCol)
}

// TestInferPanels_AmbiguousImages verifies multiple image candidates are
// skipped rather than guessed at.
func TestInferPanels_AmbiguousImages(t *testing.T) {
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("name", []any{"a", "b"}),
		dataset.NewColumn("front", []any{"http://x/a.png", "http://x/b.png"}),
		dataset.NewColumn("back", []any{"http://y/a.png", "http://y/b.png"}),
	})
	require.NoError(t, err)

	d, err := New(ds, "ambiguous", WithLogger(logging.Discard()))
	require.NoError(t, err)

	d2, err := d.InferPanels()
	require.NoError(t, err)
	assert.Empty(t, d2.PanelColumns())
	assert.Equal(t, "", d2.PrimaryPanel())
}

// TestInferPanels_SkipsWhenRegistered verifies explicit panels suppress
// scanning entirely.
func TestInferPanels_SkipsWhenRegistered(t *testing.T) {
	d := fruitDisplay(t)
	d2 := d.AddPanel(panel.NewIFramePanel("name", panel.NewFileSource(false), 1.5))

	d3, err := d2.InferPanels()
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, d3.PanelColumns())
	assert.False(t, d3.HasPanel("img"))
	assert.Equal(t, "name", d3.PrimaryPanel())
}

// TestInferState_FillsMetatypes verifies sort and filter definitions are
// reconciled against the inferred metas.
func TestInferState_FillsMetatypes(t *testing.T) {
	d := fruitDisplay(t)

	d2, err := d.SetDefaultSort([]string{"size"}, []string{"desc"}, false)
	require.NoError(t, err)
	d3, err := d2.SetDefaultFilters([]state.Filter{
		state.NewCategoryFilterState("kind", "", []string{"pome"}),
	}, false)
	require.NoError(t, err)

	d4, err := d3.Infer()
	require.NoError(t, err)

	assert.Equal(t, meta.TypeNumber, d4.State().SortStates()[0].Metatype)
	assert.Equal(t, meta.TypeString, d4.State().FilterStates()[0].Metatype())
}

// TestInferState_IntersectsFactorLevels verifies category filter values
// outside the factor levels are dropped in declaration order.
func TestInferState_IntersectsFactorLevels(t *testing.T) {
	d := fruitDisplay(t)
	require.NoError(t, d.Dataset().SetFactor("kind", []string{"pome", "berry", "drupe", "nut"}))

	filter := state.NewCategoryFilterState("kind", "", []string{"nut", "pome", "stone"})
	d.State().Set(filter, true)

	d2, err := d.Infer()
	require.NoError(t, err)

	cf, ok := d2.State().FilterStates()[0].(*state.CategoryFilterState)
	require.True(t, ok)
	assert.Equal(t, []string{"nut", "pome"}, cf.Values)
	assert.Equal(t, meta.TypeFactor, cf.Metatype())

	// The original filter instance is untouched.
	assert.Equal(t, []string{"nut", "pome", "stone"}, filter.Values)
}

// TestInferThumbnailURL verifies the thumbnail comes from the first value
// of the primary panel, and iframe panels supply none.
func TestInferThumbnailURL(t *testing.T) {
	d := fruitDisplay(t)

	d2, err := d.InferPanels()
	require.NoError(t, err)
	require.NoError(t, d2.inferThumbnailURL())
	assert.Equal(t, "http://imgs/apple.png", d2.ThumbnailURL())

	d3 := d.AddPanel(panel.NewIFramePanel("name", panel.NewFileSource(false), 1.5))
	d3.primaryPanel = "name"
	require.NoError(t, d3.inferThumbnailURL())
	assert.Equal(t, "", d3.ThumbnailURL())

	// No panels at all cannot produce a thumbnail.
	err = fruitDisplay(t).inferThumbnailURL()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A primary panel must be defined")
}

// TestUniquelyIdentifyingCols_Greedy verifies string columns are tried
// before numeric ones and combinations grow until unique.
func TestUniquelyIdentifyingCols_Greedy(t *testing.T) {
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("size", []any{1.0, 2.0, 1.0}),
		dataset.NewColumn("kind", []any{"pome", "pome", "berry"}),
	})
	require.NoError(t, err)

	cols, err := uniquelyIdentifyingCols(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"kind", "size"}, cols)
}
