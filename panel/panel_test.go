// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package panel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
)

type stubFigure struct{}

func (stubFigure) RenderTo(path string) error { return nil }

func panelDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("remote_img", []any{"http://x/a.png", "https://x/b.png"}),
		dataset.NewColumn("local_img", []any{"a.png", "b.png"}),
		dataset.NewColumn("fig", []any{stubFigure{}, stubFigure{}}),
		dataset.NewColumn("size", []any{1.0, 2.0}),
	})
	require.NoError(t, err)
	return ds
}

// TestCreate_RemoteImage verifies remote image columns are not marked for
// copying.
func TestCreate_RemoteImage(t *testing.T) {
	ds := panelDataset(t)

	p, err := Create(ds, "remote_img", nil, false, false)
	require.NoError(t, err)

	assert.Equal(t, TypeImage, p.PanelType)
	assert.True(t, p.IsImage)
	assert.False(t, p.ShouldCopy)
	assert.False(t, p.Writeable)
	assert.False(t, p.Source.(*FileSource).IsLocal)
	assert.Equal(t, DefaultAspectRatio, p.AspectRatio)
}

// TestCreate_LocalImage verifies local image columns are marked for copying
// into the output tree.
func TestCreate_LocalImage(t *testing.T) {
	ds := panelDataset(t)

	p, err := Create(ds, "local_img", nil, false, false)
	require.NoError(t, err)

	assert.True(t, p.ShouldCopy)
	assert.True(t, p.Source.(*FileSource).IsLocal)
}

// TestCreate_Figure verifies figure columns become writeable panels with a
// shadow column and format handling.
func TestCreate_Figure(t *testing.T) {
	ds := panelDataset(t)

	p, err := Create(ds, "fig", nil, false, false)
	require.NoError(t, err)

	assert.True(t, p.Writeable)
	assert.Equal(t, "fig"+FigureSuffix, p.FigureVarname)
	ext, err := p.GetExtension()
	require.NoError(t, err)
	assert.Equal(t, "png", ext)

	opts, err := NewOptions(Options{Format: "svg", Aspect: 2})
	require.NoError(t, err)
	p, err = Create(ds, "fig", opts, false, false)
	require.NoError(t, err)
	assert.Equal(t, "svg", p.Extension)
	assert.Equal(t, 2.0, p.AspectRatio)
}

// TestCreate_AspectFromDimensions verifies an unset aspect falls back to
// the width/height ratio of the options.
func TestCreate_AspectFromDimensions(t *testing.T) {
	ds := panelDataset(t)

	opts, err := NewOptions(Options{Width: 800, Height: 400})
	require.NoError(t, err)

	p, err := Create(ds, "local_img", opts, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.AspectRatio)
}

// TestCreate_NoPrerender verifies lazy panel sources are rejected.
func TestCreate_NoPrerender(t *testing.T) {
	ds := panelDataset(t)

	opts := &Options{Width: 600, Height: 400, NoPrerender: true}
	_, err := Create(ds, "fig", opts, false, false)
	assert.ErrorIs(t, err, checks.ErrNotImplemented)
}

// TestCreate_PrerenderDefault verifies options that never mention
// prerendering still produce a panel.
func TestCreate_PrerenderDefault(t *testing.T) {
	ds := panelDataset(t)

	opts, err := NewOptions(Options{Width: 800, Height: 600})
	require.NoError(t, err)
	assert.False(t, opts.NoPrerender)

	p, err := Create(ds, "remote_img", opts, false, false)
	require.NoError(t, err)
	assert.Equal(t, TypeImage, p.PanelType)

	p, err = Create(ds, "fig", opts, false, false)
	require.NoError(t, err)
	assert.True(t, p.Writeable)
}

// TestCreate_Undeterminable verifies columns that are neither figures nor
// images are rejected.
func TestCreate_Undeterminable(t *testing.T) {
	ds := panelDataset(t)

	_, err := Create(ds, "size", nil, false, false)
	require.ErrorIs(t, err, checks.ErrBadValue)
	assert.Contains(t, err.Error(), "could not determine how to create a panel for size")
}

// TestCreate_MissingColumn verifies the missing-column error path.
func TestCreate_MissingColumn(t *testing.T) {
	ds := panelDataset(t)

	_, err := Create(ds, "nope", nil, false, false)
	assert.ErrorIs(t, err, checks.ErrBadValue)
}

// TestNewOptions_DefaultsAndValidation verifies dimension defaults and the
// format whitelist.
func TestNewOptions_DefaultsAndValidation(t *testing.T) {
	opts, err := NewOptions(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, opts.Width)
	assert.Equal(t, DefaultHeight, opts.Height)
	assert.Equal(t, 1.5, opts.AspectRatio())

	_, err = NewOptions(Options{Format: "bmp"})
	assert.ErrorIs(t, err, checks.ErrBadValue)

	_, err = NewOptions(Options{Width: -1})
	assert.ErrorIs(t, err, checks.ErrBadValue)
}

// TestOptions_AspectRatio verifies the explicit override wins over the
// width/height ratio.
func TestOptions_AspectRatio(t *testing.T) {
	opts := &Options{Width: 400, Height: 400, Aspect: 2.5}
	assert.Equal(t, 2.5, opts.AspectRatio())
}

// TestPanel_Copy verifies copies are independent of the original.
func TestPanel_Copy(t *testing.T) {
	p := NewImagePanel("img", NewFileSource(true), 1.5, true)
	clone := p.Copy()

	clone.AspectRatio = 9
	clone.Source.(*FileSource).IsLocal = false

	assert.Equal(t, 1.5, p.AspectRatio)
	assert.True(t, p.Source.(*FileSource).IsLocal)
}

// TestSource_MarshalJSON verifies the wire key names of each source kind.
func TestSource_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(NewFileSource(true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"file","isLocal":true}`, string(raw))

	rest := NewRESTSource("http://api", "k", map[string]string{"X-A": "1"})
	raw, err = json.Marshal(rest)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"REST","url":"http://api","apiKey":"k","headers":{"X-A":"1"}}`, string(raw))

	raw, err = json.Marshal(NewLocalWebSocketSource("ws://localhost", 8080))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"localWebSocket","url":"ws://localhost","port":8080}`, string(raw))
}

// TestSource_Copy verifies source copies do not share the headers map.
func TestSource_Copy(t *testing.T) {
	rest := NewRESTSource("http://api", "k", map[string]string{"X-A": "1"})
	clone := rest.Copy().(*RESTSource)
	clone.Headers["X-A"] = "2"
	assert.Equal(t, "1", rest.Headers["X-A"])
}

// TestGetExtension_NonFigure verifies only figure panels carry extensions.
func TestGetExtension_NonFigure(t *testing.T) {
	p := NewImagePanel("img", NewFileSource(false), 1.5, false)
	_, err := p.GetExtension()
	assert.ErrorIs(t, err, checks.ErrNotImplemented)
}
