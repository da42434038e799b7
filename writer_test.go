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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/pkg/logging"
)

type fakeFigure struct {
	payload string
}

func (f fakeFigure) RenderTo(path string) error {
	return os.WriteFile(path, []byte(f.payload), 0o644)
}

// readMetaData parses the window.metaData assignment back into records.
func readMetaData(t *testing.T, dir string) []map[string]any {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, "metaData.js"))
	require.NoError(t, err)
	content := strings.TrimPrefix(string(raw), "window.metaData = ")
	require.NotEqual(t, string(raw), content)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(content), &records))
	return records
}

// TestSanitize verifies name sanitization for directories and files.
func TestSanitize(t *testing.T) {
	assert.Equal(t, "my_display", sanitize("My Display", true))
	assert.Equal(t, "My_Display", sanitize("My Display!", false))
	assert.Equal(t, "ab_c", sanitize("a/b c?", true))
}

// TestReadJSONP verifies wrapper stripping and the error paths.
func TestReadJSONP(t *testing.T) {
	dir := t.TempDir()

	jsonpFile := filepath.Join(dir, "config.jsonp")
	require.NoError(t, os.WriteFile(jsonpFile, []byte(`__loadAppConfig__abc({"id":"abc"})`), 0o644))
	cfg, err := readJSONP(jsonpFile)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg["id"])

	jsonFile := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"id":"xyz"}`), 0o644))
	cfg, err = readJSONP(jsonFile)
	require.NoError(t, err)
	assert.Equal(t, "xyz", cfg["id"])

	badFile := filepath.Join(dir, "broken.jsonp")
	require.NoError(t, os.WriteFile(badFile, []byte("no wrapper here"), 0o644))
	_, err = readJSONP(badFile)
	assert.ErrorIs(t, err, checks.ErrBadValue)

	otherFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(otherFile, []byte("a: 1"), 0o644))
	_, err = readJSONP(otherFile)
	require.ErrorIs(t, err, checks.ErrBadValue)
	assert.Contains(t, err.Error(), "Expected .json or .jsonp")
}

// TestWriteDisplay_RemoteImages verifies the complete artifact tree for a
// display whose panels are remote image references.
func TestWriteDisplay_RemoteImages(t *testing.T) {
	dir := t.TempDir()
	d := fruitDisplay(t, WithPath(dir), WithProgress(false))
	require.NoError(t, d.Dataset().SetFactor("kind", nil))

	out, err := d.WriteDisplay(false, true)
	require.NoError(t, err)

	appDir := filepath.Join(dir, "fruit")
	assert.Equal(t, appDir, out.OutputPath())

	// App config, wrapped in the jsonp loader for the display id.
	raw, err := os.ReadFile(filepath.Join(appDir, "config.jsonp"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "__loadAppConfig__"+out.ID()+"("))
	assert.True(t, strings.HasSuffix(string(raw), ")"))

	// Bootstrap page and id file.
	raw, err = os.ReadFile(filepath.Join(appDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "trelliscopeApp('"+out.ID()+"', 'config.jsonp')")
	raw, err = os.ReadFile(filepath.Join(appDir, "id"))
	require.NoError(t, err)
	assert.Equal(t, out.ID(), string(raw))

	// Display info.
	displayDir := filepath.Join(appDir, "displays", "fruit")
	info, err := readJSONP(filepath.Join(displayDir, "displayInfo.jsonp"))
	require.NoError(t, err)
	assert.Equal(t, "fruit", info["name"])
	assert.Equal(t, "img", info["primarypanel"])
	assert.Equal(t, "http://imgs/apple.png", info["thumbnailurl"])
	metas, ok := info["metas"].([]any)
	require.True(t, ok)
	assert.Len(t, metas, 4)

	// Display list carries the summary keys.
	raw, err = os.ReadFile(filepath.Join(appDir, "displays", "displayList.jsonp"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "__loadDisplayList__"))
	assert.Contains(t, string(raw), `"name": "fruit"`)
	assert.Contains(t, string(raw), `"thumbnailurl"`)

	// Metadata records, factors as 1-based level codes.
	records := readMetaData(t, displayDir)
	require.Len(t, records, 3)
	assert.Equal(t, "apple", records[0]["name"])
	assert.Equal(t, float64(3), records[0]["kind"]) // pome in [berry drupe pome]
	assert.Equal(t, float64(1), records[1]["kind"]) // berry

	// Remote panels are neither copied nor rewritten.
	assert.Equal(t, "http://imgs/apple.png", out.Dataset().Column("img").Value(0))
}

// TestWriteDisplay_LocalImagesCopied verifies local image files are copied
// into the output tree and the column rewritten to relative paths, without
// touching the receiver's dataset.
func TestWriteDisplay_LocalImagesCopied(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	paths := make([]any, 2)
	for i, name := range []string{"apple.png", "banana.png"} {
		p := filepath.Join(srcDir, name)
		require.NoError(t, os.WriteFile(p, []byte("png:"+name), 0o644))
		paths[i] = p
	}

	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("name", []any{"apple", "banana"}),
		dataset.NewColumn("img", paths),
	})
	require.NoError(t, err)

	d, err := New(ds, "local", WithPath(outDir), WithProgress(false),
		WithLogger(logging.Discard()))
	require.NoError(t, err)

	out, err := d.WriteDisplay(false, true)
	require.NoError(t, err)

	copied := filepath.Join(outDir, "local", "displays", "local", "panels", "img", "apple.png")
	raw, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "png:apple.png", string(raw))

	assert.Equal(t, filepath.Join("panels", "img", "apple.png"),
		out.Dataset().Column("img").Value(0))

	// The receiver still references the source files.
	assert.Equal(t, paths[0], d.Dataset().Column("img").Value(0))
}

// TestWriteDisplay_RendersFigures verifies figure objects are rendered to
// files named after the key columns, with the originals preserved in the
// shadow column.
func TestWriteDisplay_RendersFigures(t *testing.T) {
	outDir := t.TempDir()

	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("name", []any{"apple", "banana"}),
		dataset.NewColumn("fig", []any{fakeFigure{"fig-a"}, fakeFigure{"fig-b"}}),
	})
	require.NoError(t, err)

	d, err := New(ds, "figs", WithPath(outDir), WithProgress(false),
		WithLogger(logging.Discard()))
	require.NoError(t, err)

	out, err := d.WriteDisplay(false, true)
	require.NoError(t, err)

	rendered := filepath.Join(outDir, "figs", "displays", "figs", "panels", "fig", "apple.png")
	raw, err := os.ReadFile(rendered)
	require.NoError(t, err)
	assert.Equal(t, "fig-a", string(raw))

	assert.Equal(t, filepath.Join("panels", "fig", "apple.png"),
		out.Dataset().Column("fig").Value(0))

	// The shadow column keeps the original figure objects.
	shadow := out.Dataset().Column("fig__FIGURE")
	require.NotNil(t, shadow)
	assert.Equal(t, fakeFigure{"fig-a"}, shadow.Value(0))

	// And stays out of the metas.
	assert.Nil(t, out.Meta("fig__FIGURE"))
}

// TestWriteDisplay_NoPanels verifies the write aborts when nothing can be
// used as a panel.
func TestWriteDisplay_NoPanels(t *testing.T) {
	ds, err := dataset.FromColumns([]*dataset.Column{
		dataset.NewColumn("name", []any{"a", "b"}),
		dataset.NewColumn("size", []any{1.0, 2.0}),
	})
	require.NoError(t, err)

	d, err := New(ds, "bare", WithPath(t.TempDir()), WithLogger(logging.Discard()))
	require.NoError(t, err)

	_, err = d.WriteDisplay(false, true)
	require.ErrorIs(t, err, checks.ErrBadValue)
	assert.Contains(t, err.Error(), "No panels were found or inferred.")
}

// TestWriteDisplay_TempPathFallback verifies an unset path falls back to a
// temporary directory.
func TestWriteDisplay_TempPathFallback(t *testing.T) {
	d := fruitDisplay(t, WithProgress(false))

	out, err := d.WriteDisplay(false, true)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(out.OutputPath()) })

	assert.NotEqual(t, "", out.OutputPath())
	_, err = os.Stat(filepath.Join(out.OutputPath(), "index.html"))
	assert.NoError(t, err)
}
