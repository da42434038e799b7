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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/meta"
	"github.com/AleutianAI/facetview/panel"
	"github.com/AleutianAI/facetview/pkg/progress"
)

// Output tree layout.
const (
	displaysDir         = "displays"
	panelsDir           = "panels"
	configFileName      = "config"
	displayListFileName = "displayList"
	displayInfoFileName = "displayInfo"
	metadataFileName    = "metaData"
)

// defaultViewerVersion is the viewer library version pinned into
// index.html when none is specified.
const defaultViewerVersion = "0.7.5"

// OutputPath returns the directory the display is written into:
// <path>/<sanitized name>.
func (d *Display) OutputPath() string {
	return filepath.Join(d.path, sanitize(d.name, true))
}

// displaysPath returns the displays directory under the output path.
func (d *Display) displaysPath() string {
	return filepath.Join(d.OutputPath(), displaysDir)
}

// datasetDisplayPath returns this display's directory under displays/.
// The display name keeps its case here, unlike the output root.
func (d *Display) datasetDisplayPath() string {
	return filepath.Join(d.displaysPath(), sanitize(d.name, false))
}

// panelOutputPath returns the directory panel files for a column are
// written into, absolute or relative to the display directory.
func (d *Display) panelOutputPath(panelCol string, absolute bool) string {
	p := filepath.Join(panelsDir, sanitize(panelCol, true))
	if absolute {
		p = filepath.Join(d.datasetDisplayPath(), p)
	}
	return p
}

// WriteDisplay writes the complete viewer artifact tree: the app config,
// panel files (rendered or copied), the display info, metadata, display
// list, index.html, and id file. Inference runs first for anything not yet
// specified. Never mutates the receiver; the returned snapshot carries the
// final inferred attributes and the possibly-rewritten dataset columns.
func (d *Display) WriteDisplay(forceWrite, jsonp bool) (*Display, error) {
	out := d.copy()

	if err := out.createOutputDirs(); err != nil {
		return nil, err
	}

	config, err := out.checkAppConfig(out.OutputPath(), jsonp)
	if err != nil {
		return nil, err
	}
	if datatype, ok := config["datatype"].(string); ok {
		configJSONP := datatype == "jsonp"
		if configJSONP != jsonp {
			jsonp = configJSONP
			out.logger.Info("using datatype from existing app config", "jsonp", jsonp)
		}
	}
	configID, _ := config["id"].(string)

	out, err = out.InferPanels()
	if err != nil {
		return nil, err
	}
	if len(out.panelOrder) == 0 {
		return nil, &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  "No panels were found or inferred.",
		}
	}

	for _, panelCol := range out.panelOrder {
		p := out.panels[panelCol]
		if (p.Writeable || p.ShouldCopy) && (!p.PanelsWritten || forceWrite || out.forcePlot) {
			out, err = out.WriteOrCopyPanels(panelCol)
			if err != nil {
				return nil, err
			}
		}
	}

	out, err = out.Infer()
	if err != nil {
		return nil, err
	}
	if err := out.inferThumbnailURL(); err != nil {
		return nil, err
	}

	if err := out.writeDisplayInfo(jsonp, configID); err != nil {
		return nil, err
	}
	if err := out.writeMetaData(); err != nil {
		return nil, err
	}
	if err := out.updateDisplayList(out.OutputPath(), jsonp, configID); err != nil {
		return nil, err
	}
	if err := out.writeIndexAndIDFiles(); err != nil {
		return nil, err
	}

	out.logger.Info("display written", "path", out.OutputPath())
	return out, nil
}

// createOutputDirs prepares a clean output tree, replacing any previous
// write of the same display. An unset path gets a temporary directory.
func (d *Display) createOutputDirs() error {
	if d.path == "" {
		tmp, err := os.MkdirTemp("", "facetview")
		if err != nil {
			return err
		}
		d.path = tmp
	}

	outputDir := d.OutputPath()
	d.logger.Info("saving display", "path", outputDir)

	if err := os.RemoveAll(outputDir); err != nil {
		return err
	}
	return os.MkdirAll(d.datasetDisplayPath(), 0o755)
}

// checkAppConfig returns the app config, reading an existing config file
// in the app directory or creating and writing a fresh one.
func (d *Display) checkAppConfig(appDir string, jsonp bool) (map[string]any, error) {
	jsonpFile := jsonFilePath(appDir, configFileName, true)
	jsonFile := jsonFilePath(appDir, configFileName, false)

	if _, err := os.Stat(jsonpFile); err == nil {
		return readJSONP(jsonpFile)
	}
	if _, err := os.Stat(jsonFile); err == nil {
		return readJSONP(jsonFile)
	}

	datatype := "json"
	if jsonp {
		datatype = "jsonp"
	}
	config := map[string]any{
		"name":     "Facetview App",
		"datatype": datatype,
		"id":       d.id,
	}

	content, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	file := jsonFilePath(appDir, configFileName, jsonp)
	functionName := "__loadAppConfig__" + d.id
	if err := writeJSONFile(file, jsonp, functionName, string(content)); err != nil {
		return nil, err
	}
	return config, nil
}

// WriteOrCopyPanels materializes the panel files for one column: local
// image references are copied into the output tree, figure objects are
// rendered through their Renderable capability. The column is rewritten to
// hold output-relative paths; figure panels keep the originals in their
// shadow column. Never mutates the receiver.
func (d *Display) WriteOrCopyPanels(panelCol string) (*Display, error) {
	out := d.copy()
	// Column rewrites below must not leak into the receiver's dataset.
	out.df = d.df.Copy()

	p, ok := out.panels[panelCol]
	if !ok {
		return nil, &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  fmt.Sprintf("There is no panel associated with column %s", panelCol),
		}
	}

	absDir := out.panelOutputPath(panelCol, true)
	relDir := out.panelOutputPath(panelCol, false)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, err
	}

	switch {
	case p.ShouldCopy:
		if err := out.copyImagesToBuildDirectory(panelCol, absDir, relDir); err != nil {
			return nil, err
		}
	case p.Writeable:
		if err := out.renderFiguresToBuildDirectory(p, absDir, relDir); err != nil {
			return nil, err
		}
	}

	p.PanelsWritten = true
	return out, nil
}

// copyImagesToBuildDirectory relocates each referenced image file into the
// output tree and rewrites the column to the relative destination paths.
func (d *Display) copyImagesToBuildDirectory(panelCol, absDir, relDir string) error {
	col := d.df.Column(panelCol)

	values := make([]any, col.Len())
	for i := 0; i < col.Len(); i++ {
		original, ok := col.Value(i).(string)
		if !ok {
			return &checks.CheckError{
				Kind: checks.ErrBadValue,
				Msg:  fmt.Sprintf("panel column %s holds a non-path value at row %d", panelCol, i),
			}
		}
		filename := filepath.Base(original)
		if err := copyFile(original, filepath.Join(absDir, filename)); err != nil {
			return err
		}
		values[i] = filepath.Join(relDir, filename)
	}
	return d.df.SetColumn(panelCol, values)
}

// renderFiguresToBuildDirectory writes each figure object to a file named
// after the row's key column values and rewrites the column to the
// relative output paths. The original figures are preserved in the panel's
// shadow column.
func (d *Display) renderFiguresToBuildDirectory(p *panel.Panel, absDir, relDir string) error {
	col := d.df.Column(p.Varname)

	extension, err := p.GetExtension()
	if err != nil {
		return err
	}

	// Preserve the original figure objects before overwriting the column
	// with file paths.
	shadow := append([]any{}, col.Values()...)
	if err := d.df.SetColumn(p.FigureVarname, shadow); err != nil {
		return err
	}

	var bar *progress.Bar
	if d.showProgress {
		bar = progress.New(col.Len(), "Saving images:")
	}

	values := make([]any, col.Len())
	for i := 0; i < col.Len(); i++ {
		fig, ok := col.Value(i).(dataset.Renderable)
		if !ok {
			return &checks.CheckError{
				Kind: checks.ErrBadValue,
				Msg:  fmt.Sprintf("panel column %s holds a non-renderable value at row %d", p.Varname, i),
			}
		}

		prefix := d.figureFilePrefix(i)
		filename := prefix + "." + extension
		if err := fig.RenderTo(filepath.Join(absDir, filename)); err != nil {
			return err
		}
		values[i] = filepath.Join(relDir, filename)

		if bar != nil {
			bar.RecordProgress()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	return d.df.SetColumn(p.Varname, values)
}

// figureFilePrefix derives a sanitized file name prefix for one row from
// its key column values, falling back to the row position when no key
// columns exist.
func (d *Display) figureFilePrefix(row int) string {
	if len(d.keyCols) == 0 {
		return fmt.Sprintf("%d", row)
	}
	parts := make([]string, len(d.keyCols))
	for i, keyCol := range d.keyCols {
		parts[i] = fmt.Sprintf("%v", d.df.Column(keyCol).Value(row))
	}
	return sanitize(strings.Join(parts, "_"), true)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// writeDisplayInfo writes the serialized display description.
func (d *Display) writeDisplayInfo(jsonp bool, id string) error {
	file := jsonFilePath(d.datasetDisplayPath(), displayInfoFileName, jsonp)
	content, err := d.ToJSON(true)
	if err != nil {
		return err
	}
	functionName := "__loadDisplayInfo__" + id
	return writeJSONFile(file, jsonp, functionName, string(content))
}

// writeMetaData writes metaData.js: one record per row covering the meta
// columns, with factor columns encoded as 1-based level codes.
func (d *Display) writeMetaData() error {
	file := filepath.Join(d.datasetDisplayPath(), metadataFileName+".js")

	records := make([]map[string]any, d.df.NumRows())
	for i := range records {
		records[i] = map[string]any{}
	}

	for _, m := range d.metas {
		col := d.df.Column(m.Varname())
		if col == nil {
			continue
		}
		if _, isFactor := m.(*meta.FactorMeta); isFactor && col.IsFactor() {
			codes, err := col.FactorCodes()
			if err != nil {
				return err
			}
			for i, code := range codes {
				records[i][m.Varname()] = code
			}
			continue
		}
		for i := 0; i < col.Len(); i++ {
			records[i][m.Varname()] = col.Value(i)
		}
	}

	var content []byte
	var err error
	if d.prettyMeta {
		content, err = json.MarshalIndent(records, "", "  ")
	} else {
		content, err = json.Marshal(records)
	}
	if err != nil {
		return err
	}
	return writeWindowJSFile(file, "metaData", string(content))
}

// updateDisplayList regenerates the display list from every displayInfo
// file under the app's displays directory.
func (d *Display) updateDisplayList(appPath string, jsonp bool, id string) error {
	displaysPath := filepath.Join(appPath, displaysDir)
	if _, err := os.Stat(displaysPath); err != nil {
		return &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  fmt.Sprintf("The directory %s does not contain any displays.", appPath),
		}
	}

	ext := "json"
	if jsonp {
		ext = "jsonp"
	}
	pattern := filepath.Join(displaysPath, "*", displayInfoFileName+"."+ext)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	list := make([]map[string]any, 0, len(files))
	for _, file := range files {
		info, err := readJSONP(file)
		if err != nil {
			return err
		}
		entry := map[string]any{}
		for _, key := range []string{"name", "description", "tags", "keysig", "thumbnailurl"} {
			entry[key] = info[key]
		}
		list = append(list, entry)
	}

	content, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	file := jsonFilePath(d.displaysPath(), displayListFileName, jsonp)
	functionName := "__loadDisplayList__" + id
	return writeJSONFile(file, jsonp, functionName, string(content))
}

// writeIndexAndIDFiles writes the viewer bootstrap page and the id file.
func (d *Display) writeIndexAndIDFiles() error {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/trelliscopejs-lib@%[1]s/dist/assets/index.js"></script>
<link href="https://unpkg.com/trelliscopejs-lib@%[1]s/dist/assets/index.css" rel="stylesheet" />

</head>
<body onload="trelliscopeApp('%[2]s', 'config.jsonp')">
  <div id="%[2]s" class="trelliscope-spa">
</body>
</html>
`, defaultViewerVersion, d.id)

	indexFile := filepath.Join(d.OutputPath(), "index.html")
	if err := os.WriteFile(indexFile, []byte(html), 0o644); err != nil {
		return err
	}
	idFile := filepath.Join(d.OutputPath(), "id")
	return os.WriteFile(idFile, []byte(d.id), 0o644)
}
