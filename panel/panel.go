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
	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
)

// Panel type discriminators as the viewer expects them.
const (
	TypeImage  = "img"
	TypeIFrame = "iframe"
)

// FigureSuffix is appended to a figure panel's varname to form the shadow
// column that preserves the original in-memory figure objects after the
// primary column is overwritten with rendered file paths.
const FigureSuffix = "__FIGURE"

// DefaultAspectRatio is used when neither the panel variant nor the
// options specify one.
const DefaultAspectRatio = 1.5

// Panel describes one visual-content column of a dataset.
//
// Exactly one of three variants is constructed:
//
//   - image panels (NewImagePanel): values are already file references,
//     optionally copied into the output tree;
//   - iframe panels (NewIFramePanel): values are embeddable content, never
//     written or copied;
//   - figure panels (NewFigurePanel): values are in-memory Renderables that
//     must be rendered to files before viewing.
type Panel struct {
	// Varname is the dataset column this panel describes.
	Varname string

	// PanelType is the viewer-facing type, "img" or "iframe".
	PanelType string

	// Source describes where the panel content lives.
	Source Source

	// AspectRatio is the display aspect ratio, strictly positive.
	AspectRatio float64

	// IsImage marks panels whose values are direct image references.
	IsImage bool

	// Writeable marks panels that must be rendered from in-memory figure
	// objects to files.
	Writeable bool

	// ShouldCopy marks panels whose values are existing local files that
	// must be relocated into the output tree.
	ShouldCopy bool

	// PanelsWritten flips true once the write/copy step has run.
	PanelsWritten bool

	// FigureVarname is the shadow column holding the original figure
	// objects for figure panels; empty otherwise.
	FigureVarname string

	// Extension is the rendered file extension for figure panels.
	Extension string
}

// NewImagePanel creates a panel for a column of existing image references.
func NewImagePanel(varname string, source Source, aspectRatio float64, shouldCopy bool) *Panel {
	return &Panel{
		Varname:     varname,
		PanelType:   TypeImage,
		Source:      source,
		AspectRatio: aspectRatio,
		IsImage:     true,
		ShouldCopy:  shouldCopy,
	}
}

// NewIFramePanel creates a panel for a column of embeddable content.
func NewIFramePanel(varname string, source Source, aspectRatio float64) *Panel {
	return &Panel{
		Varname:     varname,
		PanelType:   TypeIFrame,
		Source:      source,
		AspectRatio: aspectRatio,
	}
}

// NewFigurePanel creates a panel for a column of in-memory renderable
// figures that will be written out with the given extension.
func NewFigurePanel(varname string, source Source, extension string, aspectRatio float64) *Panel {
	return &Panel{
		Varname:       varname,
		PanelType:     TypeImage,
		Source:        source,
		AspectRatio:   aspectRatio,
		Writeable:     true,
		FigureVarname: varname + FigureSuffix,
		Extension:     extension,
	}
}

// GetExtension returns the file extension written for this panel. Only
// figure panels carry one.
func (p *Panel) GetExtension() (string, error) {
	if p.Extension == "" {
		return "", checks.NotImplemented(nil, "this type of panel does not provide for extensions")
	}
	return p.Extension, nil
}

// CheckValid verifies that the panel's column exists in the dataset.
func (p *Panel) CheckValid(ds *dataset.Dataset) error {
	return checks.HasVariable(ds, p.Varname, nil)
}

// Copy returns an independent copy of the panel.
func (p *Panel) Copy() *Panel {
	clone := *p
	if p.Source != nil {
		clone.Source = p.Source.Copy()
	}
	return &clone
}

// Create infers a panel for the given column and returns the appropriate
// variant.
//
// When the column is not already known to hold figures or images, the
// column content is probed: uniformly renderable values make a figure
// column, uniformly whitelisted image references make an image column.
// Figure columns become figure panels (an explicit format in opts wins
// over the default extension). Image columns become image panels whose
// locality is decided by the all-remote heuristic: local panels are marked
// for copying into the output tree. Anything else is an error.
//
// opts may be nil. opts.NoPrerender would demand a lazy local websocket
// source, which is not implemented and returns an error.
func Create(ds *dataset.Dataset, column string, opts *Options, knownFigureCol, knownImageCol bool) (*Panel, error) {
	col := ds.Column(column)
	if col == nil {
		return nil, checks.HasVariable(ds, column, nil)
	}

	if !knownFigureCol && !knownImageCol {
		if checks.IsImageColumn(col) {
			knownImageCol = true
		} else if checks.IsFigureColumn(col) {
			knownFigureCol = true
		}
	}

	if opts != nil && opts.NoPrerender {
		return nil, checks.NotImplemented(nil, "local web socket panel source is not implemented yet")
	}
	source := NewFileSource(true)

	var p *Panel
	switch {
	case knownFigureCol:
		extension := "png"
		if opts != nil && opts.Format != "" {
			extension = opts.Format
		}
		p = NewFigurePanel(column, source, extension, DefaultAspectRatio)

	case knownImageCol:
		isLocal := !checks.AllRemote(col)
		source.IsLocal = isLocal
		// Local image files get copied into the output directory.
		p = NewImagePanel(column, source, DefaultAspectRatio, isLocal)

	default:
		return nil, &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  "could not determine how to create a panel for " + column,
		}
	}

	if opts != nil {
		switch {
		case opts.Aspect > 0:
			p.AspectRatio = opts.Aspect
		case opts.Width > 0 && opts.Height > 0:
			p.AspectRatio = float64(opts.Width) / float64(opts.Height)
		}
	}
	return p, nil
}
