// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package meta models the typed, viewer-facing description of one dataset
// column: how it can be filtered, sorted, labeled, and displayed.
//
// The set of meta kinds is closed: number, currency, string, factor, date,
// datetime, graph, geo, href, and panel. Each variant validates its column
// against the dataset (CheckWithData) and serializes itself to the exact
// wire schema the viewer consumes: internal-only fields are dropped or
// renamed (panel_source becomes source, panel_type becomes paneltype, the
// geo lat/long column names are dropped entirely).
//
// Validation is fail-fast: the first failed check aborts with an error
// carrying the meta type and variable name in its message.
package meta

import (
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
)

// Meta type discriminators.
const (
	TypeString   = "string"
	TypePanel    = "panel"
	TypeHref     = "href"
	TypeFactor   = "factor"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeDatetime = "datetime"
	TypeCurrency = "currency"
	TypeGraph    = "graph"
	TypeGeo      = "geo"
)

// Meta is the capability every column descriptor variant provides.
type Meta interface {
	// Type returns the wire discriminator of the variant.
	Type() string

	// Varname returns the dataset column this meta describes.
	Varname() string

	// Filterable reports whether the viewer may filter on the column.
	Filterable() bool

	// Sortable reports whether the viewer may sort on the column.
	Sortable() bool

	// Label returns the display label and whether one has been set.
	Label() (string, bool)

	// SetLabel sets the display label.
	SetLabel(label string)

	// FinalizeLabel defaults an unset label to the varname. Idempotent.
	FinalizeLabel()

	// Tags returns the categorization tags, never nil.
	Tags() []string

	// SetTags replaces the tags; nil normalizes to an empty list.
	SetTags(tags []string)

	// CheckWithData validates the meta against the dataset: first that the
	// variable exists, then the variant-specific content checks. The first
	// failure aborts.
	CheckWithData(ds *dataset.Dataset) error

	// Copy returns an independent copy of the meta.
	Copy() Meta

	json.Marshaler
}

// NormalizeTags converts a dynamically-typed tags value (as decoded from a
// config file) to a string list: nil becomes an empty list, a bare string
// becomes a one-element list.
func NormalizeTags(value any) ([]string, error) {
	switch t := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		return []string{t}, nil
	case []string:
		return append([]string{}, t...), nil
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				return nil, &checks.CheckError{Kind: checks.ErrBadValue, Msg: "Tags is an unrecognized type."}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &checks.CheckError{Kind: checks.ErrBadValue, Msg: "Tags is an unrecognized type."}
	}
}

// Common carries the attributes shared by every meta variant.
type Common struct {
	metaType   string
	varname    string
	filterable bool
	sortable   bool
	label      string
	labelSet   bool
	tags       []string
}

func newCommon(metaType, varname string, filterable, sortable bool) Common {
	return Common{
		metaType:   metaType,
		varname:    varname,
		filterable: filterable,
		sortable:   sortable,
		tags:       []string{},
	}
}

// Type returns the wire discriminator of the variant.
func (c *Common) Type() string { return c.metaType }

// Varname returns the dataset column this meta describes.
func (c *Common) Varname() string { return c.varname }

// Filterable reports whether the viewer may filter on the column.
func (c *Common) Filterable() bool { return c.filterable }

// Sortable reports whether the viewer may sort on the column.
func (c *Common) Sortable() bool { return c.sortable }

// Label returns the display label and whether one has been set.
func (c *Common) Label() (string, bool) { return c.label, c.labelSet }

// SetLabel sets the display label.
func (c *Common) SetLabel(label string) {
	c.label = label
	c.labelSet = true
}

// FinalizeLabel defaults an unset label to the varname. Idempotent.
func (c *Common) FinalizeLabel() {
	if !c.labelSet {
		c.SetLabel(c.varname)
	}
}

// Tags returns the categorization tags, never nil.
func (c *Common) Tags() []string { return c.tags }

// SetTags replaces the tags; nil normalizes to an empty list.
func (c *Common) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	c.tags = tags
}

// errMsg wraps a check message with the meta type and variable name.
func (c *Common) errMsg(text string) string {
	return fmt.Sprintf("While defining a `%s` meta variable for the variable `%s`: `%s`",
		c.metaType, c.varname, text)
}

// dataErrMsg wraps a data-check message with the variable name.
func (c *Common) dataErrMsg(text string) string {
	return fmt.Sprintf("While checking meta variable definition for variable `%s` against the data: `%s`",
		c.varname, text)
}

// checkVarname verifies the meta's column exists in the dataset.
func (c *Common) checkVarname(ds *dataset.Dataset) error {
	return checks.HasVariable(ds, c.varname, c.errMsg)
}

// wireLabel is the serialized label: the varname when none was set.
func (c *Common) wireLabel() string {
	if c.labelSet {
		return c.label
	}
	return c.varname
}

func (c *Common) copy() Common {
	clone := *c
	clone.tags = append([]string{}, c.tags...)
	return clone
}

// wireCommon is the shared portion of every meta's wire form.
type wireCommon struct {
	Type       string   `json:"type"`
	Varname    string   `json:"varname"`
	Filterable bool     `json:"filterable"`
	Sortable   bool     `json:"sortable"`
	Label      string   `json:"label"`
	Tags       []string `json:"tags"`
}

func (c *Common) wire() wireCommon {
	return wireCommon{
		Type:       c.metaType,
		Varname:    c.varname,
		Filterable: c.filterable,
		Sortable:   c.sortable,
		Label:      c.wireLabel(),
		Tags:       c.tags,
	}
}
