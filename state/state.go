// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package state models the opening state of a display: the grid layout,
// the labels shown under each panel, and the sort and filter definitions.
//
// The four state kinds combine into a DisplayState. Sort and filter states
// are keyed by variable name in insertion order; the declared order is the
// sort/filter priority and survives serialization. Views wrap a named
// alternate DisplayState selectable in the viewer.
package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/meta"
)

// State kind discriminators.
const (
	KindLayout = "layout"
	KindLabels = "labels"
	KindSort   = "sort"
	KindFilter = "filter"
)

// Sort directions.
const (
	DirAscending  = "asc"
	DirDescending = "desc"
)

// ViewtypeGrid is the only layout view type the viewer supports.
const ViewtypeGrid = "grid"

// State is the capability every state kind provides.
type State interface {
	// Kind returns the state kind discriminator.
	Kind() string

	// CheckWithData validates the state against the dataset.
	CheckWithData(ds *dataset.Dataset) error

	// Copy returns an independent copy of the state.
	Copy() State

	json.Marshaler
}

// common carries the kind tag and error formatting shared by all states.
type common struct {
	kind string
}

// errMsg wraps a definition-check message with the state kind.
func (c common) errMsg(text string) string {
	return fmt.Sprintf("While checking a %s state definition: %s", c.kind, text)
}

// dataErrMsg wraps a data-check message with the state kind.
func (c common) dataErrMsg(text string) string {
	return fmt.Sprintf("While checking %s state definition against the data: %s", c.kind, text)
}

func (c common) valueError(text string) error {
	return &checks.CheckError{Kind: checks.ErrBadValue, Msg: text}
}

// Kind returns the state kind discriminator.
func (c common) Kind() string { return c.kind }

// LayoutState defines the panel grid: columns per page and the page the
// display opens on.
type LayoutState struct {
	common

	NCol     int
	Page     int
	Viewtype string
}

// NewLayoutState creates a layout state. Non-positive arguments fall back
// to one column and the first page.
func NewLayoutState(ncol, page int) *LayoutState {
	if ncol <= 0 {
		ncol = 1
	}
	if page <= 0 {
		page = 1
	}
	return &LayoutState{
		common:   common{kind: KindLayout},
		NCol:     ncol,
		Page:     page,
		Viewtype: ViewtypeGrid,
	}
}

// CheckWithData always succeeds; the layout does not reference columns.
func (s *LayoutState) CheckWithData(*dataset.Dataset) error { return nil }

// Copy returns an independent copy of the state.
func (s *LayoutState) Copy() State {
	clone := *s
	return &clone
}

// MarshalJSON serializes the layout for the viewer.
func (s *LayoutState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		NCol     int    `json:"ncol"`
		Page     int    `json:"page"`
		Viewtype string `json:"viewtype"`
	}{Type: s.kind, NCol: s.NCol, Page: s.Page, Viewtype: s.Viewtype})
}

// LabelState defines which variables are shown as labels under each panel.
type LabelState struct {
	common

	Varnames []string
}

// NewLabelState creates a label state for the given variables.
func NewLabelState(varnames []string) *LabelState {
	if varnames == nil {
		varnames = []string{}
	}
	return &LabelState{
		common:   common{kind: KindLabels},
		Varnames: varnames,
	}
}

// CheckWithData verifies every label variable exists as a dataset column.
func (s *LabelState) CheckWithData(ds *dataset.Dataset) error {
	var missing []string
	for _, v := range s.Varnames {
		if !ds.HasColumn(v) {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return s.valueError(s.dataErrMsg(
			"Label variables not found in data: " + strings.Join(missing, ", ")))
	}
	return nil
}

// Copy returns an independent copy of the state.
func (s *LabelState) Copy() State {
	clone := *s
	clone.Varnames = append([]string{}, s.Varnames...)
	return &clone
}

// MarshalJSON serializes the labels for the viewer.
func (s *LabelState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		Varnames []string `json:"varnames"`
	}{Type: s.kind, Varnames: s.Varnames})
}

// SortState defines one sort priority: a variable and a direction. The
// meta type is filled in during reconciliation against the display's metas.
type SortState struct {
	common

	Varname  string
	Dir      string
	Metatype string
}

// NewSortState creates a sort state. An empty direction defaults to
// ascending; otherwise it must be asc or desc.
func NewSortState(varname, dir string) (*SortState, error) {
	s := &SortState{
		common:  common{kind: KindSort},
		Varname: varname,
		Dir:     dir,
	}
	if s.Dir == "" {
		s.Dir = DirAscending
	}
	if err := checks.Enum(s.Dir, []string{DirAscending, DirDescending}, s.errMsg); err != nil {
		return nil, err
	}
	return s, nil
}

// CheckWithData verifies the sort variable exists as a dataset column.
func (s *SortState) CheckWithData(ds *dataset.Dataset) error {
	if !ds.HasColumn(s.Varname) {
		return s.valueError(s.dataErrMsg(fmt.Sprintf(
			"'%s' not found in the dataset that the %s state definition is being applied to.",
			s.Varname, s.kind)))
	}
	return nil
}

// CheckWithMeta verifies the matching meta allows sorting.
func (s *SortState) CheckWithMeta(m meta.Meta) error {
	if !m.Sortable() {
		return s.valueError(s.errMsg(fmt.Sprintf("'%s' is not sortable", s.Varname)))
	}
	return nil
}

// Copy returns an independent copy of the state.
func (s *SortState) Copy() State {
	clone := *s
	return &clone
}

// MarshalJSON serializes the sort state for the viewer.
func (s *SortState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string  `json:"type"`
		Varname  string  `json:"varname"`
		Dir      string  `json:"dir"`
		Metatype *string `json:"metatype"`
	}{Type: s.kind, Varname: s.Varname, Dir: s.Dir, Metatype: nullable(s.Metatype)})
}

// nullable maps an empty string to a JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
