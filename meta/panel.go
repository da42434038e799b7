// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package meta

import (
	"encoding/json"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/panel"
)

// PanelMeta describes a visual-content column. It is neither filterable
// nor sortable and takes its varname from the panel it wraps.
type PanelMeta struct {
	Common

	panel *panel.Panel
}

// NewPanelMeta creates a meta for the given panel, validating that the
// aspect ratio is strictly positive and the panel type is recognized.
func NewPanelMeta(p *panel.Panel) (*PanelMeta, error) {
	m := &PanelMeta{
		Common: newCommon(TypePanel, p.Varname, false, false),
		panel:  p,
	}
	if err := checks.PositiveNumeric(p.AspectRatio, "aspect", m.errMsg); err != nil {
		return nil, err
	}
	if err := checks.Enum(p.PanelType, []string{panel.TypeImage, panel.TypeIFrame}, m.errMsg); err != nil {
		return nil, err
	}
	return m, nil
}

// Panel returns the wrapped panel.
func (m *PanelMeta) Panel() *panel.Panel { return m.panel }

// CheckWithData verifies the panel's column exists in the dataset.
func (m *PanelMeta) CheckWithData(ds *dataset.Dataset) error {
	return m.checkVarname(ds)
}

// Copy returns an independent copy of the meta, including the panel.
func (m *PanelMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	if m.panel != nil {
		clone.panel = m.panel.Copy()
	}
	return &clone
}

// MarshalJSON serializes the meta for the viewer, flattening the panel's
// aspect ratio, source, and type into the meta object.
func (m *PanelMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireCommon
		Aspect    float64      `json:"aspect"`
		Source    panel.Source `json:"source"`
		PanelType string       `json:"paneltype"`
	}{
		wireCommon: m.wire(),
		Aspect:     m.panel.AspectRatio,
		Source:     m.panel.Source,
		PanelType:  m.panel.PanelType,
	})
}
