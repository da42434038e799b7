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
)

// FactorMeta describes a categorical column with an ordered level set.
type FactorMeta struct {
	Common

	// levels is the declared level list; nil until supplied or inferred.
	levels []string
}

// NewFactorMeta creates a meta for a categorical column. Nil levels are
// inferred from the data during CheckWithData.
func NewFactorMeta(varname string, levels []string) *FactorMeta {
	m := &FactorMeta{Common: newCommon(TypeFactor, varname, true, true)}
	if levels != nil {
		m.levels = append([]string{}, levels...)
	}
	return m
}

// Levels returns the declared levels, or nil when not yet inferred.
func (m *FactorMeta) Levels() []string { return m.levels }

// InferLevels fills the level list from the column's distinct values. The
// column's declared factor levels are used when present; otherwise the
// column is coerced to categorical and the sorted distinct values become
// the levels.
func (m *FactorMeta) InferLevels(ds *dataset.Dataset) error {
	col := ds.Column(m.varname)
	if col == nil {
		return m.checkVarname(ds)
	}
	if col.IsFactor() {
		m.levels = append([]string{}, col.Levels()...)
		return nil
	}
	m.levels = col.DistinctStrings()
	return nil
}

// CheckWithData verifies the column exists and that the level set is
// exhaustive: every value present in the column must be a declared level.
// Extra declared levels are allowed. Nil levels are inferred first.
func (m *FactorMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	if m.levels == nil {
		if err := m.InferLevels(ds); err != nil {
			return err
		}
	}
	return checks.ExhaustiveLevels(ds, m.levels, m.varname, m.dataErrMsg)
}

// CastVariable would convert the column to a categorical type. It is
// deliberately unimplemented; level inference happens in CheckWithData.
func (m *FactorMeta) CastVariable(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return nil, checks.NotImplemented(m.errMsg, "casting a variable to a factor is not implemented")
}

// Copy returns an independent copy of the meta.
func (m *FactorMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	if m.levels != nil {
		clone.levels = append([]string{}, m.levels...)
	}
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *FactorMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireCommon
		Levels []string `json:"levels"`
	}{wireCommon: m.wire(), Levels: m.levels})
}
