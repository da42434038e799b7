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
	"fmt"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
)

// StringMeta describes a plain string column. The column does not have to
// hold strings already, only values that cast cleanly to them.
type StringMeta struct {
	Common
}

// NewStringMeta creates a meta for a string column.
func NewStringMeta(varname string) *StringMeta {
	return &StringMeta{Common: newCommon(TypeString, varname, true, true)}
}

// CheckWithData verifies the column exists and is an atomic vector.
func (m *StringMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	return checks.AtomicVector(ds, m.varname, m.dataErrMsg)
}

// CastVariable returns a copy of the dataset with the column converted to
// string values. The input dataset is not modified.
func (m *StringMeta) CastVariable(ds *dataset.Dataset) (*dataset.Dataset, error) {
	col := ds.Column(m.varname)
	if col == nil {
		return nil, m.checkVarname(ds)
	}
	out := ds.Copy()
	values := make([]any, col.Len())
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == nil {
			values[i] = nil
			continue
		}
		values[i] = fmt.Sprintf("%v", v)
	}
	if err := out.SetColumn(m.varname, values); err != nil {
		return nil, err
	}
	return out, nil
}

// Copy returns an independent copy of the meta.
func (m *StringMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *StringMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire())
}

// HrefMeta describes a column of hyperlink targets. Never filterable or
// sortable.
type HrefMeta struct {
	Common
}

// NewHrefMeta creates a meta for a hyperlink column.
func NewHrefMeta(varname string) *HrefMeta {
	return &HrefMeta{Common: newCommon(TypeHref, varname, false, false)}
}

// CheckWithData verifies the column exists and holds string values.
func (m *HrefMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	col := ds.Column(m.varname)
	if !checks.IsStringColumn(col) {
		return &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  m.dataErrMsg("Data type is not a string"),
		}
	}
	return nil
}

// Copy returns an independent copy of the meta.
func (m *HrefMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *HrefMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire())
}
