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

// DateMeta describes a calendar-date column.
type DateMeta struct {
	Common
}

// NewDateMeta creates a meta for a date column.
func NewDateMeta(varname string) *DateMeta {
	return &DateMeta{Common: newCommon(TypeDate, varname, true, true)}
}

// CheckWithData verifies the column exists and is datetime-like.
func (m *DateMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	return checks.Datetime(ds, m.varname, m.dataErrMsg)
}

// Copy returns an independent copy of the meta.
func (m *DateMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *DateMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire())
}

// DefaultTimezone is used when no timezone is given for a datetime meta.
const DefaultTimezone = "UTC"

// DatetimeMeta describes a timestamp column with an associated timezone.
type DatetimeMeta struct {
	Common

	timezone string
}

// NewDatetimeMeta creates a meta for a datetime column. An empty timezone
// defaults to UTC.
func NewDatetimeMeta(varname, timezone string) *DatetimeMeta {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	return &DatetimeMeta{
		Common:   newCommon(TypeDatetime, varname, true, true),
		timezone: timezone,
	}
}

// Timezone returns the configured timezone.
func (m *DatetimeMeta) Timezone() string { return m.timezone }

// CheckWithData verifies the column exists and is datetime-like.
func (m *DatetimeMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	return checks.Datetime(ds, m.varname, m.dataErrMsg)
}

// CastVariable returns a copy of the dataset with the column coerced to
// time values. Every value must coerce; a single failure aborts the cast.
// The input dataset is not modified.
func (m *DatetimeMeta) CastVariable(ds *dataset.Dataset) (*dataset.Dataset, error) {
	col := ds.Column(m.varname)
	if col == nil {
		return nil, m.checkVarname(ds)
	}
	values := make([]any, col.Len())
	for i := 0; i < col.Len(); i++ {
		t, ok := checks.CoerceTime(col.Value(i))
		if !ok {
			return nil, &checks.CheckError{
				Kind: checks.ErrBadValue,
				Msg:  m.dataErrMsg("Not all values could be coerced into DateTime values."),
			}
		}
		values[i] = t
	}
	out := ds.Copy()
	if err := out.SetColumn(m.varname, values); err != nil {
		return nil, err
	}
	return out, nil
}

// Copy returns an independent copy of the meta.
func (m *DatetimeMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *DatetimeMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireCommon
		Timezone string `json:"timezone"`
	}{wireCommon: m.wire(), Timezone: m.timezone})
}
