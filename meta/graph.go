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

// Graph edge directions.
const (
	DirectionNone = "none"
	DirectionTo   = "to"
	DirectionFrom = "from"
)

// GraphMeta describes a column of graph edges referencing an id column.
type GraphMeta struct {
	Common

	idVarname string
	direction string
}

// NewGraphMeta creates a meta for a graph column. An empty direction
// defaults to "none"; otherwise it must be one of none, to, from.
func NewGraphMeta(varname, idVarname, direction string) (*GraphMeta, error) {
	m := &GraphMeta{
		Common:    newCommon(TypeGraph, varname, true, false),
		idVarname: idVarname,
		direction: direction,
	}
	if m.direction == "" {
		m.direction = DirectionNone
	}
	if err := checks.Enum(m.direction, []string{DirectionNone, DirectionTo, DirectionFrom}, m.errMsg); err != nil {
		return nil, err
	}
	return m, nil
}

// IDVarname returns the id column the edges reference.
func (m *GraphMeta) IDVarname() string { return m.idVarname }

// Direction returns the edge direction.
func (m *GraphMeta) Direction() string { return m.direction }

// CheckWithData verifies the graph and id columns exist. Structural
// validation of the edge list itself is not implemented and fails loudly.
func (m *GraphMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	if err := checks.HasVariable(ds, m.idVarname, m.dataErrMsg); err != nil {
		return err
	}
	return checks.GraphVariable(ds, m.varname, m.idVarname, m.dataErrMsg)
}

// Copy returns an independent copy of the meta.
func (m *GraphMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *GraphMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireCommon
		IDVarname string `json:"idvarname"`
		Direction string `json:"direction"`
	}{wireCommon: m.wire(), IDVarname: m.idVarname, Direction: m.direction})
}

// GeoMeta describes a geographic point drawn from separate latitude and
// longitude columns. The column names are internal bookkeeping and are not
// serialized.
type GeoMeta struct {
	Common

	latVar  string
	longVar string
}

// NewGeoMeta creates a meta for a geographic variable backed by the given
// latitude and longitude columns.
func NewGeoMeta(varname, latVar, longVar string) *GeoMeta {
	return &GeoMeta{
		Common:  newCommon(TypeGeo, varname, true, false),
		latVar:  latVar,
		longVar: longVar,
	}
}

// LatVar returns the latitude column name.
func (m *GeoMeta) LatVar() string { return m.latVar }

// LongVar returns the longitude column name.
func (m *GeoMeta) LongVar() string { return m.longVar }

// CheckWithData verifies that the latitude and longitude columns exist,
// are numeric, and lie within their valid ranges. The meta's own varname
// is virtual and has no existence requirement of its own.
func (m *GeoMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := checks.HasVariable(ds, m.latVar, m.dataErrMsg); err != nil {
		return err
	}
	if err := checks.HasVariable(ds, m.longVar, m.dataErrMsg); err != nil {
		return err
	}
	if err := checks.LatitudeVariable(ds, m.latVar, m.dataErrMsg); err != nil {
		return err
	}
	return checks.LongitudeVariable(ds, m.longVar, m.dataErrMsg)
}

// Copy returns an independent copy of the meta.
func (m *GeoMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	return &clone
}

// MarshalJSON serializes the meta for the viewer. The latvar and longvar
// column names are dropped from the wire form.
func (m *GeoMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire())
}
