// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/meta"
)

// Filter type discriminators.
const (
	FilterTypeCategory      = "category"
	FilterTypeNumberRange   = "numberrange"
	FilterTypeDateRange     = "daterange"
	FilterTypeDatetimeRange = "datetimerange"
)

// Filter is the capability every filter state variant provides. The set of
// meta types a filter applies to is internal bookkeeping and is never
// serialized.
type Filter interface {
	State

	// Varname returns the variable the filter applies to.
	Varname() string

	// FilterType returns the filter type discriminator.
	FilterType() string

	// AppliesTo returns the meta types the filter is compatible with.
	AppliesTo() []string

	// Metatype returns the reconciled meta type, empty when unset.
	Metatype() string

	// SetMetatype sets the reconciled meta type.
	SetMetatype(metatype string)

	// CheckWithMeta verifies the matching meta's type is one the filter
	// applies to.
	CheckWithMeta(m meta.Meta) error
}

// baseFilter carries the attributes shared by every filter variant.
type baseFilter struct {
	common

	varname    string
	filtertype string
	appliesTo  []string
	metatype   string
}

func newBaseFilter(varname, filtertype string, appliesTo []string) baseFilter {
	return baseFilter{
		common:     common{kind: KindFilter},
		varname:    varname,
		filtertype: filtertype,
		appliesTo:  appliesTo,
	}
}

// Varname returns the variable the filter applies to.
func (f *baseFilter) Varname() string { return f.varname }

// FilterType returns the filter type discriminator.
func (f *baseFilter) FilterType() string { return f.filtertype }

// AppliesTo returns the meta types the filter is compatible with.
func (f *baseFilter) AppliesTo() []string { return f.appliesTo }

// Metatype returns the reconciled meta type, empty when unset.
func (f *baseFilter) Metatype() string { return f.metatype }

// SetMetatype sets the reconciled meta type.
func (f *baseFilter) SetMetatype(metatype string) { f.metatype = metatype }

// CheckWithData verifies the filter variable exists as a dataset column.
func (f *baseFilter) CheckWithData(ds *dataset.Dataset) error {
	if !ds.HasColumn(f.varname) {
		return f.valueError(f.dataErrMsg(fmt.Sprintf(
			"'%s' not found in the dataset that the %s state definition is being applied to.",
			f.varname, f.kind)))
	}
	return nil
}

// CheckWithMeta verifies the matching meta's type is one the filter
// applies to.
func (f *baseFilter) CheckWithMeta(m meta.Meta) error {
	if !slices.Contains(f.appliesTo, m.Type()) {
		return f.valueError(f.errMsg(fmt.Sprintf(
			"the meta type applied to variable '%s' is not compatible with this filter",
			f.varname)))
	}
	return nil
}

func (f *baseFilter) copy() baseFilter {
	clone := *f
	clone.appliesTo = append([]string{}, f.appliesTo...)
	return clone
}

// wireFilter is the shared portion of every filter's wire form. The
// appliesTo list is deliberately absent.
type wireFilter struct {
	Type       string  `json:"type"`
	Varname    string  `json:"varname"`
	Filtertype string  `json:"filtertype"`
	Metatype   *string `json:"metatype"`
}

func (f *baseFilter) wire() wireFilter {
	return wireFilter{
		Type:       f.kind,
		Varname:    f.varname,
		Filtertype: f.filtertype,
		Metatype:   nullable(f.metatype),
	}
}

// CategoryFilterState filters a string or factor variable by an optional
// regular expression and an optional set of selected values.
type CategoryFilterState struct {
	baseFilter

	Regexp string
	Values []string
}

// NewCategoryFilterState creates a category filter. values may be nil when
// only a regexp is wanted.
func NewCategoryFilterState(varname, regexp string, values []string) *CategoryFilterState {
	return &CategoryFilterState{
		baseFilter: newBaseFilter(varname, FilterTypeCategory,
			[]string{meta.TypeString, meta.TypeFactor}),
		Regexp: regexp,
		Values: values,
	}
}

// CheckWithData verifies the variable exists and every selected value
// occurs in its column.
func (f *CategoryFilterState) CheckWithData(ds *dataset.Dataset) error {
	if err := f.baseFilter.CheckWithData(ds); err != nil {
		return err
	}
	if len(f.Values) == 0 {
		return nil
	}
	present := map[string]bool{}
	for _, v := range ds.Column(f.varname).DistinctStrings() {
		present[v] = true
	}
	var missing []string
	for _, v := range f.Values {
		if !present[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return f.valueError(f.dataErrMsg(fmt.Sprintf(
			"could not find the value(s): %s in the variable '%s'",
			strings.Join(missing, ", "), f.varname)))
	}
	return nil
}

// Copy returns an independent copy of the filter.
func (f *CategoryFilterState) Copy() State {
	clone := *f
	clone.baseFilter = f.baseFilter.copy()
	if f.Values != nil {
		clone.Values = append([]string{}, f.Values...)
	}
	return &clone
}

// MarshalJSON serializes the filter for the viewer.
func (f *CategoryFilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireFilter
		Regexp *string  `json:"regexp"`
		Values []string `json:"values"`
	}{wireFilter: f.wire(), Regexp: nullable(f.Regexp), Values: f.Values})
}

// NumberRangeFilterState filters a numeric variable by an inclusive range.
// A nil bound leaves that side open.
type NumberRangeFilterState struct {
	baseFilter

	Min *float64
	Max *float64
}

// NewNumberRangeFilterState creates a numeric range filter.
func NewNumberRangeFilterState(varname string, min, max *float64) *NumberRangeFilterState {
	f := &NumberRangeFilterState{
		baseFilter: newBaseFilter(varname, FilterTypeNumberRange, []string{meta.TypeNumber}),
		Min:        min,
		Max:        max,
	}
	f.metatype = meta.TypeNumber
	return f
}

// Copy returns an independent copy of the filter.
func (f *NumberRangeFilterState) Copy() State {
	clone := *f
	clone.baseFilter = f.baseFilter.copy()
	if f.Min != nil {
		v := *f.Min
		clone.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		clone.Max = &v
	}
	return &clone
}

// MarshalJSON serializes the filter for the viewer.
func (f *NumberRangeFilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireFilter
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}{wireFilter: f.wire(), Min: f.Min, Max: f.Max})
}

// DateRangeFilterState filters a date variable by an inclusive range. A
// nil bound leaves that side open.
type DateRangeFilterState struct {
	baseFilter

	Min *time.Time
	Max *time.Time
}

// NewDateRangeFilterState creates a date range filter.
func NewDateRangeFilterState(varname string, min, max *time.Time) *DateRangeFilterState {
	f := &DateRangeFilterState{
		baseFilter: newBaseFilter(varname, FilterTypeDateRange, []string{meta.TypeDate}),
		Min:        min,
		Max:        max,
	}
	f.metatype = meta.TypeDate
	return f
}

// Copy returns an independent copy of the filter.
func (f *DateRangeFilterState) Copy() State {
	clone := *f
	clone.baseFilter = f.baseFilter.copy()
	clone.Min = copyTime(f.Min)
	clone.Max = copyTime(f.Max)
	return &clone
}

// MarshalJSON serializes the filter for the viewer; bounds use the
// calendar-date form.
func (f *DateRangeFilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireFilter
		Min *string `json:"min"`
		Max *string `json:"max"`
	}{wireFilter: f.wire(), Min: formatTime(f.Min, "2006-01-02"), Max: formatTime(f.Max, "2006-01-02")})
}

// DatetimeRangeFilterState filters a datetime variable by an inclusive
// range. A nil bound leaves that side open.
type DatetimeRangeFilterState struct {
	baseFilter

	Min *time.Time
	Max *time.Time
}

// NewDatetimeRangeFilterState creates a datetime range filter.
func NewDatetimeRangeFilterState(varname string, min, max *time.Time) *DatetimeRangeFilterState {
	f := &DatetimeRangeFilterState{
		baseFilter: newBaseFilter(varname, FilterTypeDatetimeRange, []string{meta.TypeDatetime}),
		Min:        min,
		Max:        max,
	}
	f.metatype = meta.TypeDatetime
	return f
}

// Copy returns an independent copy of the filter.
func (f *DatetimeRangeFilterState) Copy() State {
	clone := *f
	clone.baseFilter = f.baseFilter.copy()
	clone.Min = copyTime(f.Min)
	clone.Max = copyTime(f.Max)
	return &clone
}

// MarshalJSON serializes the filter for the viewer; bounds use RFC 3339.
func (f *DatetimeRangeFilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireFilter
		Min *string `json:"min"`
		Max *string `json:"max"`
	}{wireFilter: f.wire(), Min: formatTime(f.Min, time.RFC3339), Max: formatTime(f.Max, time.RFC3339)})
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

var _ Filter = (*CategoryFilterState)(nil)
var _ Filter = (*NumberRangeFilterState)(nil)
var _ Filter = (*DateRangeFilterState)(nil)
var _ Filter = (*DatetimeRangeFilterState)(nil)
