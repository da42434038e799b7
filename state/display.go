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

import "encoding/json"

// DisplayState aggregates the complete opening state of a display: at most
// one layout, at most one label set, and insertion-ordered sort and filter
// definitions keyed by variable name. Order is priority and is preserved
// through serialization.
type DisplayState struct {
	layout  *LayoutState
	labels  *LabelState
	sorts   []*SortState
	filters []Filter
}

// NewDisplayState creates an empty display state.
func NewDisplayState() *DisplayState {
	return &DisplayState{}
}

// Set merges a state into the display state. Layout and label states
// always replace the existing singleton. For sort and filter states, add
// controls the merge: true inserts-or-replaces the entry for the state's
// variable and moves it to the end of the priority order, false discards
// the whole mapping in favor of just the new state.
func (d *DisplayState) Set(s State, add bool) {
	switch t := s.(type) {
	case *LayoutState:
		d.layout = t
	case *LabelState:
		d.labels = t
	case *SortState:
		if !add {
			d.sorts = nil
		}
		d.sorts = append(removeSort(d.sorts, t.Varname), t)
	case Filter:
		if !add {
			d.filters = nil
		}
		d.filters = append(removeFilter(d.filters, t.Varname()), t)
	}
}

func removeSort(sorts []*SortState, varname string) []*SortState {
	out := sorts[:0]
	for _, s := range sorts {
		if s.Varname != varname {
			out = append(out, s)
		}
	}
	return out
}

func removeFilter(filters []Filter, varname string) []Filter {
	out := filters[:0]
	for _, f := range filters {
		if f.Varname() != varname {
			out = append(out, f)
		}
	}
	return out
}

// Layout returns the layout state, nil when unset.
func (d *DisplayState) Layout() *LayoutState { return d.layout }

// Labels returns the label state, nil when unset.
func (d *DisplayState) Labels() *LabelState { return d.labels }

// SortStates returns the sort states in priority order.
func (d *DisplayState) SortStates() []*SortState { return d.sorts }

// FilterStates returns the filter states in priority order.
func (d *DisplayState) FilterStates() []Filter { return d.filters }

// HasSort reports whether a sort state exists for the variable.
func (d *DisplayState) HasSort(varname string) bool {
	for _, s := range d.sorts {
		if s.Varname == varname {
			return true
		}
	}
	return false
}

// HasFilter reports whether a filter state exists for the variable.
func (d *DisplayState) HasFilter(varname string) bool {
	for _, f := range d.filters {
		if f.Varname() == varname {
			return true
		}
	}
	return false
}

// Copy returns an independent deep copy of the display state.
func (d *DisplayState) Copy() *DisplayState {
	clone := &DisplayState{}
	if d.layout != nil {
		clone.layout = d.layout.Copy().(*LayoutState)
	}
	if d.labels != nil {
		clone.labels = d.labels.Copy().(*LabelState)
	}
	for _, s := range d.sorts {
		clone.sorts = append(clone.sorts, s.Copy().(*SortState))
	}
	for _, f := range d.filters {
		clone.filters = append(clone.filters, f.Copy().(Filter))
	}
	return clone
}

// MarshalJSON serializes the display state for the viewer. Sort and filter
// mappings flatten to lists in priority order; unset layout and labels
// serialize as null.
func (d *DisplayState) MarshalJSON() ([]byte, error) {
	sorts := d.sorts
	if sorts == nil {
		sorts = []*SortState{}
	}
	filters := d.filters
	if filters == nil {
		filters = []Filter{}
	}
	return json.Marshal(struct {
		Layout *LayoutState `json:"layout"`
		Labels *LabelState  `json:"labels"`
		Sort   []*SortState `json:"sort"`
		Filter []Filter     `json:"filter"`
	}{Layout: d.layout, Labels: d.labels, Sort: sorts, Filter: filters})
}

// View is a named alternate display state, selectable from a dropdown in
// the viewer.
type View struct {
	Name  string
	State *DisplayState
}

// NewView creates a view by composing the given states into a fresh
// display state. Sort and filter states accumulate in the order given.
func NewView(name string, layout *LayoutState, labels *LabelState, sorts []*SortState, filters []Filter) *View {
	ds := NewDisplayState()
	if layout != nil {
		ds.Set(layout, false)
	}
	if labels != nil {
		ds.Set(labels, false)
	}
	for _, s := range sorts {
		ds.Set(s, true)
	}
	for _, f := range filters {
		ds.Set(f, true)
	}
	return &View{Name: name, State: ds}
}

// Copy returns an independent deep copy of the view.
func (v *View) Copy() *View {
	return &View{Name: v.Name, State: v.State.Copy()}
}

// MarshalJSON serializes the view for the viewer.
func (v *View) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string        `json:"name"`
		State *DisplayState `json:"state"`
	}{Name: v.Name, State: v.State})
}
