// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package facetview

import (
	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/meta"
	"github.com/AleutianAI/facetview/panel"
	"github.com/AleutianAI/facetview/state"
)

// Every setter in this file returns a new snapshot; the receiver is never
// mutated.

// AddPanel registers a panel under its varname, replacing any panel
// already registered for that column.
func (d *Display) AddPanel(p *panel.Panel) *Display {
	out := d.copy()
	if _, exists := out.panels[p.Varname]; !exists {
		out.panelOrder = append(out.panelOrder, p.Varname)
	}
	out.panels[p.Varname] = p.Copy()
	return out
}

// SetMeta validates the meta against the data and registers it under its
// varname, replacing any existing meta for that column.
func (d *Display) SetMeta(m meta.Meta) (*Display, error) {
	out := d.copy()
	if err := m.CheckWithData(out.df); err != nil {
		return nil, err
	}
	name := m.Varname()
	for i, existing := range out.metas {
		if existing.Varname() == name {
			out.logger.Info("replacing existing meta variable", "varname", name)
			out.metas[i] = m.Copy()
			return out, nil
		}
	}
	out.metas = append(out.metas, m.Copy())
	return out, nil
}

// SetMetas registers several metas at once.
func (d *Display) SetMetas(metas []meta.Meta) (*Display, error) {
	out := d
	for _, m := range metas {
		next, err := out.SetMeta(m)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// SetState replaces the display's opening state.
func (d *Display) SetState(s *state.DisplayState) *Display {
	out := d.copy()
	out.state = s.Copy()
	return out
}

// AddView registers a view under its name, replacing any view already
// registered with that name.
func (d *Display) AddView(v *state.View) *Display {
	out := d.copy()
	for i, existing := range out.views {
		if existing.Name == v.Name {
			out.logger.Info("replacing existing view", "name", v.Name)
			out.views[i] = v.Copy()
			return out
		}
	}
	out.views = append(out.views, v.Copy())
	return out
}

// AddInput registers an input under its name, replacing any input already
// registered with that name.
func (d *Display) AddInput(in Input) *Display {
	out := d.copy()
	for i, existing := range out.inputs {
		if existing.Name == in.Name {
			out.logger.Info("replacing existing input", "name", in.Name)
			out.inputs[i] = in
			return out
		}
	}
	out.inputs = append(out.inputs, in)
	return out
}

// AddInputs registers several inputs at once.
func (d *Display) AddInputs(inputs []Input) *Display {
	out := d
	for _, in := range inputs {
		out = out.AddInput(in)
	}
	return out
}

// SetDefaultLabels sets the label state to the given variables, validating
// they exist in the data.
func (d *Display) SetDefaultLabels(varnames []string) (*Display, error) {
	out := d.copy()

	labels := state.NewLabelState(varnames)
	if err := labels.CheckWithData(out.df); err != nil {
		return nil, err
	}
	out.state.Set(labels, false)
	return out, nil
}

// SetDefaultLayout sets the layout state.
func (d *Display) SetDefaultLayout(ncol, page int) *Display {
	out := d.copy()
	out.state.Set(state.NewLayoutState(ncol, page), false)
	return out
}

// SetDefaultSort sets the sort states for the given variables. directions
// may be nil (all ascending) or a single direction (broadcast to every
// variable); otherwise it must match varnames in length.
func (d *Display) SetDefaultSort(varnames []string, directions []string, add bool) (*Display, error) {
	out := d.copy()

	switch {
	case directions == nil:
		directions = make([]string, len(varnames))
		for i := range directions {
			directions[i] = state.DirAscending
		}
	case len(directions) == 1 && len(varnames) > 1:
		dir := directions[0]
		directions = make([]string, len(varnames))
		for i := range directions {
			directions[i] = dir
		}
	}
	if len(varnames) != len(directions) {
		return nil, &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  "In setting sort state, 'varnames' must have same length as 'dirs'",
		}
	}

	for i, varname := range varnames {
		ss, err := state.NewSortState(varname, directions[i])
		if err != nil {
			return nil, err
		}
		if err := ss.CheckWithData(out.df); err != nil {
			return nil, err
		}
		// The first sort honors add; the rest accumulate.
		out.state.Set(ss, i > 0 || add)
	}
	return out, nil
}

// SetDefaultFilters sets the given filter states, validating each against
// the data. When add is false the first filter replaces the existing
// filter specification.
func (d *Display) SetDefaultFilters(filters []state.Filter, add bool) (*Display, error) {
	out := d.copy()

	for i, f := range filters {
		if err := f.CheckWithData(out.df); err != nil {
			return nil, err
		}
		out.state.Set(f, i > 0 || add)
	}
	return out, nil
}

// SetPrimaryPanel designates the panel column supplying the thumbnail. The
// column must already be registered as a panel.
func (d *Display) SetPrimaryPanel(varname string) (*Display, error) {
	out := d.copy()
	if !out.HasPanel(varname) {
		return nil, &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  "Primary panel should be a panel.",
		}
	}
	out.primaryPanel = varname
	return out, nil
}

// SetPanelOptions stores per-column panel options consulted when panels
// are later inferred. Setting options for a column whose panel already
// exists logs a warning since the options will not be applied
// retroactively.
func (d *Display) SetPanelOptions(options map[string]*panel.Options) *Display {
	out := d.copy()
	for name, opts := range options {
		if out.HasPanel(name) {
			out.logger.Warn("setting panel options for a panel that already exists; "+
				"options are meant to be set before panels are created", "varname", name)
		}
		out.panelOptions[name] = opts.Copy()
	}
	return out
}

// panelOptionsFor returns the pre-specified options for a column, nil when
// absent.
func (d *Display) panelOptionsFor(varname string) *panel.Options {
	return d.panelOptions[varname]
}
