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
	"fmt"
	"slices"

	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/meta"
	"github.com/AleutianAI/facetview/panel"
	"github.com/AleutianAI/facetview/state"
)

// Infer fills in everything the caller left unspecified: a meta for each
// usable column, the display state defaults, and each view's state. It is
// idempotent and never mutates the receiver.
func (d *Display) Infer() (*Display, error) {
	out, err := d.inferMetas()
	if err != nil {
		return nil, err
	}

	out.state = out.inferState(out.state, "")

	for i, v := range out.views {
		v2 := v.Copy()
		v2.State = out.inferState(v2.State, v2.Name)
		out.views[i] = v2
	}
	return out, nil
}

// inferMetas creates a meta for every column that does not already have
// one. Columns no meta kind matches are recorded as ignored.
func (d *Display) inferMetas() (*Display, error) {
	out := d.copy()

	for _, name := range out.df.ColumnNames() {
		if out.Meta(name) != nil {
			continue
		}
		m, err := out.inferMetaVariable(name)
		if err != nil {
			return nil, err
		}
		if m == nil {
			if !slices.Contains(out.columnsToIgnore, name) {
				out.columnsToIgnore = append(out.columnsToIgnore, name)
			}
			continue
		}
		next, err := out.SetMeta(m)
		if err != nil {
			return nil, err
		}
		out = next
	}

	out.finalizeMetaLabels()
	return out, nil
}

// inferMetaVariable infers a meta for one column. A nil meta with nil
// error means the column carries nothing a meta kind can describe (opaque
// objects, or a shadow figure column) and should be ignored.
func (d *Display) inferMetaVariable(name string) (meta.Meta, error) {
	if p, ok := d.panels[name]; ok {
		return meta.NewPanelMeta(p)
	}
	if slices.Contains(d.figureColumns(), name) {
		// Shadow columns keep the original figure objects and stay out
		// of the metas.
		return nil, nil
	}

	col := d.df.Column(name)
	switch {
	case col.IsFactor():
		return meta.NewFactorMeta(name, nil), nil
	case checks.IsNumericColumn(col):
		return meta.NewNumberMeta(name), nil
	case checks.IsStringColumn(col):
		if checks.AllRemote(col) {
			return meta.NewHrefMeta(name), nil
		}
		return meta.NewStringMeta(name), nil
	default:
		return nil, nil
	}
}

// finalizeMetaLabels defaults every unset meta label to its varname.
// Idempotent.
func (d *Display) finalizeMetaLabels() {
	for _, m := range d.metas {
		m.FinalizeLabel()
	}
}

// InferPanels scans the dataset for panel columns when none are registered
// yet: columns uniformly holding renderable figures become figure panels,
// columns uniformly holding whitelisted image references become image
// panels. Finding more than one candidate of a kind is ambiguous; those
// candidates are skipped with a warning and must be registered explicitly.
// The primary panel is inferred afterwards if still unset.
func (d *Display) InferPanels() (*Display, error) {
	out := d.copy()

	if len(out.panels) == 0 {
		figureCols := checks.FindFigureColumns(out.df)
		imageCols := checks.FindImageColumns(out.df)

		if len(figureCols) > 1 {
			out.logger.Warn("multiple figure columns found; none inferred, register panels explicitly",
				"columns", figureCols)
			figureCols = nil
		}
		if len(imageCols) > 1 {
			out.logger.Warn("multiple image columns found; none inferred, register panels explicitly",
				"columns", imageCols)
			imageCols = nil
		}

		for _, column := range figureCols {
			p, err := panel.Create(out.df, column, out.panelOptionsFor(column), true, false)
			if err != nil {
				return nil, err
			}
			out = out.AddPanel(p)
		}
		for _, column := range imageCols {
			p, err := panel.Create(out.df, column, out.panelOptionsFor(column), false, true)
			if err != nil {
				return nil, err
			}
			out = out.AddPanel(p)
		}
	}

	if out.primaryPanel == "" {
		out.inferPrimaryPanel()
	}
	return out, nil
}

// inferPrimaryPanel picks the first registered panel as primary. Leaves
// the primary panel unchanged when no panels exist.
func (d *Display) inferPrimaryPanel() {
	if len(d.panelOrder) > 0 {
		d.primaryPanel = d.panelOrder[0]
	}
}

// inferThumbnailURL points the thumbnail at the first value of the primary
// panel column. Iframe panels supply no thumbnail.
func (d *Display) inferThumbnailURL() error {
	if d.primaryPanel == "" {
		d.inferPrimaryPanel()
	}
	if d.primaryPanel == "" {
		return &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  "A primary panel must be defined to be able to get the thumbnail url",
		}
	}

	p := d.panels[d.primaryPanel]
	if p.PanelType != panel.TypeImage {
		d.thumbnail = ""
		return nil
	}

	col := d.df.Column(d.primaryPanel)
	if col == nil || col.Len() == 0 {
		return &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  "the primary panel column has no values to supply a thumbnail",
		}
	}
	d.thumbnail = fmt.Sprintf("%v", col.Value(0))
	return nil
}

// getKeyCols infers the columns that uniquely identify each row, checking
// in order: explicit facet columns, explicit key columns, the dataset's
// grouping columns (ungrouping the dataset as a side effect), and finally
// a greedy search over string then numeric columns for the shortest prefix
// whose value combination is unique across rows.
func (d *Display) getKeyCols() ([]string, error) {
	if d.facetCols != nil {
		return d.facetCols, nil
	}
	if d.keyCols != nil {
		return d.keyCols, nil
	}
	if d.df.Grouped() {
		keyCols := d.df.GroupColumns()
		// Ungroup so the grouping columns are usable as metas.
		d.df.ResetIndex()
		return keyCols, nil
	}
	return uniquelyIdentifyingCols(d.df)
}

// uniquelyIdentifyingCols grows a candidate key column by column, string
// columns first, until the combination is unique for every row.
func uniquelyIdentifyingCols(ds *dataset.Dataset) ([]string, error) {
	candidates := append(checks.StringColumns(ds), checks.NumericColumns(ds)...)

	var keyCols []string
	for _, col := range candidates {
		keyCols = append(keyCols, col)
		unique, err := ds.UniqueAcross(keyCols)
		if err != nil {
			return nil, err
		}
		if unique {
			return keyCols, nil
		}
	}
	return nil, &checks.CheckError{
		Kind: checks.ErrBadValue,
		Msg:  "Could not find columns of the data that uniquely define each row.",
	}
}

// inferState fills the defaults of one display state and reconciles its
// sort and filter definitions against the metas. The input state is not
// mutated; a deep copy is returned.
func (d *Display) inferState(s *state.DisplayState, viewName string) *state.DisplayState {
	forView := ""
	if viewName != "" {
		forView = fmt.Sprintf(" for view '%s'", viewName)
	}

	s2 := s.Copy()

	if s2.Layout() == nil {
		d.logger.Info("no layout definition supplied" + forView + ", using default")
		s2.Set(state.NewLayoutState(3, 1), false)
	}
	if s2.Labels() == nil {
		d.logger.Info("no labels definition supplied" + forView + ", using default")
		s2.Set(state.NewLabelState(d.keyCols), false)
	}

	for _, ss := range s2.SortStates() {
		if m := d.Meta(ss.Varname); m != nil {
			ss.Metatype = m.Type()
		}
	}
	for _, f := range s2.FilterStates() {
		if m := d.Meta(f.Varname()); m != nil {
			f.SetMetatype(m.Type())
		}
	}

	// Category filters authored before factor levels were known may carry
	// values that are not valid levels; drop them.
	for _, f := range s2.FilterStates() {
		cf, ok := f.(*state.CategoryFilterState)
		if !ok {
			continue
		}
		fm, ok := d.Meta(cf.Varname()).(*meta.FactorMeta)
		if !ok || len(cf.Values) == 0 {
			continue
		}
		var kept []string
		for _, v := range cf.Values {
			if slices.Contains(fm.Levels(), v) {
				kept = append(kept, v)
			}
		}
		cf.Values = kept
	}

	return s2
}
