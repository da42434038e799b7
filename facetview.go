// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package facetview turns a column-oriented dataset into a browsable,
// faceted display: one panel (image, iframe, or rendered figure) per row,
// described by typed metas and an opening display state, written out as
// static viewer artifacts.
//
// The Display orchestrator follows a copy-on-write contract: every setter
// returns a new, independently-mutable snapshot and never mutates the
// receiver. The Infer pipeline fills in anything the caller left
// unspecified (metas, key columns, layout, labels, panels, thumbnail) and
// is idempotent, so callers may interleave setters and inference freely.
//
// Diagnostics (ambiguous panel inference, replaced definitions) are
// reported through an injected *logging.Logger rather than a package-global
// logger; use WithLogger to direct or silence them.
package facetview

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/meta"
	"github.com/AleutianAI/facetview/panel"
	"github.com/AleutianAI/facetview/pkg/logging"
	"github.com/AleutianAI/facetview/state"
)

// Input is a named viewer input definition. Inputs are carried through to
// the serialized display but have no inference behavior.
type Input struct {
	Name string `json:"name"`
}

// Display is the orchestrator binding a dataset to panels, metas, state,
// and views.
type Display struct {
	df          *dataset.Dataset
	name        string
	description string
	tags        []string
	keyCols     []string
	path        string
	forcePlot   bool
	prettyMeta  bool
	keysig      string
	thumbnail   string
	id          string

	facetCols []string

	panelOptions map[string]*panel.Options
	panels       map[string]*panel.Panel
	panelOrder   []string
	primaryPanel string

	metas           []meta.Meta
	columnsToIgnore []string

	state  *state.DisplayState
	views  []*state.View
	inputs []Input

	logger       *logging.Logger
	showProgress bool
}

// Option customizes a Display at construction time.
type Option func(*Display)

// WithDescription sets the display description. Defaults to the name.
func WithDescription(description string) Option {
	return func(d *Display) { d.description = description }
}

// WithTags sets the search tags for the display list.
func WithTags(tags []string) Option {
	return func(d *Display) { d.tags = tags }
}

// WithKeyCols sets the columns that uniquely identify each row, skipping
// inference.
func WithKeyCols(keyCols []string) Option {
	return func(d *Display) { d.keyCols = keyCols }
}

// WithFacetCols sets the faceting columns the dataset was grouped by. They
// take precedence over key columns, explicit or inferred.
func WithFacetCols(facetCols []string) Option {
	return func(d *Display) { d.facetCols = facetCols }
}

// WithPath sets the directory the display is written into. An empty path
// falls back to a temporary directory at write time.
func WithPath(path string) Option {
	return func(d *Display) { d.path = path }
}

// WithForcePlot forces panels to be re-rendered even when already written.
func WithForcePlot(force bool) Option {
	return func(d *Display) { d.forcePlot = force }
}

// WithPrimaryPanel sets the panel column supplying the thumbnail.
func WithPrimaryPanel(varname string) Option {
	return func(d *Display) { d.primaryPanel = varname }
}

// WithPrettyMetaData indents the serialized metadata for debugging.
func WithPrettyMetaData(pretty bool) Option {
	return func(d *Display) { d.prettyMeta = pretty }
}

// WithKeysig sets an explicit key signature.
func WithKeysig(keysig string) Option {
	return func(d *Display) { d.keysig = keysig }
}

// WithLogger injects the diagnostics logger. Defaults to logging.Default().
func WithLogger(logger *logging.Logger) Option {
	return func(d *Display) { d.logger = logger }
}

// WithProgress toggles the terminal progress bar shown while panels are
// rendered. Enabled by default.
func WithProgress(show bool) Option {
	return func(d *Display) { d.showProgress = show }
}

// New creates a display for the dataset. Unsupplied attributes are
// defaulted or inferred: the description falls back to the name, the id is
// freshly generated, and key columns are inferred from the data when not
// given (facet columns take precedence, then explicit key columns, then
// grouped datasets use their grouping columns and are ungrouped as a side
// effect).
func New(df *dataset.Dataset, name string, opts ...Option) (*Display, error) {
	d := &Display{
		df:           df,
		name:         name,
		id:           strings.ReplaceAll(uuid.NewString(), "-", ""),
		panelOptions: map[string]*panel.Options{},
		panels:       map[string]*panel.Panel{},
		state:        state.NewDisplayState(),
		logger:       logging.Default(),
		showProgress: true,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.description == "" {
		d.description = d.name
	}
	if d.tags == nil {
		d.tags = []string{}
	}
	if d.keyCols == nil || d.facetCols != nil {
		keyCols, err := d.getKeyCols()
		if err != nil {
			return nil, err
		}
		d.keyCols = keyCols
		d.logger.Info("using key columns to uniquely identify each row", "columns", keyCols)
	}
	return d, nil
}

// Name returns the display name.
func (d *Display) Name() string { return d.name }

// Description returns the display description.
func (d *Display) Description() string { return d.description }

// ID returns the generated display id.
func (d *Display) ID() string { return d.id }

// Dataset returns the underlying dataset.
func (d *Display) Dataset() *dataset.Dataset { return d.df }

// KeyCols returns the columns that uniquely identify each row.
func (d *Display) KeyCols() []string { return d.keyCols }

// PrimaryPanel returns the panel column supplying the thumbnail, empty
// when not yet set or inferred.
func (d *Display) PrimaryPanel() string { return d.primaryPanel }

// ThumbnailURL returns the inferred thumbnail reference.
func (d *Display) ThumbnailURL() string { return d.thumbnail }

// State returns the display's opening state.
func (d *Display) State() *state.DisplayState { return d.state }

// Views returns the registered views in insertion order.
func (d *Display) Views() []*state.View { return d.views }

// Metas returns the registered metas in insertion order.
func (d *Display) Metas() []meta.Meta { return d.metas }

// Meta returns the meta registered for the variable, nil when absent.
func (d *Display) Meta(varname string) meta.Meta {
	for _, m := range d.metas {
		if m.Varname() == varname {
			return m
		}
	}
	return nil
}

// ColumnsToIgnore returns the columns excluded from meta inference.
func (d *Display) ColumnsToIgnore() []string { return d.columnsToIgnore }

// Panel returns the panel registered for the column, nil when absent.
func (d *Display) Panel(varname string) *panel.Panel {
	return d.panels[varname]
}

// HasPanel reports whether a panel is registered for the column.
func (d *Display) HasPanel(varname string) bool {
	_, ok := d.panels[varname]
	return ok
}

// PanelColumns returns the registered panel columns in insertion order.
func (d *Display) PanelColumns() []string {
	return d.panelOrder
}

// figureColumns returns the shadow columns holding original figure
// objects. Meta inference skips them.
func (d *Display) figureColumns() []string {
	var cols []string
	for _, name := range d.panelOrder {
		if fv := d.panels[name].FigureVarname; fv != "" {
			cols = append(cols, fv)
		}
	}
	return cols
}

// copy returns a deep copy of the display. The dataset is shared by
// reference; operations that mutate columns replace the dataset wholesale.
func (d *Display) copy() *Display {
	clone := *d

	clone.tags = append([]string{}, d.tags...)
	clone.keyCols = append([]string{}, d.keyCols...)
	clone.facetCols = append([]string(nil), d.facetCols...)
	clone.columnsToIgnore = append([]string(nil), d.columnsToIgnore...)

	clone.panelOptions = make(map[string]*panel.Options, len(d.panelOptions))
	for k, v := range d.panelOptions {
		clone.panelOptions[k] = v.Copy()
	}
	clone.panels = make(map[string]*panel.Panel, len(d.panels))
	for k, v := range d.panels {
		clone.panels[k] = v.Copy()
	}
	clone.panelOrder = append([]string(nil), d.panelOrder...)

	clone.metas = make([]meta.Meta, len(d.metas))
	for i, m := range d.metas {
		clone.metas[i] = m.Copy()
	}

	clone.state = d.state.Copy()

	clone.views = make([]*state.View, len(d.views))
	for i, v := range d.views {
		clone.views[i] = v.Copy()
	}
	clone.inputs = append([]Input(nil), d.inputs...)

	return &clone
}

// MarshalJSON serializes the display description consumed by the viewer.
func (d *Display) MarshalJSON() ([]byte, error) {
	metas := d.metas
	if metas == nil {
		metas = []meta.Meta{}
	}
	views := d.views
	if views == nil {
		views = []*state.View{}
	}
	var inputs []Input
	if len(d.inputs) > 0 {
		inputs = d.inputs
	}
	return json.Marshal(struct {
		Name         string              `json:"name"`
		Description  string              `json:"description"`
		Tags         []string            `json:"tags"`
		KeyCols      []string            `json:"key_cols"`
		Keysig       string              `json:"keysig"`
		Metas        []meta.Meta         `json:"metas"`
		State        *state.DisplayState `json:"state"`
		Views        []*state.View       `json:"views"`
		Inputs       []Input             `json:"inputs"`
		ThumbnailURL string              `json:"thumbnailurl"`
		PrimaryPanel string              `json:"primarypanel"`
	}{
		Name:         d.name,
		Description:  d.description,
		Tags:         d.tags,
		KeyCols:      d.keyCols,
		Keysig:       d.keysig,
		Metas:        metas,
		State:        d.state,
		Views:        views,
		Inputs:       inputs,
		ThumbnailURL: d.thumbnail,
		PrimaryPanel: d.primaryPanel,
	})
}

// ToJSON returns the serialized display description, optionally indented.
func (d *Display) ToJSON(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}
