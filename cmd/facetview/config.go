// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/facetview"
	"github.com/AleutianAI/facetview/checks"
	"github.com/AleutianAI/facetview/meta"
	"github.com/AleutianAI/facetview/panel"
	"github.com/AleutianAI/facetview/state"
)

// BuildConfig is the YAML display configuration:
//
//	description: Optional description text
//	tags: [produce, demo]          # or a single string
//	layout:
//	  ncol: 4
//	  page: 1
//	labels: [name, size]
//	sort:
//	  - varname: size
//	    dir: desc
//	filters:
//	  - varname: kind
//	    type: category
//	    values: [apple, pear]
//	  - varname: size
//	    type: numberrange
//	    min: 1
//	    max: 10
//	panels:
//	  img:
//	    width: 800
//	    height: 600
//	    format: png
//
// Scalar fields that accept dynamic YAML values (ncol, page, width,
// height, tags) are validated with the checks package before use.
type BuildConfig struct {
	Description string                 `yaml:"description"`
	Tags        any                    `yaml:"tags"`
	Layout      *LayoutConfig          `yaml:"layout"`
	Labels      []string               `yaml:"labels"`
	Sort        []SortConfig           `yaml:"sort"`
	Filters     []FilterConfig         `yaml:"filters"`
	Panels      map[string]PanelConfig `yaml:"panels"`
}

// LayoutConfig carries dynamically-typed layout values.
type LayoutConfig struct {
	NCol any `yaml:"ncol"`
	Page any `yaml:"page"`
}

// SortConfig declares one sort priority.
type SortConfig struct {
	Varname string `yaml:"varname"`
	Dir     string `yaml:"dir"`
}

// FilterConfig declares one filter. Type selects the variant: category,
// numberrange.
type FilterConfig struct {
	Varname string   `yaml:"varname"`
	Type    string   `yaml:"type"`
	Regexp  string   `yaml:"regexp"`
	Values  []string `yaml:"values"`
	Min     any      `yaml:"min"`
	Max     any      `yaml:"max"`
}

// PanelConfig carries pre-specified panel options for one column.
type PanelConfig struct {
	Width     any    `yaml:"width"`
	Height    any    `yaml:"height"`
	Format    string `yaml:"format"`
	Force     any    `yaml:"force"`
	Prerender any    `yaml:"prerender"`
	Aspect    any    `yaml:"aspect"`
}

// LoadBuildConfig reads and parses the YAML display configuration.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg BuildConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DisplayOptions returns the construction-time options the config supplies.
func (c *BuildConfig) DisplayOptions() []facetview.Option {
	var opts []facetview.Option
	if c.Description != "" {
		opts = append(opts, facetview.WithDescription(c.Description))
	}
	if c.Tags != nil {
		tags, err := meta.NormalizeTags(c.Tags)
		if err == nil {
			opts = append(opts, facetview.WithTags(tags))
		}
	}
	return opts
}

// Apply layers the config's state and panel options onto the display,
// returning a new snapshot.
func (c *BuildConfig) Apply(d *facetview.Display) (*facetview.Display, error) {
	var err error

	if len(c.Panels) > 0 {
		options := map[string]*panel.Options{}
		for name, pc := range c.Panels {
			opts, err := pc.panelOptions(name)
			if err != nil {
				return nil, err
			}
			options[name] = opts
		}
		d = d.SetPanelOptions(options)
	}

	if c.Layout != nil {
		ncol, err := intValue(c.Layout.NCol, "ncol", 1)
		if err != nil {
			return nil, err
		}
		page, err := intValue(c.Layout.Page, "page", 1)
		if err != nil {
			return nil, err
		}
		d = d.SetDefaultLayout(ncol, page)
	}

	if len(c.Labels) > 0 {
		d, err = d.SetDefaultLabels(c.Labels)
		if err != nil {
			return nil, err
		}
	}

	if len(c.Sort) > 0 {
		varnames := make([]string, len(c.Sort))
		directions := make([]string, len(c.Sort))
		for i, s := range c.Sort {
			varnames[i] = s.Varname
			directions[i] = s.Dir
			if directions[i] == "" {
				directions[i] = state.DirAscending
			}
		}
		d, err = d.SetDefaultSort(varnames, directions, false)
		if err != nil {
			return nil, err
		}
	}

	if len(c.Filters) > 0 {
		filters := make([]state.Filter, 0, len(c.Filters))
		for _, fc := range c.Filters {
			f, err := fc.filter()
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		}
		d, err = d.SetDefaultFilters(filters, false)
		if err != nil {
			return nil, err
		}
	}

	return d, nil
}

// filter constructs the filter state the config entry declares.
func (fc *FilterConfig) filter() (state.Filter, error) {
	switch fc.Type {
	case state.FilterTypeCategory:
		return state.NewCategoryFilterState(fc.Varname, fc.Regexp, fc.Values), nil
	case state.FilterTypeNumberRange:
		min, err := floatValue(fc.Min, "min")
		if err != nil {
			return nil, err
		}
		max, err := floatValue(fc.Max, "max")
		if err != nil {
			return nil, err
		}
		return state.NewNumberRangeFilterState(fc.Varname, min, max), nil
	default:
		return nil, &checks.CheckError{
			Kind: checks.ErrBadValue,
			Msg:  fmt.Sprintf("unsupported filter type %q for variable %s", fc.Type, fc.Varname),
		}
	}
}

// panelOptions validates and converts one panel options entry.
func (pc *PanelConfig) panelOptions(name string) (*panel.Options, error) {
	msgf := func(text string) string {
		return fmt.Sprintf("While reading panel options for `%s`: %s", name, text)
	}

	width, err := intValue(pc.Width, "width", 0)
	if err != nil {
		return nil, err
	}
	height, err := intValue(pc.Height, "height", 0)
	if err != nil {
		return nil, err
	}

	prerender := true
	if pc.Prerender != nil {
		if err := checks.Bool(pc.Prerender, "prerender", msgf); err != nil {
			return nil, err
		}
		prerender = pc.Prerender.(bool)
	}
	forcePlot := false
	if pc.Force != nil {
		if err := checks.Bool(pc.Force, "force", msgf); err != nil {
			return nil, err
		}
		forcePlot = pc.Force.(bool)
	}

	var aspect float64
	if pc.Aspect != nil {
		a, err := floatValue(pc.Aspect, "aspect")
		if err != nil {
			return nil, err
		}
		if a != nil {
			aspect = *a
		}
	}

	return panel.NewOptions(panel.Options{
		Width:       width,
		Height:      height,
		Format:      pc.Format,
		Force:       forcePlot,
		NoPrerender: !prerender,
		Aspect:      aspect,
	})
}

// intValue validates a dynamic YAML value as an integer, substituting the
// fallback when it is absent.
func intValue(v any, name string, fallback int) (int, error) {
	if v == nil {
		return fallback, nil
	}
	if err := checks.Int(v, name, nil); err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	default:
		return 0, &checks.CheckError{
			Kind: checks.ErrBadType,
			Msg:  fmt.Sprintf("%s must be an integer", name),
		}
	}
}

// floatValue validates a dynamic YAML value as a scalar number; nil stays
// nil (open bound).
func floatValue(v any, name string) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	if err := checks.Scalar(v, name, nil); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case int:
		f := float64(t)
		return &f, nil
	case int64:
		f := float64(t)
		return &f, nil
	case float64:
		return &t, nil
	default:
		return nil, &checks.CheckError{
			Kind: checks.ErrBadType,
			Msg:  fmt.Sprintf("%s must be numeric", name),
		}
	}
}
