// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package panel

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/facetview/checks"
)

// Default panel dimensions in pixels.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options pre-specifies information about a Panel before it is created.
// When a panel is later inferred for the matching column, the options
// populate it.
type Options struct {
	// Width is the panel width in pixels.
	Width int `validate:"gt=0"`

	// Height is the panel height in pixels.
	Height int `validate:"gt=0"`

	// Format is the rendered figure format; empty means inferred.
	Format string `validate:"omitempty,oneof=png svg html"`

	// Force re-renders panels even when they already exist on disk.
	Force bool

	// NoPrerender skips rendering panels at write time. Panels prerender
	// by default; disabling it would require a lazy local-websocket
	// source, which is not implemented.
	NoPrerender bool

	// Type optionally forces the panel type ("img" or "iframe").
	Type string `validate:"omitempty,oneof=img iframe"`

	// Aspect overrides the aspect ratio; zero means Width/Height.
	Aspect float64 `validate:"gte=0"`
}

// DefaultOptions returns options with the default dimensions and
// prerendering enabled.
func DefaultOptions() *Options {
	return &Options{Width: DefaultWidth, Height: DefaultHeight}
}

// NewOptions validates the given options and returns them. Zero Width or
// Height take the defaults before validation.
func NewOptions(opts Options) (*Options, error) {
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks the option fields against their constraints.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: invalid panel options: %v", checks.ErrBadValue, err)
	}
	return nil
}

// AspectRatio returns the explicit aspect override when given, otherwise
// Width/Height.
func (o *Options) AspectRatio() float64 {
	if o.Aspect > 0 {
		return o.Aspect
	}
	return float64(o.Width) / float64(o.Height)
}

// Copy returns an independent copy of the options.
func (o *Options) Copy() *Options {
	clone := *o
	return &clone
}
