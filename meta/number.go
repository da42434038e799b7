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

// NumberMeta describes a numeric column. Always filterable and sortable.
type NumberMeta struct {
	Common

	// digits is the number of digits to display; nil means unrounded.
	digits *int

	// locale formats numbers using locale conventions.
	locale bool
}

// NewNumberMeta creates a meta for a numeric column with locale formatting
// enabled and no digit rounding.
func NewNumberMeta(varname string) *NumberMeta {
	return &NumberMeta{
		Common: newCommon(TypeNumber, varname, true, true),
		locale: true,
	}
}

// SetDigits sets the number of digits to display.
func (m *NumberMeta) SetDigits(digits int) { m.digits = &digits }

// Digits returns the configured digits, or nil when unset.
func (m *NumberMeta) Digits() *int { return m.digits }

// SetLocale toggles locale-aware number formatting.
func (m *NumberMeta) SetLocale(locale bool) { m.locale = locale }

// Locale reports whether locale-aware formatting is enabled.
func (m *NumberMeta) Locale() bool { return m.locale }

// CheckWithData verifies the column exists and is numeric.
func (m *NumberMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	return checks.Numeric(ds, m.varname, m.dataErrMsg)
}

// Copy returns an independent copy of the meta.
func (m *NumberMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	if m.digits != nil {
		d := *m.digits
		clone.digits = &d
	}
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *NumberMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireCommon
		Digits *int `json:"digits"`
		Locale bool `json:"locale"`
	}{wireCommon: m.wire(), Digits: m.digits, Locale: m.locale})
}

// CurrencyMeta describes a numeric column rendered as a currency amount.
type CurrencyMeta struct {
	Common

	// code is the ISO 4217 alpha code, validated against the whitelist.
	code string
}

// DefaultCurrencyCode is used when no code is given.
const DefaultCurrencyCode = "USD"

// NewCurrencyMeta creates a meta for a currency column. An empty code
// defaults to USD; a non-empty code must be in the ISO 4217 whitelist.
func NewCurrencyMeta(varname, code string) (*CurrencyMeta, error) {
	m := &CurrencyMeta{
		Common: newCommon(TypeCurrency, varname, true, true),
		code:   code,
	}
	if m.code == "" {
		m.code = DefaultCurrencyCode
	}
	if err := CheckValidCurrency(m.code, m.errMsg); err != nil {
		return nil, err
	}
	return m, nil
}

// Code returns the ISO 4217 currency code.
func (m *CurrencyMeta) Code() string { return m.code }

// CheckWithData verifies the column exists and is numeric.
func (m *CurrencyMeta) CheckWithData(ds *dataset.Dataset) error {
	if err := m.checkVarname(ds); err != nil {
		return err
	}
	return checks.Numeric(ds, m.varname, m.dataErrMsg)
}

// Copy returns an independent copy of the meta.
func (m *CurrencyMeta) Copy() Meta {
	clone := *m
	clone.Common = m.Common.copy()
	return &clone
}

// MarshalJSON serializes the meta for the viewer.
func (m *CurrencyMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		wireCommon
		Code string `json:"code"`
	}{wireCommon: m.wire(), Code: m.code})
}
