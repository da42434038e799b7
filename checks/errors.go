// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package checks provides the reusable validation checks that meta, panel,
// state, and display inference run against datasets and scalar parameters.
//
// Every check either returns nil or an error wrapping one of three sentinel
// kinds: ErrBadType for wrong primitive types, ErrBadValue for
// domain/range/membership violations, and ErrNotImplemented for deliberate
// stubs. Callers select behavior with errors.Is.
//
// Checks accept a MessageFunc so call sites can wrap every message with
// entity-specific context (which meta type, which variable) without the
// checks knowing about those entities. Passing nil uses the raw text.
package checks

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for validation failures.
var (
	// ErrBadType marks a parameter of the wrong primitive type.
	ErrBadType = errors.New("invalid type")

	// ErrBadValue marks a value of the right type but wrong content:
	// enum membership, missing columns, out-of-range data, and so on.
	ErrBadValue = errors.New("invalid value")

	// ErrNotImplemented marks a deliberate stub that must fail loudly
	// instead of silently doing nothing.
	ErrNotImplemented = errors.New("not implemented")
)

// MessageFunc formats a raw check message with caller context.
type MessageFunc func(text string) string

// CheckError is the error type returned by every failed check.
type CheckError struct {
	// Kind is one of ErrBadType, ErrBadValue, ErrNotImplemented.
	Kind error

	// Msg is the formatted, context-rich message.
	Msg string
}

// Error implements the error interface.
func (e *CheckError) Error() string { return e.Msg }

// Unwrap returns the sentinel kind for errors.Is support.
func (e *CheckError) Unwrap() error { return e.Kind }

func format(msgf MessageFunc, text string) string {
	if msgf == nil {
		return text
	}
	return msgf(text)
}

func typeError(msgf MessageFunc, formatStr string, args ...any) error {
	return &CheckError{Kind: ErrBadType, Msg: format(msgf, fmt.Sprintf(formatStr, args...))}
}

func valueError(msgf MessageFunc, formatStr string, args ...any) error {
	return &CheckError{Kind: ErrBadValue, Msg: format(msgf, fmt.Sprintf(formatStr, args...))}
}

// NotImplemented returns an ErrNotImplemented check error with the given
// message, formatted through msgf.
func NotImplemented(msgf MessageFunc, text string) error {
	return &CheckError{Kind: ErrNotImplemented, Msg: format(msgf, text)}
}
