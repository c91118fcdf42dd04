// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tl

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEOF is returned when a decode runs past the end of the
	// frame before the definition's fields are satisfied.
	ErrUnexpectedEOF = errors.New("unexpected end of frame")
)

// SchemaError reports a schema line that cannot be parsed as a definition.
// It is fatal at parse time: generation cannot proceed with a broken schema.
type SchemaError struct {
	Line string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("cannot parse definition: %q", e.Line)
}

// FramingError reports a frame that cannot be decoded: an unrecognized
// constructor id, or a malformed payload for a known constructor. It is
// fatal to that single frame only.
type FramingError struct {
	ConstructorID uint32
	Reason        string
}

func (e *FramingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("framing error for constructor 0x%08x: %s", e.ConstructorID, e.Reason)
	}
	return fmt.Sprintf("unrecognized constructor id 0x%08x", e.ConstructorID)
}
