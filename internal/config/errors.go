// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidTransportConfigs indicates invalid transport settings
	// (for example, a malformed address or non-positive request timeout).
	ErrInvalidTransportConfigs = errors.New("invalid transport configuration")
	// ErrInvalidSessionConfigs indicates invalid session storage settings
	// (for example, an empty database path).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidKeepaliveConfigs indicates invalid keepalive settings
	// (for example, a negative retry count or interval).
	ErrInvalidKeepaliveConfigs = errors.New("invalid keepalive configuration")
)
