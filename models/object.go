// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models holds the typed protocol objects the engine exchanges
// with the server: sync state, update variants, difference variants, and
// the RPC request parameters that drive them.
//
// Updates and differences form closed tagged-variant sets (the update()
// and difference() markers), so consumers can match them exhaustively by
// type instead of open-ended runtime probing.
package models

// Object is anything with a TL constructor id.
type Object interface {
	CRC() uint32
}

// Request marks RPC method parameters.
type Request interface {
	Object
	request()
}
