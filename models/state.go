// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// UpdatesState is the client's last-known-consistent position in the
// server's update stream. It is created on the first successful state
// query and mutated only by the sync engine after successfully applying a
// difference or live update.
type UpdatesState struct {
	Pts  int32
	Qts  int32
	Date int32
	Seq  int32
}

func (*UpdatesState) CRC() uint32 { return 0xa56c2a3e }

// ConnectionState is the transport liveness signal fanned out to handlers
// as a synthetic update.
type ConnectionState int8

const (
	ConnectionDisconnected ConnectionState = -1
	ConnectionBroken       ConnectionState = 0
	ConnectionConnected    ConnectionState = 1
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionDisconnected:
		return "disconnected"
	case ConnectionBroken:
		return "broken"
	case ConnectionConnected:
		return "connected"
	default:
		return "unknown"
	}
}
