// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client is the facade over the wire: it turns typed requests
// into encoded (optionally encrypted) frames, hands them to the
// transport, and turns reply frames back into typed values.
package client

import "context"

// Transport carries whole frames. Socket-level framing, datacenter
// routing and reconnect mechanics live behind it.
type Transport interface {
	// Send transmits one encoded frame and blocks for its reply frame.
	Send(ctx context.Context, frame []byte) ([]byte, error)

	Reconnect(ctx context.Context) error

	IsConnected() bool
	IsReconnecting() bool
	IsSwitchingDC() bool
	IsDestroyed() bool
}
