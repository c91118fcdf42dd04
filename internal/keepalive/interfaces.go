// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keepalive runs the long-lived liveness loop: periodic ping
// probes, suspend/wake detection, reconnect triggering and idle state
// refresh.
package keepalive

import (
	"context"

	"github.com/MKhiriev/go-mtproto-client/models"
)

// Transport is the connection the loop keeps alive. The flags are
// observed at defined points each tick; the loop has no other
// cancellation signal.
type Transport interface {
	IsConnected() bool
	IsReconnecting() bool
	IsSwitchingDC() bool
	IsDestroyed() bool
	Reconnect(ctx context.Context) error
}

// Invoker issues the loop's RPCs (ping probes, state refresh).
type Invoker interface {
	Invoke(ctx context.Context, req models.Request) (any, error)
}

// Syncer is the update engine surface the loop talks to: connection-state
// announcements and the idle state resync.
type Syncer interface {
	HandleSignal(ctx context.Context, state models.ConnectionState)
	ResyncState(ctx context.Context) error
}
