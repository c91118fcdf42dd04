// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package updates

import (
	"context"

	"github.com/MKhiriev/go-mtproto-client/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/updates_mock.go -package=mock

// Invoker issues RPC requests through the client facade. Responses are
// decoded protocol objects; the engine type-switches on the kinds it
// understands.
type Invoker interface {
	Invoke(ctx context.Context, req models.Request) (any, error)
}

// SelfResolver resolves the client's own identity, used to enrich events
// before dispatch.
type SelfResolver interface {
	GetMe(ctx context.Context) (*models.User, error)
}

// Store is the session/entity cache the engine feeds: entity snapshots
// from updates and differences, and the persisted sync position.
type Store interface {
	ProcessEntities(ctx context.Context, users []*models.User, chats []*models.Chat) error
	SaveState(ctx context.Context, st *models.UpdatesState) error
	LoadState(ctx context.Context) (*models.UpdatesState, error)
}
