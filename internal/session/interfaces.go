// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session is the SQLite-backed local cache: peer entities, the
// update-sync cursor and the encrypted connection session.
package session

import (
	"context"

	"github.com/MKhiriev/go-mtproto-client/models"
)

// Store is the full persistence surface. Its entity/state subset
// satisfies the sync engine's store dependency.
type Store interface {
	// ProcessEntities upserts the user/chat snapshots carried by an
	// update or difference page.
	ProcessEntities(ctx context.Context, users []*models.User, chats []*models.Chat) error

	// SaveState persists the sync cursor (single row, replaced wholesale).
	SaveState(ctx context.Context, st *models.UpdatesState) error

	// LoadState returns the persisted cursor, or (nil, nil) when none has
	// been saved yet.
	LoadState(ctx context.Context) (*models.UpdatesState, error)

	// SaveSession seals the auth key with the store's keychain and
	// replaces the persisted session.
	SaveSession(ctx context.Context, s *models.Session) error

	// LoadSession returns the persisted session with the auth key opened,
	// or ErrNoSession.
	LoadSession(ctx context.Context) (*models.Session, error)

	// User returns the cached user snapshot, or ErrEntityNotFound.
	User(ctx context.Context, id int64) (*models.User, error)

	// Chat returns the cached chat snapshot, or ErrEntityNotFound.
	Chat(ctx context.Context, id int64) (*models.Chat, error)

	Close() error
}
