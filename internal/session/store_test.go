// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-mtproto-client/internal/crypto"
	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/internal/mock"
	"github.com/MKhiriev/go-mtproto-client/models"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "session.db")
	store, err := NewStore(context.Background(), dsn, crypto.NewKeyChain(), "correct horse battery staple", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSyncState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("empty store loads nothing", func(t *testing.T) {
		st, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("state round-trips", func(t *testing.T) {
		require.NoError(t, store.SaveState(ctx, &models.UpdatesState{Pts: 70, Qts: 3, Date: 1000, Seq: 12}))

		st, err := store.LoadState(ctx)
		require.NoError(t, err)
		require.NotNil(t, st)
		assert.Equal(t, int32(70), st.Pts)
		assert.Equal(t, int32(3), st.Qts)
		assert.Equal(t, int32(1000), st.Date)
		assert.Equal(t, int32(12), st.Seq)
	})

	t.Run("save replaces the single row", func(t *testing.T) {
		require.NoError(t, store.SaveState(ctx, &models.UpdatesState{Pts: 71, Seq: 13}))

		st, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int32(71), st.Pts)
		assert.Equal(t, int32(13), st.Seq)
	})
}

func TestStoreEntities(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("unknown entity", func(t *testing.T) {
		_, err := store.User(ctx, 404)
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})

	t.Run("upsert and fetch", func(t *testing.T) {
		err := store.ProcessEntities(ctx,
			[]*models.User{{ID: 42, AccessHash: 7, FirstName: "Alice", Username: "alice"}},
			[]*models.Chat{{ID: 9, AccessHash: 8, Title: "ops"}},
		)
		require.NoError(t, err)

		u, err := store.User(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.AccessHash)
		assert.Equal(t, "alice", u.Username)

		c, err := store.Chat(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, "ops", c.Title)
	})

	t.Run("second upsert wins", func(t *testing.T) {
		err := store.ProcessEntities(ctx,
			[]*models.User{{ID: 42, AccessHash: 77, FirstName: "Alice", Username: "alice_renamed"}},
			nil,
		)
		require.NoError(t, err)

		u, err := store.User(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(77), u.AccessHash)
		assert.Equal(t, "alice_renamed", u.Username)
	})

	t.Run("user and chat ids do not collide", func(t *testing.T) {
		err := store.ProcessEntities(ctx,
			[]*models.User{{ID: 100, FirstName: "Bob"}},
			[]*models.Chat{{ID: 100, Title: "bobs chat"}},
		)
		require.NoError(t, err)

		_, err = store.User(ctx, 100)
		require.NoError(t, err)
		_, err = store.Chat(ctx, 100)
		require.NoError(t, err)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, store.ProcessEntities(ctx, nil, nil))
	})
}

func TestStoreSession(t *testing.T) {
	ctx := context.Background()

	t.Run("missing session", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.LoadSession(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("auth key survives the round trip opened", func(t *testing.T) {
		store := newTestStore(t)
		authKey := []byte("0123456789abcdef0123456789abcdef")

		require.NoError(t, store.SaveSession(ctx, &models.Session{DC: 2, Addr: "198.51.100.7:443", AuthKey: authKey}))

		sess, err := store.LoadSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sess.DC)
		assert.Equal(t, "198.51.100.7:443", sess.Addr)
		assert.Equal(t, authKey, sess.AuthKey)
		assert.NotEmpty(t, sess.ID, "a fresh session gets a generated id")
	})

	t.Run("saving again replaces the previous session", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SaveSession(ctx, &models.Session{ID: "first", DC: 1, Addr: "a:443", AuthKey: []byte("key-one")}))
		require.NoError(t, store.SaveSession(ctx, &models.Session{ID: "second", DC: 4, Addr: "b:443", AuthKey: []byte("key-two")}))

		sess, err := store.LoadSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", sess.ID)
		assert.Equal(t, []byte("key-two"), sess.AuthKey)
	})

	t.Run("wrong passphrase cannot open the key", func(t *testing.T) {
		dsn := filepath.Join(t.TempDir(), "session.db")
		store, err := NewStore(ctx, dsn, crypto.NewKeyChain(), "right", logger.Nop())
		require.NoError(t, err)
		require.NoError(t, store.SaveSession(ctx, &models.Session{DC: 1, Addr: "a:443", AuthKey: []byte("secret")}))
		require.NoError(t, store.Close())

		reopened, err := NewStore(ctx, dsn, crypto.NewKeyChain(), "wrong", logger.Nop())
		require.NoError(t, err)
		defer reopened.Close()

		_, err = reopened.LoadSession(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unseal auth key")
	})
}

// stubKeys keeps the sqlmock error-path tests away from argon2 cost.
type stubKeys struct{}

func (stubKeys) GenerateSalt() ([]byte, error) { return []byte("salt"), nil }
func (stubKeys) DeriveKey(string, []byte) []byte { return []byte("key") }
func (stubKeys) Seal(p, _ []byte) ([]byte, error) { return p, nil }
func (stubKeys) Open(blob, _ []byte) ([]byte, error) { return blob, nil }

func newMockStore(t *testing.T) (*sqliteStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &sqliteStore{
		db:         db,
		keys:       stubKeys{},
		passphrase: "pw",
		log:        logger.Nop(),
	}, mock
}

func TestStoreSQLErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("save state exec failure", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO sync_state").WillReturnError(errors.New("disk full"))

		err := store.SaveState(ctx, &models.UpdatesState{Pts: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save sync state")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("load state query failure", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT pts, qts, date, seq FROM sync_state").
			WillReturnError(errors.New("corrupt page"))

		_, err := store.LoadState(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load sync state")
	})

	t.Run("entities rollback on upsert failure", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO entities").WillReturnError(errors.New("constraint"))
		mock.ExpectRollback()

		err := store.ProcessEntities(ctx, []*models.User{{ID: 1, FirstName: "x"}}, nil)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("session insert failure rolls back", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM sessions").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO sessions").WillReturnError(errors.New("readonly db"))
		mock.ExpectRollback()

		err := store.SaveSession(ctx, &models.Session{DC: 1, Addr: "a", AuthKey: []byte("k")})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveSession_SaltFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	keys := mock.NewMockKeyChain(ctrl)
	keys.EXPECT().GenerateSalt().Return(nil, errors.New("entropy exhausted"))

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &sqliteStore{db: db, keys: keys, passphrase: "pw", log: logger.Nop()}
	err = store.SaveSession(context.Background(), &models.Session{AuthKey: []byte("k")})
	require.ErrorContains(t, err, "generate session key salt")
}

func TestSaveSession_SealFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	keys := mock.NewMockKeyChain(ctrl)
	keys.EXPECT().GenerateSalt().Return([]byte("salt"), nil)
	keys.EXPECT().DeriveKey("pw", []byte("salt")).Return([]byte("key"))
	keys.EXPECT().Seal([]byte("k"), []byte("key")).Return(nil, errors.New("short key"))

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &sqliteStore{db: db, keys: keys, passphrase: "pw", log: logger.Nop()}
	err = store.SaveSession(context.Background(), &models.Session{AuthKey: []byte("k")})
	require.ErrorContains(t, err, "seal auth key")
}
