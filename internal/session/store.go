// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-mtproto-client/internal/crypto"
	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/migrations"
	"github.com/MKhiriev/go-mtproto-client/models"
)

var (
	ErrNoSession      = errors.New("no persisted session")
	ErrEntityNotFound = errors.New("entity not found in cache")
)

const (
	kindUser = "user"
	kindChat = "chat"
)

// sqliteStore implements [Store] over a local SQLite file.
type sqliteStore struct {
	db         *sql.DB
	keys       crypto.KeyChain
	passphrase string
	log        *logger.Logger
}

// NewStore opens (creating if necessary) the SQLite database at dsn, runs
// pending migrations and returns the store. The passphrase protects the
// auth key at rest via the keychain.
func NewStore(ctx context.Context, dsn string, keys crypto.KeyChain, passphrase string, log *logger.Logger) (Store, error) {
	if err := createDBFileIfNotExists(dsn); err != nil {
		return nil, fmt.Errorf("create session database file: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Str("dsn", dsn).Msg("session database ready")
	return &sqliteStore{
		db:         db,
		keys:       keys,
		passphrase: passphrase,
		log:        log,
	}, nil
}

func createDBFileIfNotExists(dbFile string) error {
	if dbFile == ":memory:" {
		return nil
	}
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return err
		}
		f.Close()
	}
	return nil
}

// qb is the SQLite-flavoured statement builder ('?' placeholders).
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func (s *sqliteStore) ProcessEntities(ctx context.Context, users []*models.User, chats []*models.Chat) error {
	if len(users) == 0 && len(chats) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin entities tx: %w", err)
	}
	defer tx.Rollback()

	for _, u := range users {
		name := u.FirstName
		if u.LastName != "" {
			name += " " + u.LastName
		}
		if err = s.upsertEntity(ctx, tx, u.ID, kindUser, u.AccessHash, name, u.Username); err != nil {
			return err
		}
	}
	for _, c := range chats {
		if err = s.upsertEntity(ctx, tx, c.ID, kindChat, c.AccessHash, c.Title, ""); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit entities tx: %w", err)
	}
	s.log.Debug().Int("users", len(users)).Int("chats", len(chats)).Msg("entities cached")
	return nil
}

func (s *sqliteStore) upsertEntity(ctx context.Context, tx *sql.Tx, id int64, kind string, accessHash int64, name, username string) error {
	query, args, err := qb.Insert("entities").
		Columns("id", "kind", "access_hash", "name", "username").
		Values(id, kind, accessHash, name, username).
		Suffix(`ON CONFLICT (id, kind) DO UPDATE SET
			access_hash = excluded.access_hash,
			name        = excluded.name,
			username    = excluded.username,
			updated_at  = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build entity upsert: %w", err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s %d: %w", kind, id, err)
	}
	return nil
}

func (s *sqliteStore) SaveState(ctx context.Context, st *models.UpdatesState) error {
	query, args, err := qb.Insert("sync_state").
		Columns("id", "pts", "qts", "date", "seq").
		Values(1, st.Pts, st.Qts, st.Date, st.Seq).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			pts  = excluded.pts,
			qts  = excluded.qts,
			date = excluded.date,
			seq  = excluded.seq`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build state upsert: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}
	return nil
}

func (s *sqliteStore) LoadState(ctx context.Context) (*models.UpdatesState, error) {
	query, args, err := qb.Select("pts", "qts", "date", "seq").
		From("sync_state").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build state select: %w", err)
	}

	var st models.UpdatesState
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&st.Pts, &st.Qts, &st.Date, &st.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}
	return &st, nil
}

func (s *sqliteStore) SaveSession(ctx context.Context, sess *models.Session) error {
	salt, err := s.keys.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate session key salt: %w", err)
	}
	key := s.keys.DeriveKey(s.passphrase, salt)

	sealed, err := s.keys.Seal(sess.AuthKey, key)
	if err != nil {
		return fmt.Errorf("seal auth key: %w", err)
	}

	id := sess.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	defer tx.Rollback()

	// one session at a time: replace, never accumulate
	if _, err = tx.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return fmt.Errorf("clear previous session: %w", err)
	}

	query, args, err := qb.Insert("sessions").
		Columns("session_id", "dc", "addr", "auth_key_sealed", "key_salt").
		Values(id, sess.DC, sess.Addr, sealed, salt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build session insert: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session tx: %w", err)
	}
	s.log.Info().Str("session_id", id).Int("dc", sess.DC).Msg("session persisted")
	return nil
}

func (s *sqliteStore) LoadSession(ctx context.Context) (*models.Session, error) {
	query, args, err := qb.Select("session_id", "dc", "addr", "auth_key_sealed", "key_salt", "created_at").
		From("sessions").
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build session select: %w", err)
	}

	var (
		sess   models.Session
		sealed []byte
		salt   []byte
	)
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&sess.ID, &sess.DC, &sess.Addr, &sealed, &salt, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	key := s.keys.DeriveKey(s.passphrase, salt)
	sess.AuthKey, err = s.keys.Open(sealed, key)
	if err != nil {
		return nil, fmt.Errorf("unseal auth key: %w", err)
	}
	return &sess, nil
}

func (s *sqliteStore) User(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	var name string
	err := s.entityRow(ctx, id, kindUser).Scan(&u.ID, &u.AccessHash, &name, &u.Username)
	if err != nil {
		return nil, err
	}
	u.FirstName = name
	return &u, nil
}

func (s *sqliteStore) Chat(ctx context.Context, id int64) (*models.Chat, error) {
	var c models.Chat
	var username string
	err := s.entityRow(ctx, id, kindChat).Scan(&c.ID, &c.AccessHash, &c.Title, &username)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// entityScanner lets the typed accessors share one query path.
type entityScanner struct {
	row *sql.Row
	err error
}

func (e entityScanner) Scan(dest ...any) error {
	if e.err != nil {
		return e.err
	}
	err := e.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEntityNotFound
	}
	if err != nil {
		return fmt.Errorf("scan entity row: %w", err)
	}
	return nil
}

func (s *sqliteStore) entityRow(ctx context.Context, id int64, kind string) entityScanner {
	query, args, err := qb.Select("id", "access_hash", "name", "username").
		From("entities").
		Where(sq.Eq{"id": id, "kind": kind}).
		ToSql()
	if err != nil {
		return entityScanner{err: fmt.Errorf("build entity select: %w", err)}
	}
	return entityScanner{row: s.db.QueryRowContext(ctx, query, args...)}
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
