// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package updates

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/models"
)

var errNoState = errors.New("updates state is not initialized")

// Engine keeps the local updates cursor in step with the server and fans
// incoming updates out to registered handlers.
type Engine struct {
	invoker Invoker
	self    SelfResolver
	store   Store
	log     *logger.Logger

	errorHook func(error)

	mu       sync.Mutex
	state    *models.UpdatesState
	me       *models.User
	registry []*Registration

	// catchUpMu makes CatchUp single-flight: a second caller finds the
	// lock taken and returns immediately.
	catchUpMu sync.Mutex
}

// Option mutates an Engine during construction.
type Option func(*Engine)

// WithSelfResolver lets dispatched events carry the client's own identity.
func WithSelfResolver(self SelfResolver) Option {
	return func(e *Engine) { e.self = self }
}

// WithStore persists state and entities across restarts.
func WithStore(store Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithErrorHook installs a global callback invoked for every handler
// error other than ErrStopPropagation.
func WithErrorHook(hook func(error)) Option {
	return func(e *Engine) { e.errorHook = hook }
}

// NewEngine creates the sync engine. The invoker is the only mandatory
// collaborator.
func NewEngine(invoker Invoker, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		invoker: invoker,
		log:     &logger.Logger{Logger: log.With().Str("component", "updates").Logger()},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init establishes the starting cursor: the persisted state when one is
// available, the server's current state otherwise.
func (e *Engine) Init(ctx context.Context) error {
	if e.store != nil {
		persisted, err := e.store.LoadState(ctx)
		if err != nil {
			e.log.Warn().Err(err).Msg("persisted state unavailable, asking server")
		} else if persisted != nil {
			e.setState(persisted)
			e.log.Info().Int32("pts", persisted.Pts).Int32("seq", persisted.Seq).Msg("resumed from persisted state")
			return nil
		}
	}

	raw, err := e.invoker.Invoke(ctx, &models.GetStateParams{})
	if err != nil {
		return err
	}
	st, ok := raw.(*models.UpdatesState)
	if !ok {
		return errors.New("updates.getState: unexpected reply type")
	}

	e.setState(st)
	e.persistState(ctx)
	e.log.Info().Int32("pts", st.Pts).Int32("seq", st.Seq).Msg("initialized from server state")
	return nil
}

// State returns a copy of the current cursor.
func (e *Engine) State() (models.UpdatesState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return models.UpdatesState{}, false
	}
	return *e.state, true
}

func (e *Engine) setState(st *models.UpdatesState) {
	e.mu.Lock()
	e.state = st
	e.mu.Unlock()
}

func (e *Engine) persistState(ctx context.Context) {
	if e.store == nil {
		return
	}
	e.mu.Lock()
	st := e.state
	e.mu.Unlock()
	if st == nil {
		return
	}
	if err := e.store.SaveState(ctx, st); err != nil {
		e.log.Warn().Err(err).Msg("failed to persist updates state")
	}
}

// ResyncState re-queries the server's position and adopts it wholesale.
// Used by the idle-refresh path: servers stop pushing updates to
// connections that never issue content-bearing requests.
func (e *Engine) ResyncState(ctx context.Context) error {
	raw, err := e.invoker.Invoke(ctx, &models.GetStateParams{})
	if err != nil {
		return err
	}
	st, ok := raw.(*models.UpdatesState)
	if !ok {
		return errors.New("updates.getState: unexpected reply type")
	}

	e.setState(st)
	e.persistState(ctx)
	e.log.Debug().Int32("pts", st.Pts).Int32("seq", st.Seq).Msg("state resynced")
	return nil
}

// CatchUp fetches every event the client missed since its cursor and
// replays each through dispatch. Only one catch-up runs at a time; a
// concurrent call is a no-op.
func (e *Engine) CatchUp(ctx context.Context) error {
	if !e.catchUpMu.TryLock() {
		e.log.Debug().Msg("catch-up already in flight")
		return nil
	}
	defer e.catchUpMu.Unlock()

	for {
		e.mu.Lock()
		st := e.state
		e.mu.Unlock()
		if st == nil {
			return errNoState
		}

		raw, err := e.invoker.Invoke(ctx, &models.GetDifferenceParams{
			Pts:  st.Pts,
			Qts:  st.Qts,
			Date: st.Date,
		})
		if err != nil {
			return err
		}

		switch diff := raw.(type) {
		case *models.DifferenceEmpty:
			e.mu.Lock()
			e.state.Date = diff.Date
			e.state.Seq = diff.Seq
			e.mu.Unlock()
			e.persistState(ctx)
			return nil

		case *models.DifferenceComplete:
			e.applyDifference(ctx, diff.NewMessages, diff.OtherUpdates, diff.Users, diff.Chats)
			e.setState(diff.State)
			e.persistState(ctx)
			return nil

		case *models.DifferenceSlice:
			e.applyDifference(ctx, diff.NewMessages, diff.OtherUpdates, diff.Users, diff.Chats)
			e.setState(diff.IntermediateState)
			e.persistState(ctx)
			// more pages remain, loop with the advanced cursor

		case *models.DifferenceTooLong:
			e.log.Warn().Int32("pts", diff.Pts).Msg("difference too long, local history may have gaps")
			e.mu.Lock()
			e.state.Pts = diff.Pts
			e.mu.Unlock()
			e.persistState(ctx)
			return nil

		default:
			return errors.New("updates.getDifference: unexpected reply type")
		}
	}
}

// applyDifference fans one difference page out to handlers: new messages
// are wrapped as synthetic new-message updates, other updates pass
// through as-is, and the page's entities back both.
func (e *Engine) applyDifference(ctx context.Context, messages []*models.Message, others []models.Update, users []*models.User, chats []*models.Chat) {
	entities := models.NewEntityMap(users, chats)
	e.rememberEntities(ctx, users, chats)

	for _, msg := range messages {
		e.dispatch(ctx, &models.UpdateNewMessage{Message: msg}, entities)
	}
	for _, u := range others {
		e.dispatch(ctx, u, entities)
	}
}

func (e *Engine) rememberEntities(ctx context.Context, users []*models.User, chats []*models.Chat) {
	if e.store == nil || (len(users) == 0 && len(chats) == 0) {
		return
	}
	if err := e.store.ProcessEntities(ctx, users, chats); err != nil {
		e.log.Warn().Err(err).Msg("failed to persist entities")
	}
}

// HandleUpdate is the live entry point: the transport feeds every decoded
// update container here.
func (e *Engine) HandleUpdate(ctx context.Context, u models.Update) {
	switch upd := u.(type) {
	case *models.UpdatesCombined:
		e.rememberEntities(ctx, upd.Users, upd.Chats)
		entities := models.NewEntityMap(upd.Users, upd.Chats)
		e.mu.Lock()
		if e.state != nil && upd.Seq > 0 {
			e.state.Seq = upd.Seq
			e.state.Date = upd.Date
		}
		e.mu.Unlock()
		for _, inner := range upd.Updates {
			e.handleSingle(ctx, inner, entities)
		}
		e.persistState(ctx)

	case *models.UpdateShort:
		e.mu.Lock()
		if e.state != nil && upd.Date > 0 {
			e.state.Date = upd.Date
		}
		e.mu.Unlock()
		e.handleSingle(ctx, upd.Update, models.NewEntityMap(nil, nil))
		e.persistState(ctx)

	case *models.UpdatesTooLong:
		e.log.Info().Msg("server signalled too-long gap, catching up")
		if err := e.CatchUp(ctx); err != nil {
			e.hookError(err)
			e.log.Error().Err(err).Msg("catch-up after too-long signal failed")
		}

	default:
		e.handleSingle(ctx, u, models.NewEntityMap(nil, nil))
		e.persistState(ctx)
	}
}

// handleSingle advances the pts cursor for pts-bearing updates and
// dispatches. A pts advance applies only when contiguous with the local
// cursor; a stale pts leaves the cursor alone, an out-of-order one is
// logged and still dispatched.
func (e *Engine) handleSingle(ctx context.Context, u models.Update, entities *models.EntityMap) {
	if msg, ok := u.(*models.UpdateNewMessage); ok && msg.Pts > 0 {
		e.mu.Lock()
		if e.state != nil {
			switch {
			case e.state.Pts+msg.PtsCount == msg.Pts:
				e.state.Pts = msg.Pts
			case msg.Pts <= e.state.Pts:
				// already applied, cursor stays
			default:
				e.log.Warn().Int32("local_pts", e.state.Pts).Int32("update_pts", msg.Pts).Msg("non-contiguous pts, cursor not advanced")
			}
		}
		e.mu.Unlock()
	}

	e.dispatch(ctx, u, entities)
}

// HandleSignal publishes a connection-state transition to handlers as a
// synthetic update.
func (e *Engine) HandleSignal(ctx context.Context, state models.ConnectionState) {
	e.dispatch(ctx, &models.UpdateConnectionState{State: state}, models.NewEntityMap(nil, nil))
}

func (e *Engine) hookError(err error) {
	if e.errorHook != nil {
		e.errorHook(err)
	}
}
