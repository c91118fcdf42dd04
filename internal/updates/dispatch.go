// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package updates

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-mtproto-client/models"
)

// ErrStopPropagation is not a failure: a handler returns it to halt
// dispatch of the current event to later-registered handlers. The next
// event runs the full registry again.
var ErrStopPropagation = errors.New("stop event propagation")

// EventBuilder transforms raw updates into higher-level events and decides
// which of them a handler wants.
type EventBuilder interface {
	// Resolve is called once per builder before it can build events,
	// lazily on first use against the live client. A failure is logged and
	// the builder is skipped for that dispatch round only.
	Resolve(ctx context.Context, inv Invoker) error

	// Build transforms a raw update into an event, or returns nil when the
	// update is not applicable to this builder.
	Build(u models.Update, entities *models.EntityMap) any

	// Filter is the builder's predicate over built events.
	Filter(event any) bool
}

// Handler is the callback half of a registration.
type Handler func(ctx context.Context, event any) error

// Registration pairs a builder with its callback. The pointer is the
// registration's identity for removal.
type Registration struct {
	builder  EventBuilder
	handler  Handler
	resolved bool
}

// clientAttacher lets events receive back-references before filtering.
type clientAttacher interface {
	Attach(inv Invoker, me *models.User)
}

// AddHandler appends a (builder, callback) pair to the registry.
// Registration order is dispatch order.
func (e *Engine) AddHandler(builder EventBuilder, handler Handler) *Registration {
	reg := &Registration{builder: builder, handler: handler}

	e.mu.Lock()
	e.registry = append(e.registry, reg)
	e.mu.Unlock()

	return reg
}

// RemoveHandler removes a registration by identity. Returns false when the
// registration is not (or no longer) present.
func (e *Engine) RemoveHandler(reg *Registration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, r := range e.registry {
		if r == reg {
			e.registry = append(e.registry[:i], e.registry[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBuilder removes every registration whose builder is identical to
// builder. Returns the number removed.
func (e *Engine) RemoveBuilder(builder EventBuilder) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.registry[:0]
	removed := 0
	for _, r := range e.registry {
		if r.builder == builder {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	e.registry = kept
	return removed
}

// dispatch runs one update through the registered handler pairs, in
// registration order, over a point-in-time snapshot of the registry —
// registration changes mid-round do not affect the round.
func (e *Engine) dispatch(ctx context.Context, u models.Update, entities *models.EntityMap) {
	_, isConnState := u.(*models.UpdateConnectionState)
	if !isConnState {
		e.resolveSelf(ctx)
	}

	e.mu.Lock()
	snapshot := make([]*Registration, len(e.registry))
	copy(snapshot, e.registry)
	me := e.me
	e.mu.Unlock()

	for _, reg := range snapshot {
		if !reg.resolved {
			if err := reg.builder.Resolve(ctx, e.invoker); err != nil {
				e.log.Warn().Err(err).Msg("event builder failed to resolve, skipping for this round")
				continue
			}
			e.mu.Lock()
			reg.resolved = true
			e.mu.Unlock()
		}

		event := reg.builder.Build(u, entities)
		if event == nil {
			continue
		}

		if att, ok := event.(clientAttacher); ok {
			att.Attach(e.invoker, me)
		}

		if !reg.builder.Filter(event) {
			continue
		}

		err := reg.handler(ctx, event)
		switch {
		case err == nil:
		case errors.Is(err, ErrStopPropagation):
			e.log.Debug().Msg("handler stopped propagation")
			return
		default:
			e.hookError(err)
			e.log.Error().Err(err).Msg("handler callback failed")
		}
	}
}

// resolveSelf caches the client's own identity once, best-effort: a
// failure is silently ignored and dispatch proceeds without it.
func (e *Engine) resolveSelf(ctx context.Context) {
	e.mu.Lock()
	cached := e.me != nil
	e.mu.Unlock()
	if cached || e.self == nil {
		return
	}

	me, err := e.self.GetMe(ctx)
	if err != nil || me == nil {
		e.log.Debug().Err(err).Msg("self identity not resolved yet")
		return
	}

	e.mu.Lock()
	e.me = me
	e.mu.Unlock()
}
