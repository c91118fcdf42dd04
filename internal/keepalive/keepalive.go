// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keepalive

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/models"
)

// ErrProbeTimeout marks a ping attempt that lost its race against the
// attempt timeout. The underlying RPC is not cancelled and its late reply
// is discarded.
var ErrProbeTimeout = errors.New("ping probe timed out")

const (
	defaultPingInterval  = 9 * time.Second
	defaultProbeTimeout  = 10 * time.Second
	defaultRetryCount    = 3
	defaultRetryDelay    = 2 * time.Second
	defaultWakeThreshold = 60 * time.Second
	defaultWarningDelay  = 3 * time.Second
	defaultWakeTimeout   = 15 * time.Second
	defaultIdleRefresh   = 10 * time.Minute

	// the server drops the connection if no further ping arrives within
	// this many seconds after a probe
	disconnectDelaySeconds = 35
)

// Config are the loop's timing knobs. Zero values fall back to defaults.
type Config struct {
	// PingInterval is the tick period between probes.
	PingInterval time.Duration
	// ProbeTimeout bounds one ping attempt on the fast path.
	ProbeTimeout time.Duration
	// RetryCount is the number of attempts on the fast path.
	RetryCount int
	// RetryDelay is the pause between fast-path attempts.
	RetryDelay time.Duration
	// WakeThreshold is the probe gap beyond which the process is assumed
	// to have been suspended and the connection silently dead.
	WakeThreshold time.Duration
	// WarningDelay is how long the wake-path probe may run before the
	// loop announces a disconnected signal.
	WarningDelay time.Duration
	// WakeTimeout bounds the single wake-path attempt.
	WakeTimeout time.Duration
	// IdleRefresh is the silence span after which the loop re-issues a
	// state query so the server keeps pushing updates.
	IdleRefresh time.Duration
}

func (c Config) withDefaults() Config {
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
	if c.RetryCount <= 0 {
		c.RetryCount = defaultRetryCount
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.WakeThreshold <= 0 {
		c.WakeThreshold = defaultWakeThreshold
	}
	if c.WarningDelay <= 0 {
		c.WarningDelay = defaultWarningDelay
	}
	if c.WakeTimeout <= 0 {
		c.WakeTimeout = defaultWakeTimeout
	}
	if c.IdleRefresh <= 0 {
		c.IdleRefresh = defaultIdleRefresh
	}
	return c
}

// Loop is the keepalive job. It is idle until Start and restartable after
// Stop or a self-terminated exit.
type Loop struct {
	transport Transport
	invoker   Invoker
	syncer    Syncer
	cfg       Config
	log       *logger.Logger

	errorHook func(error)
	onDestroy func()

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	lastSuccess time.Time
	lastContent time.Time
}

// LoopOption mutates a Loop during construction.
type LoopOption func(*Loop)

// WithErrorHook installs the global callback receiving probe failures.
func WithErrorHook(hook func(error)) LoopOption {
	return func(l *Loop) { l.errorHook = hook }
}

// WithDestroyHook installs the final-teardown callback, run only when the
// loop exits because the transport was explicitly destroyed.
func WithDestroyHook(hook func()) LoopOption {
	return func(l *Loop) { l.onDestroy = hook }
}

// NewLoop creates the keepalive job. The loop is idle until Start.
func NewLoop(transport Transport, invoker Invoker, syncer Syncer, cfg Config, log *logger.Logger, opts ...LoopOption) *Loop {
	l := &Loop{
		transport: transport,
		invoker:   invoker,
		syncer:    syncer,
		cfg:       cfg.withDefaults(),
		log:       &logger.Logger{Logger: log.With().Str("component", "keepalive").Logger()},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start stops any previously running loop, then launches the background
// goroutine ticking every PingInterval. The goroutine exits when ctx is
// cancelled, Stop is called, or the transport is conclusively gone.
func (l *Loop) Start(ctx context.Context) {
	l.Stop()

	l.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.running = true
	now := time.Now()
	l.lastSuccess = now
	l.lastContent = now
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		l.run(loopCtx)
	}()
}

// Stop cancels the loop and blocks until it has fully exited. Safe to
// call when not running.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

// Running reports whether the background goroutine is alive.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Touch records a content-bearing request issued elsewhere on the
// connection, pushing back the idle refresh.
func (l *Loop) Touch() {
	l.mu.Lock()
	l.lastContent = time.Now()
	l.mu.Unlock()
}

func (l *Loop) run(ctx context.Context) {
	defer l.markStopped()

	ticker := time.NewTicker(l.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if exit := l.tick(ctx); exit {
				return
			}
		}
	}
}

func (l *Loop) markStopped() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()

	if l.transport.IsDestroyed() {
		l.log.Info().Msg("transport destroyed, final teardown")
		if l.onDestroy != nil {
			l.onDestroy()
		}
	}
}

// tick runs one probe cycle. It returns true when the loop must exit.
func (l *Loop) tick(ctx context.Context) bool {
	if l.transport.IsDestroyed() {
		return true
	}
	if l.transport.IsReconnecting() || l.transport.IsSwitchingDC() {
		l.log.Debug().Msg("transport busy, skipping tick")
		return false
	}
	if !l.transport.IsConnected() {
		l.log.Info().Msg("transport conclusively disconnected, loop exits")
		return true
	}

	trace := uuid.NewString()
	l.mu.Lock()
	gap := time.Since(l.lastSuccess)
	l.mu.Unlock()

	var err error
	if gap < l.cfg.WakeThreshold {
		err = l.probeWithRetry(ctx, trace)
	} else {
		err = l.probeAfterWake(ctx, trace, gap)
	}

	exit := false
	if err != nil {
		exit = l.handleProbeFailure(ctx, trace, err)
	} else {
		l.mu.Lock()
		l.lastSuccess = time.Now()
		l.mu.Unlock()
	}
	if exit {
		return true
	}

	// the refresh runs independent of the probe outcome: a connection
	// with failing pings must still re-issue the state query or the
	// server drops it from the push list
	l.mu.Lock()
	idle := time.Since(l.lastContent)
	l.mu.Unlock()

	if idle > l.cfg.IdleRefresh {
		l.refreshState(ctx, trace)
	}
	return false
}

// probeWithRetry is the fast path: up to RetryCount attempts, each raced
// against ProbeTimeout, with RetryDelay between. The last error wins.
func (l *Loop) probeWithRetry(ctx context.Context, trace string) error {
	var last error
	for attempt := 1; attempt <= l.cfg.RetryCount; attempt++ {
		last = l.probe(ctx, trace, l.cfg.ProbeTimeout)
		if last == nil {
			return nil
		}
		l.log.Debug().Str("trace", trace).Int("attempt", attempt).Err(last).Msg("probe attempt failed")

		if attempt < l.cfg.RetryCount {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.cfg.RetryDelay):
			}
		}
	}
	return last
}

// probeAfterWake handles the suspicious gap after a suspend: a warning
// timer announces disconnected unless the probe beats it, and success
// announces connected.
func (l *Loop) probeAfterWake(ctx context.Context, trace string, gap time.Duration) error {
	l.log.Info().Str("trace", trace).Dur("gap", gap).Msg("long probe gap, assuming wake from suspend")

	// warned closes only after the disconnected announcement has been
	// delivered, so the retraction below cannot overtake it
	warned := make(chan struct{})
	warning := time.AfterFunc(l.cfg.WarningDelay, func() {
		l.syncer.HandleSignal(ctx, models.ConnectionDisconnected)
		close(warned)
	})

	err := l.probe(ctx, trace, l.cfg.WakeTimeout)
	if !warning.Stop() {
		// the warning fired (or is in flight): wait it out, then take it
		// back if the probe succeeded
		<-warned
		if err == nil {
			l.syncer.HandleSignal(ctx, models.ConnectionConnected)
		}
	}
	return err
}

// probe sends one ping_delay_disconnect raced against timeout. A late
// reply after the race is lost is discarded, not cancelled.
func (l *Loop) probe(ctx context.Context, trace string, timeout time.Duration) error {
	pingID := rand.Int63()

	done := make(chan error, 1)
	go func() {
		_, err := l.invoker.Invoke(ctx, &models.PingDelayDisconnectParams{
			PingID:          pingID,
			DisconnectDelay: disconnectDelaySeconds,
		})
		done <- err
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ping probe: %w", err)
		}
		l.log.Debug().Str("trace", trace).Int64("ping_id", pingID).Msg("probe ok")
		return nil
	case <-timer.C:
		return ErrProbeTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleProbeFailure routes the error and decides the loop's fate.
// Returns true when the loop must exit.
func (l *Loop) handleProbeFailure(ctx context.Context, trace string, err error) bool {
	if l.errorHook != nil {
		l.errorHook(err)
	}
	l.log.Warn().Str("trace", trace).Err(err).Msg("probe failed")

	l.mu.Lock()
	l.lastSuccess = time.Now()
	l.mu.Unlock()

	switch {
	case l.transport.IsDestroyed():
		return true
	case l.transport.IsReconnecting():
		return false
	case !l.transport.IsConnected():
		l.log.Info().Msg("transport conclusively disconnected, loop exits")
		return true
	default:
		if rerr := l.transport.Reconnect(ctx); rerr != nil {
			l.log.Error().Str("trace", trace).Err(rerr).Msg("reconnect failed")
		}
		return false
	}
}

// refreshState re-issues the state query so the server keeps the
// connection on its push list. Best-effort.
func (l *Loop) refreshState(ctx context.Context, trace string) {
	l.log.Debug().Str("trace", trace).Msg("idle refresh, resyncing state")
	if err := l.syncer.ResyncState(ctx); err != nil {
		l.log.Debug().Str("trace", trace).Err(err).Msg("idle state resync failed")
		return
	}
	l.mu.Lock()
	l.lastContent = time.Now()
	l.mu.Unlock()
}
