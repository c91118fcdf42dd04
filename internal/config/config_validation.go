// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"
	"time"
)

// validate checks that the final merged [StructuredConfig] satisfies the
// engine's invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Transport.Address != "" && !strings.Contains(cfg.Transport.Address, ":") {
		return ErrInvalidTransportConfigs
	}
	if cfg.Transport.RequestTimeout <= 0 {
		return ErrInvalidTransportConfigs
	}

	if cfg.Session.DBPath == "" {
		return ErrInvalidSessionConfigs
	}

	if cfg.Keepalive.RetryCount < 0 {
		return ErrInvalidKeepaliveConfigs
	}
	for _, d := range []time.Duration{
		cfg.Keepalive.PingInterval,
		cfg.Keepalive.ProbeTimeout,
		cfg.Keepalive.RetryDelay,
		cfg.Keepalive.WakeThreshold,
		cfg.Keepalive.IdleRefresh,
	} {
		if d < 0 {
			return ErrInvalidKeepaliveConfigs
		}
	}

	return nil
}
