// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// client engine. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application identity settings sent during session
	// initialization.
	App App `envPrefix:"APP_"`

	// Transport holds the datacenter address and request timeout.
	Transport Transport `envPrefix:"TRANSPORT_"`

	// Session holds the local session database settings.
	Session Session `envPrefix:"SESSION_"`

	// Keepalive holds the liveness loop's timing knobs.
	Keepalive Keepalive `envPrefix:"KEEPALIVE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged after environment
	// variables and flags. Populated via the CONFIG environment variable
	// or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds the application identity the server associates with the
// session.
type App struct {
	// APIID is the application identifier issued with API access.
	// Env: APP_API_ID
	APIID int `env:"API_ID"`

	// DeviceModel is the device string reported at session init.
	// Env: APP_DEVICE_MODEL
	DeviceModel string `env:"DEVICE_MODEL"`

	// SystemVersion is the OS version string reported at session init.
	// Env: APP_SYSTEM_VERSION
	SystemVersion string `env:"SYSTEM_VERSION"`

	// AppVersion is the semantic version of the running application.
	// Env: APP_VERSION
	AppVersion string `env:"VERSION"`

	// LangCode is the ISO 639-1 language code for server-side strings.
	// Env: APP_LANG_CODE
	LangCode string `env:"LANG_CODE"`
}

// Transport holds network settings for the outbound connection.
type Transport struct {
	// Address is the datacenter TCP address in "host:port" format.
	// Env: TRANSPORT_ADDRESS
	Address string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single RPC
	// before the client gives up on its reply (e.g. "30s", "1m").
	// Env: TRANSPORT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Session holds settings for the local SQLite session database.
type Session struct {
	// DBPath is the path of the SQLite file holding entities, sync state
	// and the encrypted session.
	// Env: SESSION_DB_PATH
	DBPath string `env:"DB_PATH"`

	// Passphrase protects the auth key at rest. Must be kept confidential.
	// Env: SESSION_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`
}

// Keepalive holds the timing knobs of the liveness loop. Zero fields fall
// back to the loop's built-in defaults.
type Keepalive struct {
	// PingInterval is the tick period between liveness probes.
	// Env: KEEPALIVE_PING_INTERVAL
	PingInterval time.Duration `env:"PING_INTERVAL"`

	// ProbeTimeout bounds one probe attempt.
	// Env: KEEPALIVE_PROBE_TIMEOUT
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT"`

	// RetryCount is the number of probe attempts before the failure path.
	// Env: KEEPALIVE_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`

	// RetryDelay is the pause between probe attempts.
	// Env: KEEPALIVE_RETRY_DELAY
	RetryDelay time.Duration `env:"RETRY_DELAY"`

	// WakeThreshold is the probe gap beyond which the process is assumed
	// to have been suspended.
	// Env: KEEPALIVE_WAKE_THRESHOLD
	WakeThreshold time.Duration `env:"WAKE_THRESHOLD"`

	// IdleRefresh is the silence span after which the client re-issues a
	// state query to stay on the server's push list.
	// Env: KEEPALIVE_IDLE_REFRESH
	IdleRefresh time.Duration `env:"IDLE_REFRESH"`
}

// GetConfig loads, merges, and validates the engine configuration from
// all available sources, earlier sources winning for fields they set:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
