// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 443},
			expected: "localhost:443",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "149.154.167.51", Port: 443},
			expected: "149.154.167.51:443",
		},
		{
			name:     "only port no host",
			addr:     NetAddress{Host: "", Port: 443},
			expected: ":443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.addr.String()
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		expected    NetAddress
	}{
		{
			name:     "valid localhost",
			input:    "localhost:443",
			expected: NetAddress{Host: "localhost", Port: 443},
		},
		{
			name:     "valid IP",
			input:    "149.154.167.51:443",
			expected: NetAddress{Host: "149.154.167.51", Port: 443},
		},
		{
			name:        "missing port",
			input:       "localhost",
			expectError: true,
		},
		{
			name:        "non-numeric port",
			input:       "localhost:http",
			expectError: true,
		},
		{
			name:        "zero port",
			input:       "localhost:0",
			expectError: true,
		},
		{
			name:        "bad host",
			input:       "not-an-ip:443",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr)
		})
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-a", "localhost:443",
				"-d", "/var/lib/session.db",
				"-c", "/path/to/config.json",
				"-api-id", "12345",
				"-request-timeout", "30s",
				"-ping-interval", "9s",
				"-idle-refresh", "10m",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "localhost:443", cfg.Transport.Address)
				assert.Equal(t, "/var/lib/session.db", cfg.Session.DBPath)
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
				assert.Equal(t, 12345, cfg.App.APIID)
				assert.Equal(t, 30*time.Second, cfg.Transport.RequestTimeout)
				assert.Equal(t, 9*time.Second, cfg.Keepalive.PingInterval)
				assert.Equal(t, 10*time.Minute, cfg.Keepalive.IdleRefresh)
			},
		},
		{
			name: "config alias flag",
			args: []string{
				"-config", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "partial flags",
			args: []string{
				"-a", "127.0.0.1:443",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "127.0.0.1:443", cfg.Transport.Address)
				assert.Empty(t, cfg.Session.DBPath)
				assert.Zero(t, cfg.App.APIID)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.Transport.Address)
				assert.Empty(t, cfg.Session.DBPath)
				assert.Empty(t, cfg.JSONFilePath)
				assert.Zero(t, cfg.Keepalive.PingInterval)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			oldArgs := os.Args
			os.Args = append([]string{"cmd"}, tt.args...)
			defer func() { os.Args = oldArgs }()

			cfg := ParseFlags()
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}
