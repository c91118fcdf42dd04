// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Session is the persisted connection identity: which datacenter the
// client talks to and the long-lived auth key. The auth key is stored
// encrypted at rest and only ever decrypted in memory.
type Session struct {
	ID        string
	DC        int
	Addr      string
	AuthKey   []byte
	CreatedAt time.Time
}
