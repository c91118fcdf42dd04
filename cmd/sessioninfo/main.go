// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// sessioninfo inspects a local session database: the stored connection
// session and the persisted update-sync cursor. Configuration follows
// the engine's usual sources (environment, flags, optional JSON file),
// so `sessioninfo -d path/to/session.db` works against any session file.
//
// The auth key stays sealed unless SESSION_PASSPHRASE is set; with the
// wrong passphrase the tool reports the unseal failure instead of key
// material.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-mtproto-client/internal/config"
	"github.com/MKhiriev/go-mtproto-client/internal/crypto"
	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/internal/session"
)

func main() {
	log := logger.NewLogger("sessioninfo")

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()
	store, err := session.NewStore(ctx, cfg.Session.DBPath, crypto.NewKeyChain(), cfg.Session.Passphrase, log)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.Session.DBPath).Msg("open session database")
	}
	defer store.Close()

	fmt.Printf("database: %s\n", cfg.Session.DBPath)

	sess, err := store.LoadSession(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		fmt.Println("session:  none stored")
	case err != nil:
		fmt.Printf("session:  unavailable (%v)\n", err)
	default:
		fmt.Printf("session:  %s\n", sess.ID)
		fmt.Printf("  dc:      %d (%s)\n", sess.DC, sess.Addr)
		fmt.Printf("  created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("  authkey: %d bytes (unsealed ok)\n", len(sess.AuthKey))
	}

	st, err := store.LoadState(ctx)
	switch {
	case err != nil:
		log.Fatal().Err(err).Msg("load sync state")
	case st == nil:
		fmt.Println("cursor:   none stored")
	default:
		fmt.Printf("cursor:   pts=%d qts=%d seq=%d date=%d\n", st.Pts, st.Qts, st.Seq, st.Date)
	}
}
