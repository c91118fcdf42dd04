// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// tlview parses a TL schema file and prints every definition with its
// constructor id. Useful for eyeballing which ids a schema change
// produces before wiring new objects into the codec.
//
// Usage:
//
//	tlview [-functions] [-constructors] path/to/schema.tl
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/internal/tl"
)

func main() {
	functionsOnly := flag.Bool("functions", false, "print only functions (RPC methods)")
	constructorsOnly := flag.Bool("constructors", false, "print only constructors (data variants)")
	flag.Parse()

	log := logger.NewLogger("tlview")

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tlview [-functions] [-constructors] <schema.tl>")
		os.Exit(2)
	}
	if *functionsOnly && *constructorsOnly {
		fmt.Fprintln(os.Stderr, "tlview: -functions and -constructors are mutually exclusive")
		os.Exit(2)
	}

	path := flag.Arg(0)
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("read schema file")
	}

	defs, err := tl.Parse(string(raw))
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("parse schema")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tKIND\tRESULT")
	printed := 0
	for _, def := range defs {
		if *functionsOnly && !def.IsFunction {
			continue
		}
		if *constructorsOnly && def.IsFunction {
			continue
		}
		kind := "constructor"
		if def.IsFunction {
			kind = "function"
		}
		fmt.Fprintf(w, "%s\t#%08x\t%s\t%s\n", def.FullName(), def.ID, kind, def.Result)
		printed++
	}
	if err := w.Flush(); err != nil {
		log.Fatal().Err(err).Msg("write table")
	}

	fmt.Printf("%d of %d definitions\n", printed, len(defs))
}
