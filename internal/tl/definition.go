// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tl implements the TL schema codec: it parses textual TL
// definitions into typed [Definition] values and provides the binary
// encoder/decoder driven by them.
//
// The codec is fully schema-driven. It never requires generated code — a
// parsed []*Definition is enough to encode and decode any object the
// schema describes.
package tl

import (
	"strings"

	"github.com/MKhiriev/go-mtproto-client/internal/checksum"
)

// VectorID is the constructor id prefixed to boxed Vector<T> payloads.
const VectorID uint32 = 0x1cb5c415

// Definition describes one parsed TL schema entry: either a constructor
// (data variant) or a function (RPC method).
type Definition struct {
	// Name is the camel-cased local name of the definition
	// (schema "ping_delay_disconnect" becomes "pingDelayDisconnect").
	Name string

	// Namespace is the optional dotted prefix ("updates" in
	// "updates.getDifference"). Empty for top-level definitions.
	Namespace string

	// ID is the 32-bit constructor id, either explicit in the schema text
	// after '#' or derived via CRC32 of the canonical representation.
	ID uint32

	// Result is the logical type the definition produces or belongs to,
	// possibly "Vector<T>". Definitions sharing a Result form one
	// polymorphic union keyed by that name.
	Result string

	// SubclassOfID is the CRC32 checksum of Result, identifying the union.
	SubclassOfID uint32

	// IsFunction is true for RPC methods, false for constructors.
	IsFunction bool

	// ArgNames holds argument names in declaration order.
	ArgNames []string

	// Args maps argument name to its encoding rule.
	Args map[string]*ArgConfig
}

// ArgConfig is the encoding rule for a single argument.
type ArgConfig struct {
	// Type is the base TL type name. Empty for the flag-indicator field.
	Type string

	// IsVector marks Vector<T>/vector<T> arguments.
	IsVector bool

	// UseVectorID selects whether the serialized vector carries the
	// VectorID prefix: true for boxed "Vector<T>", false for bare
	// "vector<T>".
	UseVectorID bool

	// IsFlag marks arguments whose presence is gated by a bit of a named
	// flags bitmask.
	IsFlag    bool
	FlagName  string
	FlagIndex int

	// SkipConstructorID is true for bare/primitive types that encode only
	// their raw value, with no embedded constructor id.
	SkipConstructorID bool

	// FlagIndicator is true only for the synthetic '#' bitmask field. It
	// carries no value of its own; its bits are reconstructed at encode
	// time from which optional siblings are present.
	FlagIndicator bool
}

// FullName returns the namespace-qualified name ("updates.getDifference"),
// or the bare name when there is no namespace.
func (d *Definition) FullName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// Arg returns the configuration of the named argument, or nil.
func (d *Definition) Arg(name string) *ArgConfig {
	return d.Args[name]
}

// camelCase converts schema snake_case identifiers to camelCase
// ("ping_delay_disconnect" -> "pingDelayDisconnect"). Identifiers without
// underscores pass through unchanged.
func camelCase(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// subclassID computes the polymorphic-union id for a result type name.
// Angle brackets are erased so "Vector<int>" and "Vector int" agree.
func subclassID(result string) uint32 {
	normalized := strings.NewReplacer("<", " ", ">", "").Replace(result)
	return checksum.SumString(normalized)
}
