// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tl

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-mtproto-client/internal/checksum"
)

var (
	defRe    = regexp.MustCompile(`^([\w.]+)(?:#([0-9a-fA-F]+))?(?:\s\{?\w+:[\w\d<>#.?!]+\}?)*\s=\s([\w\d<>#.?]+);$`)
	argRe    = regexp.MustCompile(`(\{)?(\w+):([\w\d<>#.?!]+)\}?`)
	flagRe   = regexp.MustCompile(`^flags(\d*)\.(\d+)\?(.+)$`)
	vectorRe = regexp.MustCompile(`^[Vv]ector<(.+)>$`)
)

var (
	// coreTypeIDs are structural schema entries (booleans, the vector
	// pseudo-type, null) that are dropped from the parsed output: the codec
	// handles them natively and they are not user-addressable types.
	coreTypeIDs = map[uint32]struct{}{
		0xbc799737: {}, // boolFalse
		0x997275b5: {}, // boolTrue
		0x3fedd339: {}, // true
		0x1cb5c415: {}, // vector
		0x56730bcc: {}, // null
	}

	// authKeyIDs are the auth-key exchange constructors whose string-typed
	// fields must be treated as opaque byte sequences: the handshake
	// operates on raw big-endian numbers, not decodable text.
	authKeyIDs = map[uint32]struct{}{
		0x05162463: {}, // resPQ
		0x83c95aec: {}, // p_q_inner_data
		0xa9f55f95: {}, // p_q_inner_data_dc
		0x3c6a84d4: {}, // p_q_inner_data_temp
		0x56fddf88: {}, // p_q_inner_data_temp_dc
		0xd0e8075c: {}, // server_DH_params_ok
		0xb5890dba: {}, // server_DH_inner_data
		0x6643b654: {}, // client_DH_inner_data
		0xd712e4be: {}, // req_DH_params
		0xf5045f1f: {}, // set_client_DH_params
		0x3072cfa1: {}, // gzip_packed
	}
)

// Parse parses TL schema text into an ordered sequence of definitions.
//
// Lines are processed one at a time: "//" comments are stripped, blank
// lines are skipped, and the "---functions---" / "---types---" markers
// toggle whether subsequent definitions are RPC functions or constructors.
// A malformed definition aborts parsing with a *SchemaError carrying the
// offending line. The core "vector#1cb5c415" pseudo-definition is the one
// line that is expected to fail and is silently ignored instead.
func Parse(schema string) ([]*Definition, error) {
	var defs []*Definition

	isFunction := false
	for _, raw := range strings.Split(schema, "\n") {
		line := raw
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "---functions---":
			isFunction = true
			continue
		case "---types---":
			isFunction = false
			continue
		}

		def, err := parseDefinition(line, isFunction)
		if err != nil {
			if strings.HasPrefix(line, "vector#") {
				continue
			}
			return nil, err
		}
		defs = append(defs, def)
	}

	return postProcess(defs), nil
}

// parseDefinition parses a single "name[#hexid] (field:type)* = Result;"
// line into a Definition.
func parseDefinition(line string, isFunction bool) (*Definition, error) {
	m := defRe.FindStringSubmatch(line)
	if m == nil {
		return nil, &SchemaError{Line: line}
	}
	fullName, hexID, result := m[1], m[2], m[3]

	namespace, name := "", fullName
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		namespace, name = fullName[:i], fullName[i+1:]
	}

	def := &Definition{
		Name:         camelCase(name),
		Namespace:    namespace,
		Result:       result,
		SubclassOfID: subclassID(result),
		IsFunction:   isFunction,
		Args:         make(map[string]*ArgConfig),
	}

	// reprArgs collects field names that leave a textual trace in the
	// canonical representation used for id derivation.
	var reprArgs []string

	body := line[len(fullName):]
	if i := strings.LastIndex(body, "="); i >= 0 {
		body = body[:i]
	}
	for _, am := range argRe.FindAllStringSubmatch(body, -1) {
		braced := am[1] == "{"
		if braced {
			// {X:Type} generic placeholders carry no storage.
			continue
		}

		argName, typeStr := am[2], am[3]
		if argName == "self" {
			argName = "is_self"
		}

		cfg := buildArgConfig(typeStr)
		def.ArgNames = append(def.ArgNames, argName)
		def.Args[argName] = cfg

		// Boolean-via-presence flags ("x:flags.3?true") contribute no
		// trace to the canonical representation.
		if cfg.IsFlag && cfg.Type == "true" {
			continue
		}
		reprArgs = append(reprArgs, argName)
	}

	if hexID != "" {
		v, err := strconv.ParseUint(hexID, 16, 32)
		if err != nil {
			return nil, &SchemaError{Line: line}
		}
		def.ID = uint32(v)
	} else {
		def.ID = deriveID(fullName, reprArgs, result)
	}

	return def, nil
}

// buildArgConfig turns a raw schema type expression into an ArgConfig,
// peeling the layers in order: the '#' flag indicator, '!' generic
// references, the "flagsN.K?Type" optional gate, and Vector wrappers.
func buildArgConfig(typeStr string) *ArgConfig {
	cfg := &ArgConfig{}

	if typeStr == "#" {
		cfg.FlagIndicator = true
		return cfg
	}

	for strings.HasPrefix(typeStr, "!") {
		typeStr = typeStr[1:]
	}

	if fm := flagRe.FindStringSubmatch(typeStr); fm != nil {
		cfg.IsFlag = true
		cfg.FlagName = "flags" + fm[1]
		cfg.FlagIndex, _ = strconv.Atoi(fm[2])
		typeStr = fm[3]
	}

	if vm := vectorRe.FindStringSubmatch(typeStr); vm != nil {
		cfg.IsVector = true
		cfg.UseVectorID = typeStr[0] == 'V'
		typeStr = vm[1]
	}

	cfg.Type = typeStr

	last := typeStr
	if i := strings.LastIndex(typeStr, "."); i >= 0 {
		last = typeStr[i+1:]
	}
	if last != "" && unicode.IsLower(rune(last[0])) {
		cfg.SkipConstructorID = true
	}

	return cfg
}

// deriveID computes the implicit constructor id: CRC32 of the canonical
// representation "name field1 field2 ... = Result" after the textual
// normalizations the reference derivation applies (the bytes alias is
// erased, angle brackets and braces are stripped).
func deriveID(fullName string, reprArgs []string, result string) uint32 {
	repr := fullName
	if len(reprArgs) > 0 {
		repr += " " + strings.Join(reprArgs, " ")
	}
	repr += " = " + result

	repr = strings.ReplaceAll(repr, ":bytes ", ":string ")
	repr = strings.ReplaceAll(repr, "?bytes ", "?string ")
	repr = strings.NewReplacer("<", " ", ">", "", "{", "", "}", "").Replace(repr)

	return checksum.SumString(repr)
}

// postProcess applies the two fixed id-keyed patch lists: core structural
// entries are dropped, and auth-key exchange constructors have their
// string fields retyped to raw bytes.
func postProcess(defs []*Definition) []*Definition {
	out := make([]*Definition, 0, len(defs))
	for _, def := range defs {
		if _, core := coreTypeIDs[def.ID]; core {
			continue
		}
		if _, auth := authKeyIDs[def.ID]; auth {
			for _, name := range def.ArgNames {
				if arg := def.Args[name]; arg.Type == "string" {
					arg.Type = "bytes"
				}
			}
		}
		out = append(out, def)
	}
	return out
}
