// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// encoder accumulates the little-endian binary form of one object.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) writeInt32(v int32) { e.writeUint32(uint32(v)) }

func (e *encoder) writeInt64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	e.buf.Write(b[:])
}

func (e *encoder) writeDouble(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	e.buf.Write(b[:])
}

// writeBytes writes b in TL padded form: a 1-byte length for payloads
// shorter than 254 bytes, otherwise the 0xfe marker followed by a 3-byte
// little-endian length; either way the total is zero-padded to a 4-byte
// boundary.
func (e *encoder) writeBytes(b []byte) {
	var pad int
	if len(b) < 254 {
		e.buf.WriteByte(byte(len(b)))
		e.buf.Write(b)
		pad = (4 - (len(b)+1)%4) % 4
	} else {
		e.buf.WriteByte(0xfe)
		e.buf.WriteByte(byte(len(b)))
		e.buf.WriteByte(byte(len(b) >> 8))
		e.buf.WriteByte(byte(len(b) >> 16))
		e.buf.Write(b)
		pad = (4 - len(b)%4) % 4
	}
	for i := 0; i < pad; i++ {
		e.buf.WriteByte(0)
	}
}

// Encode serializes obj per its definition: the 4-byte little-endian
// constructor id, then every argument in declaration order. Flags
// bitmasks are reconstructed from which optional siblings are present.
func (c *Codec) Encode(obj *Object) ([]byte, error) {
	e := &encoder{}
	if err := c.encodeObject(e, obj, false); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

func (c *Codec) encodeObject(e *encoder, obj *Object, bare bool) error {
	def, ok := c.byName[obj.Name]
	if !ok {
		return fmt.Errorf("encode: unknown definition %q", obj.Name)
	}

	if !bare {
		e.writeUint32(def.ID)
	}

	flags := computeFlags(def, obj)

	for _, name := range def.ArgNames {
		arg := def.Args[name]

		if arg.FlagIndicator {
			e.writeUint32(flags[name])
			continue
		}

		val, present := obj.Fields[name]
		if arg.IsFlag {
			if !present {
				continue
			}
			if arg.Type == "true" {
				// Presence-only: the bit in the flags field is the value.
				continue
			}
		} else if !present {
			return fmt.Errorf("encode %s: missing required field %q", obj.Name, name)
		}

		if err := c.encodeArg(e, obj.Name, name, arg, val); err != nil {
			return err
		}
	}

	return nil
}

// computeFlags builds the bitmask value for every flag-indicator argument
// of def: the OR of 1<<flagIndex over each optional sibling present in obj.
func computeFlags(def *Definition, obj *Object) map[string]uint32 {
	flags := make(map[string]uint32)
	for _, name := range def.ArgNames {
		arg := def.Args[name]
		if !arg.IsFlag {
			continue
		}
		val, present := obj.Fields[name]
		if !present {
			continue
		}
		if arg.Type == "true" {
			if b, ok := val.(bool); !ok || !b {
				continue
			}
		}
		flags[arg.FlagName] |= 1 << uint(arg.FlagIndex)
	}
	return flags
}

func (c *Codec) encodeArg(e *encoder, objName, argName string, arg *ArgConfig, val any) error {
	if !arg.IsVector {
		return c.encodeValue(e, objName, argName, arg, val)
	}

	items, ok := val.([]any)
	if !ok {
		return fmt.Errorf("encode %s.%s: expected []any, got %T", objName, argName, val)
	}
	if arg.UseVectorID {
		e.writeUint32(VectorID)
	}
	e.writeInt32(int32(len(items)))
	for _, item := range items {
		if err := c.encodeValue(e, objName, argName, arg, item); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeValue(e *encoder, objName, argName string, arg *ArgConfig, val any) error {
	mismatch := func(want string) error {
		return fmt.Errorf("encode %s.%s: expected %s, got %T", objName, argName, want, val)
	}

	switch arg.Type {
	case "int", "date":
		v, ok := val.(int32)
		if !ok {
			return mismatch("int32")
		}
		e.writeInt32(v)
	case "long":
		v, ok := val.(int64)
		if !ok {
			return mismatch("int64")
		}
		e.writeInt64(v)
	case "double":
		v, ok := val.(float64)
		if !ok {
			return mismatch("float64")
		}
		e.writeDouble(v)
	case "int128":
		v, ok := val.(Int128)
		if !ok {
			return mismatch("tl.Int128")
		}
		e.buf.Write(v[:])
	case "int256":
		v, ok := val.(Int256)
		if !ok {
			return mismatch("tl.Int256")
		}
		e.buf.Write(v[:])
	case "string":
		v, ok := val.(string)
		if !ok {
			return mismatch("string")
		}
		e.writeBytes([]byte(v))
	case "bytes":
		v, ok := val.([]byte)
		if !ok {
			return mismatch("[]byte")
		}
		e.writeBytes(v)
	case "Bool":
		v, ok := val.(bool)
		if !ok {
			return mismatch("bool")
		}
		if v {
			e.writeUint32(idBoolTrue)
		} else {
			e.writeUint32(idBoolFalse)
		}
	case "true":
		// Presence-only, nothing on the wire.
	default:
		obj, ok := val.(*Object)
		if !ok {
			return mismatch("*tl.Object")
		}
		return c.encodeObject(e, obj, arg.SkipConstructorID)
	}

	return nil
}

const (
	idBoolTrue  uint32 = 0x997275b5
	idBoolFalse uint32 = 0xbc799737
)
