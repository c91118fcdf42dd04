// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tl

import (
	"encoding/binary"
	"math"
)

// decoder walks one frame, tracking the read position.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) remaining() int { return len(d.data) - d.pos }

func (d *decoder) readUint32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) readInt32() (int32, error) {
	v, err := d.readUint32()
	return int32(v), err
}

func (d *decoder) readInt64() (int64, error) {
	if d.remaining() < 8 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return int64(v), nil
}

func (d *decoder) readDouble() (float64, error) {
	v, err := d.readInt64()
	return math.Float64frombits(uint64(v)), err
}

func (d *decoder) readRaw(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, ErrUnexpectedEOF
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// readBytes reads a TL padded byte string (inverse of encoder.writeBytes).
func (d *decoder) readBytes() ([]byte, error) {
	first, err := d.readRaw(1)
	if err != nil {
		return nil, err
	}

	var length, header int
	switch {
	case first[0] < 0xfe:
		length = int(first[0])
		header = 1
	case first[0] == 0xfe:
		lenBytes, err := d.readRaw(3)
		if err != nil {
			return nil, err
		}
		length = int(lenBytes[0]) | int(lenBytes[1])<<8 | int(lenBytes[2])<<16
		header = 4
	default:
		// 0xff is not a defined length marker
		return nil, &FramingError{Reason: "invalid string length marker 0xff"}
	}

	payload, err := d.readRaw(length)
	if err != nil {
		return nil, err
	}
	if pad := (4 - (header+length)%4) % 4; pad > 0 {
		if _, err := d.readRaw(pad); err != nil {
			return nil, err
		}
	}

	out := make([]byte, length)
	copy(out, payload)
	return out, nil
}

// Decode deserializes the object at the start of frame, using the
// constructor id read from the stream to select which definition's shape
// to apply. Trailing bytes beyond the object are ignored (encrypted
// frames carry random padding). An unrecognized id yields a *FramingError.
func (c *Codec) Decode(frame []byte) (*Object, error) {
	d := &decoder{data: frame}
	return c.decodeBoxed(d)
}

func (c *Codec) decodeBoxed(d *decoder) (*Object, error) {
	id, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	if id == VectorID {
		return c.decodeBoxedVector(d)
	}
	def, ok := c.byID[id]
	if !ok {
		return nil, &FramingError{ConstructorID: id}
	}
	return c.decodeFields(d, def)
}

// decodeBoxedVector handles a Vector<Object> appearing in boxed position,
// which happens when an RPC result type is itself a vector. Elements are
// boxed objects; their shapes come from their own constructor ids. The
// result is a synthetic "vector" object holding the elements.
func (c *Codec) decodeBoxedVector(d *decoder) (*Object, error) {
	count, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if count < 0 || int(count) > d.remaining() {
		return nil, &FramingError{Reason: "implausible vector length"}
	}

	items := make([]any, 0, count)
	for i := int32(0); i < count; i++ {
		item, err := c.decodeBoxed(d)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return NewObject("vector", map[string]any{"elements": items}), nil
}

func (c *Codec) decodeFields(d *decoder, def *Definition) (*Object, error) {
	obj := NewObject(def.FullName(), nil)

	flags := make(map[string]uint32)
	for _, name := range def.ArgNames {
		arg := def.Args[name]

		if arg.FlagIndicator {
			v, err := d.readUint32()
			if err != nil {
				return nil, err
			}
			flags[name] = v
			continue
		}

		if arg.IsFlag {
			set := flags[arg.FlagName]&(1<<uint(arg.FlagIndex)) != 0
			if arg.Type == "true" {
				if set {
					obj.Fields[name] = true
				}
				continue
			}
			if !set {
				continue
			}
		}

		val, err := c.decodeArg(d, arg)
		if err != nil {
			return nil, err
		}
		obj.Fields[name] = val
	}

	return obj, nil
}

func (c *Codec) decodeArg(d *decoder, arg *ArgConfig) (any, error) {
	if !arg.IsVector {
		return c.decodeValue(d, arg)
	}

	if arg.UseVectorID {
		id, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		if id != VectorID {
			return nil, &FramingError{ConstructorID: id, Reason: "expected vector id"}
		}
	}
	count, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if count < 0 || int(count) > d.remaining() {
		return nil, &FramingError{Reason: "implausible vector length"}
	}

	items := make([]any, 0, count)
	for i := int32(0); i < count; i++ {
		item, err := c.decodeValue(d, arg)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Codec) decodeValue(d *decoder, arg *ArgConfig) (any, error) {
	switch arg.Type {
	case "int", "date":
		return d.readInt32()
	case "long":
		return d.readInt64()
	case "double":
		return d.readDouble()
	case "int128":
		b, err := d.readRaw(16)
		if err != nil {
			return nil, err
		}
		var v Int128
		copy(v[:], b)
		return v, nil
	case "int256":
		b, err := d.readRaw(32)
		if err != nil {
			return nil, err
		}
		var v Int256
		copy(v[:], b)
		return v, nil
	case "string":
		b, err := d.readBytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case "bytes":
		return d.readBytes()
	case "Bool":
		id, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		switch id {
		case idBoolTrue:
			return true, nil
		case idBoolFalse:
			return false, nil
		default:
			return nil, &FramingError{ConstructorID: id, Reason: "expected Bool"}
		}
	case "true":
		return true, nil
	default:
		if arg.SkipConstructorID {
			return nil, &FramingError{Reason: "cannot decode bare type " + arg.Type}
		}
		return c.decodeBoxed(d)
	}
}
