// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tl

import "fmt"

// Codec holds a parsed schema indexed for encoding and decoding.
type Codec struct {
	defs   []*Definition
	byID   map[uint32]*Definition
	byName map[string]*Definition
}

// NewCodec indexes defs by constructor id and by full name. Duplicate
// constructor ids indicate a corrupt schema and are rejected.
func NewCodec(defs []*Definition) (*Codec, error) {
	c := &Codec{
		defs:   defs,
		byID:   make(map[uint32]*Definition, len(defs)),
		byName: make(map[string]*Definition, len(defs)),
	}
	for _, def := range defs {
		if prev, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate constructor id 0x%08x: %s and %s",
				def.ID, prev.FullName(), def.FullName())
		}
		c.byID[def.ID] = def
		c.byName[def.FullName()] = def
	}
	return c, nil
}

// NewCodecFromSchema parses schema text and indexes the result.
func NewCodecFromSchema(schema string) (*Codec, error) {
	defs, err := Parse(schema)
	if err != nil {
		return nil, err
	}
	return NewCodec(defs)
}

// Definitions returns the parsed definitions in schema order.
func (c *Codec) Definitions() []*Definition { return c.defs }

// DefinitionByID returns the definition for a constructor id.
func (c *Codec) DefinitionByID(id uint32) (*Definition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// DefinitionByName returns the definition for a full name
// ("updates.getDifference").
func (c *Codec) DefinitionByName(name string) (*Definition, bool) {
	def, ok := c.byName[name]
	return def, ok
}
