// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tl

// Int128 is a fixed-width 128-bit protocol integer, stored as raw
// little-endian two's-complement bytes.
type Int128 [16]byte

// Int256 is a fixed-width 256-bit protocol integer, stored as raw
// little-endian two's-complement bytes.
type Int256 [32]byte

// Object is a schema-driven runtime value: one instance of a Definition's
// shape. Fields are keyed by argument name.
//
// Value types by TL type:
//
//	int            int32
//	long           int64
//	double         float64
//	int128/int256  Int128 / Int256
//	string         string
//	bytes          []byte
//	Bool, true     bool
//	Vector<T>      []any
//	anything else  *Object
//
// Optional (flag-gated) fields are simply absent from the map when not
// supplied.
type Object struct {
	// Name is the namespace-qualified definition name ("updates.state").
	Name string

	Fields map[string]any
}

// NewObject constructs an Object for the named definition.
func NewObject(name string, fields map[string]any) *Object {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Object{Name: name, Fields: fields}
}

// Get returns the named field value and whether it is present.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.Fields[name]
	return v, ok
}

// Int returns the named field as int32 (zero when absent or mistyped).
func (o *Object) Int(name string) int32 {
	v, _ := o.Fields[name].(int32)
	return v
}

// Long returns the named field as int64 (zero when absent or mistyped).
func (o *Object) Long(name string) int64 {
	v, _ := o.Fields[name].(int64)
	return v
}

// Str returns the named field as string (empty when absent or mistyped).
func (o *Object) Str(name string) string {
	v, _ := o.Fields[name].(string)
	return v
}

// Bool returns the named field as bool (false when absent or mistyped).
func (o *Object) Bool(name string) bool {
	v, _ := o.Fields[name].(bool)
	return v
}
