// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint32
	}{
		{name: "empty", in: "", want: 0x00000000},
		{name: "check string", in: "123456789", want: 0xCBF43926},
		{name: "single byte", in: "a", want: 0xE8B7BE43},
		{name: "abc", in: "abc", want: 0x352441C2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SumString(tt.in))
		})
	}
}

func TestSum_TLConstructorDerivation(t *testing.T) {
	// Representation strings hash to the well-known constructor ids from
	// the MTProto core schema.
	tests := []struct {
		repr string
		want uint32
	}{
		{repr: "boolFalse = Bool", want: 0xbc799737},
		{repr: "boolTrue = Bool", want: 0x997275b5},
	}

	for _, tt := range tests {
		t.Run(tt.repr, func(t *testing.T) {
			assert.Equal(t, tt.want, SumString(tt.repr))
		})
	}
}

func TestSum_Deterministic(t *testing.T) {
	b := []byte("updates.getDifference pts date qts = updates.Difference")
	first := Sum(b)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Sum(b))
	}
}
