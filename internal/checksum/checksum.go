// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package checksum implements the CRC32 function used to derive stable
// 32-bit TL constructor identifiers.
//
// The checksum is the reflected IEEE 802.3 polynomial (0xEDB88320) with the
// standard init value and final XOR of 0xFFFFFFFF — i.e. the same CRC32
// every TL implementation agrees on. A constructor id derived here must be
// byte-for-byte identical to the reference derivation or a live server will
// reject frames as unrecognized.
package checksum

import (
	"hash/crc32"
	"sync"
)

var (
	tableOnce sync.Once
	table     *crc32.Table
)

// ieeeTable returns the 256-entry lookup table, built once per process and
// shared immutably afterwards.
func ieeeTable() *crc32.Table {
	tableOnce.Do(func() {
		table = crc32.MakeTable(crc32.IEEE)
	})
	return table
}

// Sum returns the CRC32 checksum of p.
func Sum(p []byte) uint32 {
	return crc32.Checksum(p, ieeeTable())
}

// SumString returns the CRC32 checksum of the UTF-8 bytes of s.
func SumString(s string) uint32 {
	return Sum([]byte(s))
}
