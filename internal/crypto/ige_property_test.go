// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_IGERoundTrip validates that for any key/IV/plaintext,
// decrypt(encrypt(p)) recovers p once the padding tail is discarded.
func TestProperty_IGERoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	byteSlice := func(n int) gopter.Gen {
		return gen.SliceOfN(n, gen.UInt8())
	}

	properties.Property("decrypt inverts encrypt", prop.ForAll(
		func(key, iv, plaintext []byte) bool {
			c, err := NewIGE(key, iv)
			if err != nil {
				return false
			}

			ciphertext, err := c.Encrypt(plaintext)
			if err != nil {
				return false
			}
			decrypted, err := c.Decrypt(ciphertext)
			if err != nil {
				return false
			}
			return bytes.Equal(decrypted[:len(plaintext)], plaintext)
		},
		byteSlice(32),
		byteSlice(32),
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("ciphertext differs from plaintext", prop.ForAll(
		func(key, iv []byte) bool {
			c, err := NewIGE(key, iv)
			if err != nil {
				return false
			}

			plaintext := bytes.Repeat([]byte{0x00}, 32)
			ciphertext, err := c.Encrypt(plaintext)
			if err != nil {
				return false
			}
			return !bytes.Equal(ciphertext, plaintext)
		},
		byteSlice(32),
		byteSlice(32),
	))

	properties.TestingRun(t)
}
