// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// CTR is a thin sequential keystream cipher over AES-256 and a 16-byte
// counter block. The keystream is unbounded and consumed in call order, so
// one instance serves exactly one direction of a connection; the peer's
// direction gets its own instance.
type CTR struct {
	stream cipher.Stream
}

// NewCTR constructs a CTR cipher from exactly a 32-byte key and a 16-byte
// nonce/counter block.
func NewCTR(key, iv []byte) (*CTR, error) {
	if len(key) != 32 {
		return nil, ErrKeySize
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: ctr needs 16 bytes, got %d", ErrIVSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create aes block cipher: %w", err)
	}

	return &CTR{stream: cipher.NewCTR(block, iv)}, nil
}

// Encrypt XORs src with the next len(src) keystream bytes.
func (c *CTR) Encrypt(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	c.stream.XORKeyStream(out, src)
	return out, nil
}

// Decrypt is identical to Encrypt: CTR is symmetric, and the instance's
// keystream position advances with every call regardless of direction.
func (c *CTR) Decrypt(src []byte) ([]byte, error) {
	return c.Encrypt(src)
}
