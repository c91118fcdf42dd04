// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// IGE implements the Infinite Garble Extension chaining mode over AES-256.
//
// The 32-byte IV splits into two 16-byte halves: iv1 seeds the "previous
// ciphertext block" chain and iv2 the "previous plaintext block" chain.
// Each Encrypt/Decrypt call is a fresh IGE pass starting from the IV —
// chaining state is never carried across calls.
type IGE struct {
	block cipher.Block
	iv1   [aes.BlockSize]byte
	iv2   [aes.BlockSize]byte
}

// NewIGE constructs an IGE cipher from exactly a 32-byte key and a 32-byte
// IV.
func NewIGE(key, iv []byte) (*IGE, error) {
	if len(key) != 32 {
		return nil, ErrKeySize
	}
	if len(iv) != 2*aes.BlockSize {
		return nil, fmt.Errorf("%w: ige needs 32 bytes, got %d", ErrIVSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create aes block cipher: %w", err)
	}

	c := &IGE{block: block}
	copy(c.iv1[:], iv[:aes.BlockSize])
	copy(c.iv2[:], iv[aes.BlockSize:])
	return c, nil
}

// Encrypt encrypts plaintext with IGE chaining. Input that is not a
// multiple of 16 bytes is right-padded with cryptographically random bytes;
// the caller's framing must independently carry the true payload length,
// since the padding is not self-describing. Output length equals the padded
// input length.
func (c *IGE) Encrypt(plaintext []byte) ([]byte, error) {
	padded := plaintext
	if rem := len(plaintext) % aes.BlockSize; rem != 0 {
		padded = make([]byte, len(plaintext)+aes.BlockSize-rem)
		copy(padded, plaintext)
		if _, err := io.ReadFull(rand.Reader, padded[len(plaintext):]); err != nil {
			return nil, fmt.Errorf("read random padding: %w", err)
		}
	}

	out := make([]byte, len(padded))
	prevCipher := c.iv1
	prevPlain := c.iv2

	var x, enc [aes.BlockSize]byte
	for i := 0; i < len(padded); i += aes.BlockSize {
		in := padded[i : i+aes.BlockSize]

		for j := 0; j < aes.BlockSize; j++ {
			x[j] = in[j] ^ prevCipher[j]
		}
		c.block.Encrypt(enc[:], x[:])
		for j := 0; j < aes.BlockSize; j++ {
			out[i+j] = enc[j] ^ prevPlain[j]
		}

		copy(prevCipher[:], out[i:i+aes.BlockSize])
		copy(prevPlain[:], in)
	}

	return out, nil
}

// Decrypt reverses Encrypt. Ciphertext must be a multiple of 16 bytes or
// ErrNotBlockAligned is returned. Padding bytes appended during encryption
// come back verbatim; the caller discards them using the independently
// known payload length.
func (c *IGE) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotBlockAligned, len(ciphertext))
	}

	out := make([]byte, len(ciphertext))
	prevCipher := c.iv1
	prevPlain := c.iv2

	var x, dec [aes.BlockSize]byte
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		in := ciphertext[i : i+aes.BlockSize]

		for j := 0; j < aes.BlockSize; j++ {
			x[j] = in[j] ^ prevPlain[j]
		}
		c.block.Decrypt(dec[:], x[:])
		for j := 0; j < aes.BlockSize; j++ {
			out[i+j] = dec[j] ^ prevCipher[j]
		}

		copy(prevCipher[:], in)
		copy(prevPlain[:], out[i:i+aes.BlockSize])
	}

	return out, nil
}
