// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyIV(t *testing.T) (key, iv []byte) {
	t.Helper()
	key = make([]byte, 32)
	iv = make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, key)
	require.NoError(t, err)
	_, err = io.ReadFull(rand.Reader, iv)
	require.NoError(t, err)
	return key, iv
}

func TestNewIGE_KeyAndIVSizes(t *testing.T) {
	tests := []struct {
		name    string
		keyLen  int
		ivLen   int
		wantErr error
	}{
		{name: "ok", keyLen: 32, ivLen: 32, wantErr: nil},
		{name: "short key", keyLen: 16, ivLen: 32, wantErr: ErrKeySize},
		{name: "long key", keyLen: 64, ivLen: 32, wantErr: ErrKeySize},
		{name: "short iv", keyLen: 32, ivLen: 16, wantErr: ErrIVSize},
		{name: "empty iv", keyLen: 32, ivLen: 0, wantErr: ErrIVSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIGE(make([]byte, tt.keyLen), make([]byte, tt.ivLen))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIGE_RoundTrip(t *testing.T) {
	key, iv := testKeyIV(t)
	c, err := NewIGE(key, iv)
	require.NoError(t, err)

	for _, size := range []int{0, 1, 15, 16, 17, 64, 1000} {
		plaintext := make([]byte, size)
		_, err := io.ReadFull(rand.Reader, plaintext)
		require.NoError(t, err)

		ciphertext, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		assert.Zero(t, len(ciphertext)%16, "output is block aligned")
		assert.GreaterOrEqual(t, len(ciphertext), size)

		decrypted, err := c.Decrypt(ciphertext)
		require.NoError(t, err)
		// The padding tail is discarded using the independently known length.
		assert.Equal(t, plaintext, decrypted[:size])
	}
}

func TestIGE_FreshChainPerCall(t *testing.T) {
	key, iv := testKeyIV(t)
	c, err := NewIGE(key, iv)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte{0x42}, 48)

	first, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	second, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	assert.Equal(t, first, second,
		"each call restarts the chain from the IV, so equal inputs encrypt equally")
}

func TestIGE_Diffusion(t *testing.T) {
	key, iv := testKeyIV(t)
	c, err := NewIGE(key, iv)
	require.NoError(t, err)

	a := bytes.Repeat([]byte{0x00}, 64)
	b := bytes.Repeat([]byte{0x00}, 64)
	b[16] = 0x01 // diverge in the second block

	ca, err := c.Encrypt(a)
	require.NoError(t, err)
	cb, err := c.Encrypt(b)
	require.NoError(t, err)

	assert.Equal(t, ca[:16], cb[:16], "blocks before the divergence agree")
	assert.NotEqual(t, ca[16:32], cb[16:32])
	assert.NotEqual(t, ca[32:48], cb[32:48],
		"the garble extends to every later block")
	assert.NotEqual(t, ca[48:], cb[48:])
}

func TestIGE_DecryptRejectsMisalignedCiphertext(t *testing.T) {
	key, iv := testKeyIV(t)
	c, err := NewIGE(key, iv)
	require.NoError(t, err)

	for _, size := range []int{1, 15, 17, 33} {
		_, err := c.Decrypt(make([]byte, size))
		assert.True(t, errors.Is(err, ErrNotBlockAligned), "size %d", size)
	}
}

func TestIGE_DistinctIVHalvesMatter(t *testing.T) {
	key, iv := testKeyIV(t)

	swapped := make([]byte, 32)
	copy(swapped, iv[16:])
	copy(swapped[16:], iv[:16])

	c1, err := NewIGE(key, iv)
	require.NoError(t, err)
	c2, err := NewIGE(key, swapped)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte{0x7f}, 32)
	e1, err := c1.Encrypt(plaintext)
	require.NoError(t, err)
	e2, err := c2.Encrypt(plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, e1, e2)
}

func TestNewCipher_ECBRefused(t *testing.T) {
	key, iv := testKeyIV(t)

	_, err := NewCipher(ModeECB, key, iv)
	assert.ErrorIs(t, err, ErrECBRefused)
}

func TestNewCipher_SelectsMode(t *testing.T) {
	key, iv := testKeyIV(t)

	ige, err := NewCipher(ModeIGE, key, iv)
	require.NoError(t, err)
	assert.IsType(t, &IGE{}, ige)

	ctr, err := NewCipher(ModeCTR, key, iv[:16])
	require.NoError(t, err)
	assert.IsType(t, &CTR{}, ctr)
}
