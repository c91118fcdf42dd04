// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCTR_KeyAndIVSizes(t *testing.T) {
	tests := []struct {
		name    string
		keyLen  int
		ivLen   int
		wantErr error
	}{
		{name: "ok", keyLen: 32, ivLen: 16, wantErr: nil},
		{name: "short key", keyLen: 31, ivLen: 16, wantErr: ErrKeySize},
		{name: "aes-128 key refused", keyLen: 16, ivLen: 16, wantErr: ErrKeySize},
		{name: "iv not one block", keyLen: 32, ivLen: 32, wantErr: ErrIVSize},
		{name: "empty iv", keyLen: 32, ivLen: 0, wantErr: ErrIVSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCTR(make([]byte, tt.keyLen), make([]byte, tt.ivLen))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCTR_RoundTripWithPairedInstances(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	iv := bytes.Repeat([]byte{0x22}, 16)

	sender, err := NewCTR(key, iv)
	require.NoError(t, err)
	receiver, err := NewCTR(key, iv)
	require.NoError(t, err)

	// The keystream is sequential: chunks decrypt as long as the receiver
	// consumes them in the order the sender produced them.
	chunks := [][]byte{
		[]byte("first frame"),
		[]byte("second, longer frame with more payload"),
		{},
		[]byte{0x00, 0x01, 0x02},
	}
	for _, chunk := range chunks {
		encrypted, err := sender.Encrypt(chunk)
		require.NoError(t, err)

		decrypted, err := receiver.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, chunk, decrypted)
	}
}

func TestCTR_KeystreamAdvances(t *testing.T) {
	key := bytes.Repeat([]byte{0x33}, 32)
	iv := bytes.Repeat([]byte{0x44}, 16)

	c, err := NewCTR(key, iv)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte{0x55}, 16)
	first, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	second, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, first, second,
		"consecutive calls consume different keystream positions")
}
