// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyChain_SealOpenRoundTrip(t *testing.T) {
	kc := NewKeyChain()

	salt, err := kc.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, 16)

	key := kc.DeriveKey("correct horse battery staple", salt)
	require.Len(t, key, 32)

	authKey := []byte("pretend this is a 256-byte auth key")
	blob, err := kc.Seal(authKey, key)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "auth key")

	opened, err := kc.Open(blob, key)
	require.NoError(t, err)
	assert.Equal(t, authKey, opened)
}

func TestKeyChain_WrongPassphraseFails(t *testing.T) {
	kc := NewKeyChain()

	salt, err := kc.GenerateSalt()
	require.NoError(t, err)

	blob, err := kc.Seal([]byte("secret"), kc.DeriveKey("right", salt))
	require.NoError(t, err)

	_, err = kc.Open(blob, kc.DeriveKey("wrong", salt))
	assert.Error(t, err)
}

func TestKeyChain_DeriveKeyIsDeterministic(t *testing.T) {
	kc := NewKeyChain()
	salt := make([]byte, 16)

	assert.Equal(t, kc.DeriveKey("p", salt), kc.DeriveKey("p", salt))
	assert.NotEqual(t, kc.DeriveKey("p", salt), kc.DeriveKey("q", salt))
}

func TestKeyChain_OpenRejectsShortBlob(t *testing.T) {
	kc := NewKeyChain()
	key := kc.DeriveKey("p", make([]byte, 16))

	_, err := kc.Open([]byte{0x01, 0x02}, key)
	assert.Error(t, err)
}
