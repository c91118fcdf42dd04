// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_mock.go -package=mock

// KeyChain protects the long-lived auth key at rest. The session store
// never sees the passphrase: it derives a key once and stores only sealed
// blobs.
//
// Flow:
//
//	salt = GenerateSalt()
//	key  = DeriveKey(passphrase, salt)
//	blob = Seal(authKey, key)      // persisted
//	authKey = Open(blob, key)      // on session restore
type KeyChain interface {
	// GenerateSalt returns 16 random bytes from the OS CSPRNG. The salt is
	// not secret and is persisted next to the sealed blob.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives a 256-bit key from the passphrase and salt using
	// Argon2id. The key exists only in memory.
	DeriveKey(passphrase string, salt []byte) []byte

	// Seal encrypts plaintext with AES-256-GCM. The random nonce is
	// prepended: blob = nonce || ciphertext.
	Seal(plaintext, key []byte) ([]byte, error)

	// Open reverses Seal. Fails when the blob is too short, tampered with,
	// or the key is wrong.
	Open(blob, key []byte) ([]byte, error)
}
