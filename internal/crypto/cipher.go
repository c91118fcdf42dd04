// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto wraps the raw AES block primitive into the two chaining
// modes the protocol requires: IGE for message payloads and CTR for
// auxiliary transport-level encryption. It also provides the keychain used
// to protect the stored auth key at rest.
package crypto

import "errors"

var (
	// ErrKeySize is returned when a cipher key is not exactly 32 bytes.
	ErrKeySize = errors.New("cipher key must be exactly 32 bytes")

	// ErrIVSize is returned when an IV/counter block has the wrong length.
	ErrIVSize = errors.New("cipher iv has the wrong length")

	// ErrNotBlockAligned is a framing error: IGE ciphertext whose length is
	// not a multiple of the block size cannot be decrypted.
	ErrNotBlockAligned = errors.New("ciphertext length is not a multiple of the block size")

	// ErrECBRefused rejects ECB configuration requests: ECB provides no
	// chaining and must never be selected for message confidentiality.
	ErrECBRefused = errors.New("ecb mode is refused: no chaining")
)

// Mode selects a chaining mode at construction time.
type Mode int

const (
	ModeIGE Mode = iota
	ModeCTR
	ModeECB
)

// Cipher is the common surface of the chaining modes. A CTR instance
// consumes one sequential keystream across calls; an IGE instance starts a
// fresh chain from its IV on every call.
type Cipher interface {
	Encrypt(src []byte) ([]byte, error)
	Decrypt(src []byte) ([]byte, error)
}

// NewCipher constructs the requested chaining mode. ECB is refused.
func NewCipher(mode Mode, key, iv []byte) (Cipher, error) {
	switch mode {
	case ModeIGE:
		return NewIGE(key, iv)
	case ModeCTR:
		return NewCTR(key, iv)
	case ModeECB:
		return nil, ErrECBRefused
	default:
		return nil, errors.New("unknown cipher mode")
	}
}
