// Package aead implements the symmetric payload codec safex layers on top
// of an OPAQUE export key: an AES-256-GCM seal whose key is derived from
// the export key via HKDF-SHA-512.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/gonfff/safex"
)

const (
	nonceSize = 12
	keySize   = 32
)

var (
	hkdfSalt = []byte("safex/opaque/export-key")
	hkdfInfo = []byte("safex/aes256-gcm")
)

// Encrypt seals plaintext under a key derived from exportKey, and returns
// nonce || ciphertext || tag. A fresh 12-byte nonce is drawn from the
// system RNG on every call, so encrypting the same plaintext twice never
// produces the same payload.
func Encrypt(exportKey, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(exportKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: drawing nonce: %v", safex.ErrCryptoFailure, err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt reverses Encrypt. It reports safex.ErrInvalidInput if payload is
// shorter than the nonce, and safex.ErrCryptoFailure if authentication
// fails - whether because the export key is wrong or the payload was
// tampered with; the two are indistinguishable by design.
func Decrypt(exportKey, payload []byte) ([]byte, error) {
	if len(payload) < nonceSize {
		return nil, fmt.Errorf("%w: payload too small", safex.ErrInvalidInput)
	}

	gcm, err := newGCM(exportKey)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := payload[:nonceSize], payload[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed: %v", safex.ErrCryptoFailure, err)
	}

	return plaintext, nil
}

func newGCM(exportKey []byte) (cipher.AEAD, error) {
	key, err := deriveKey(exportKey)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: building AES cipher: %v", safex.ErrCryptoFailure, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: building GCM mode: %v", safex.ErrCryptoFailure, err)
	}

	return gcm, nil
}

func deriveKey(exportKey []byte) ([]byte, error) {
	if len(exportKey) == 0 {
		return nil, fmt.Errorf("%w: export key must not be empty", safex.ErrInvalidInput)
	}

	kdf := hkdf.New(sha512.New, exportKey, hkdfSalt, hkdfInfo)

	key := make([]byte, keySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("%w: deriving AES key: %v", safex.ErrCryptoFailure, err)
	}

	return key, nil
}
