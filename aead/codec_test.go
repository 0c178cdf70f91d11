package aead_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/gonfff/safex"
	"github.com/gonfff/safex/aead"
)

func testExportKey(t *testing.T) []byte {
	t.Helper()

	key := make([]byte, safex.ExportKeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("drawing a test export key: %v", err)
	}

	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testExportKey(t)
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	payload, err := aead.Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	got, err := aead.Decrypt(key, payload)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Fatalf("Decrypt = %q, want %q", got, plaintext)
	}
}

func TestEncryptProducesFreshNoncePerCall(t *testing.T) {
	key := testExportKey(t)
	plaintext := []byte("same plaintext, twice")

	a, err := aead.Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	b, err := aead.Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if bytes.Equal(a, b) {
		t.Fatal("two encryptions of the same plaintext produced identical payloads")
	}
}

func TestEncryptRejectsEmptyExportKey(t *testing.T) {
	if _, err := aead.Encrypt(nil, []byte("data")); !errors.Is(err, safex.ErrInvalidInput) {
		t.Fatalf("Encrypt with empty export key: got %v, want ErrInvalidInput", err)
	}
}

func TestDecryptRejectsShortPayload(t *testing.T) {
	key := testExportKey(t)

	if _, err := aead.Decrypt(key, []byte("short")); !errors.Is(err, safex.ErrInvalidInput) {
		t.Fatalf("Decrypt with short payload: got %v, want ErrInvalidInput", err)
	}
}

func TestDecryptFailsOnModifiedCiphertext(t *testing.T) {
	key := testExportKey(t)

	payload, err := aead.Encrypt(key, []byte("tamper with me"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	payload[len(payload)-1] ^= 0xFF

	if _, err := aead.Decrypt(key, payload); !errors.Is(err, safex.ErrCryptoFailure) {
		t.Fatalf("Decrypt of tampered payload: got %v, want ErrCryptoFailure", err)
	}
}

func TestDecryptFailsWithWrongExportKey(t *testing.T) {
	payload, err := aead.Encrypt(testExportKey(t), []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := aead.Decrypt(testExportKey(t), payload); !errors.Is(err, safex.ErrCryptoFailure) {
		t.Fatalf("Decrypt with wrong export key: got %v, want ErrCryptoFailure", err)
	}
}
