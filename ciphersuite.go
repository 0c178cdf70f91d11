package safex

import (
	"crypto"

	"github.com/bytemare/ksf"
	"github.com/bytemare/opaque"
)

// ExportKeySize is the length in bytes of the export key produced by a
// completed registration or login, fixed by the choice of SHA-512 as the
// suite's Hash function.
const ExportKeySize = 64

// Configuration returns the single, fixed OPAQUE cipher suite used
// throughout safex: Ristretto255 for both the OPRF and AKE groups, 3DH as
// the key exchange, Argon2id as the key-stretching function, and SHA-512
// everywhere a hash, KDF, or MAC is required. safex is deliberately
// single-suite: deployments that need a different suite, or suite
// negotiation, are out of scope.
func Configuration() *opaque.Configuration {
	return &opaque.Configuration{
		OPRF: opaque.RistrettoSha512,
		AKE:  opaque.RistrettoSha512,
		KSF:  ksf.Argon2id,
		KDF:  crypto.SHA512,
		MAC:  crypto.SHA512,
		Hash: crypto.SHA512,
	}
}
