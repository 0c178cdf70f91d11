package server

import (
	"crypto/rand"
	"crypto/sha512"

	"github.com/bytemare/ecc"
)

// canonicalizeScalar maps an arbitrary-length secret into the canonical
// encoding of a valid scalar in group. It first tries to decode raw
// directly; most operator-supplied secrets are not valid scalars, so it
// then repeatedly hashes raw with SHA-512 until a candidate decodes. The
// mapping is deterministic: the same raw input always yields the same
// scalar, which lets a deployment rotate processes without rotating keys.
func canonicalizeScalar(group ecc.Group, raw []byte) []byte {
	if s := group.NewScalar(); s.Decode(raw) == nil {
		return s.Encode()
	}

	seed := sum512(raw)
	scalarLen := group.ScalarLength()

	for {
		for len(seed) < scalarLen {
			seed = sum512(seed)
		}

		s := group.NewScalar()
		if err := s.Decode(seed[:scalarLen]); err == nil {
			return s.Encode()
		}

		seed = sum512(seed)
	}
}

// randomFakeScalar draws a uniformly random scalar independent of any
// operator-supplied key. ServerSetup calls this exactly once, at
// construction, to fix the key material used to answer login attempts
// against accounts that were never registered.
func randomFakeScalar(group ecc.Group) []byte {
	candidate := make([]byte, group.ScalarLength())

	for {
		if _, err := rand.Read(candidate); err != nil {
			panic("safex/server: system RNG unavailable: " + err.Error())
		}

		s := group.NewScalar()
		if err := s.Decode(candidate); err == nil {
			return s.Encode()
		}
	}
}

func sum512(b []byte) []byte {
	sum := sha512.Sum512(b)
	return sum[:]
}
