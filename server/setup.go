package server

import (
	"fmt"
	"time"

	"github.com/bytemare/ecc"
	"github.com/bytemare/opaque"

	"github.com/gonfff/safex"
)

// ServerSetup holds a deployment's long-term OPAQUE key material: the
// canonicalized server secret key and its public counterpart, the OPRF
// seed, and a fake secret key drawn once and kept fixed for the lifetime of
// this ServerSetup. The fake key material lets Manager answer a login
// attempt against an unregistered account with a response that is shaped
// exactly like a real one (see FakeRecord), so an attacker cannot use
// response shape to enumerate accounts.
//
// A ServerSetup is immutable after construction and safe for concurrent
// use by any number of Managers.
type ServerSetup struct {
	conf  *opaque.Configuration
	group ecc.Group

	serverIdentity  []byte
	serverSecretKey []byte
	serverPublicKey []byte
	oprfSeed        []byte

	fakeSecretKey []byte
	fakePublicKey []byte

	fakeEnvelopeSize   int
	fakeMaskingKeySize int

	sessionTTL time.Duration
}

// NewServerSetup canonicalizes secretKey into a valid AKE scalar, draws a
// fresh fake scalar, and assembles the server's key material.
//
// serverID is accepted and retained for a future revision that binds it
// into the OPAQUE identifiers used during GenerateKE2; today it is stored
// but otherwise unused, matching the open question left in the original
// design. sessionTTL is clamped to a minimum of one second.
func NewServerSetup(serverID, secretKey, oprfSeed []byte, sessionTTL time.Duration) (*ServerSetup, error) {
	conf := safex.Configuration()
	group := conf.AKE.Group()

	sk := canonicalizeScalar(group, secretKey)
	pk := publicKeyFor(group, sk)

	fakeSK := randomFakeScalar(group)
	fakePK := publicKeyFor(group, fakeSK)

	fakeTemplate, err := conf.GetFakeRecord(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building fake record template: %v", safex.ErrProtocolFailure, err)
	}

	if sessionTTL < time.Second {
		sessionTTL = time.Second
	}

	return &ServerSetup{
		conf:  conf,
		group: group,

		serverIdentity:  append([]byte(nil), serverID...),
		serverSecretKey: sk,
		serverPublicKey: pk,
		oprfSeed:        append([]byte(nil), oprfSeed...),

		fakeSecretKey: fakeSK,
		fakePublicKey: fakePK,

		fakeEnvelopeSize:   len(fakeTemplate.Envelope),
		fakeMaskingKeySize: len(fakeTemplate.MaskingKey),

		sessionTTL: sessionTTL,
	}, nil
}

// ServerPublicKey returns the server's canonical public key, the one a
// client must be configured with out of band before it can log in.
func (s *ServerSetup) ServerPublicKey() []byte {
	return append([]byte(nil), s.serverPublicKey...)
}

func publicKeyFor(group ecc.Group, scalarBytes []byte) []byte {
	s := group.NewScalar()
	if err := s.Decode(scalarBytes); err != nil {
		panic("safex/server: canonical scalar failed to decode: " + err.Error())
	}

	return group.Base().Multiply(s).Encode()
}
