package server

import (
	"crypto/rand"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bytemare/opaque"
	"github.com/bytemare/opaque/message"

	"github.com/gonfff/safex"
)

// Manager is the server-side OPAQUE engine: it answers registration
// requests statelessly, and carries logins across the start/finish split
// via an internal session ledger keyed by short-lived session ids.
//
// A Manager is safe for concurrent use by any number of goroutines. The
// only state it shares across calls is the session ledger, and that is
// guarded by a single mutex whose hold time is bounded by plain map
// operations; no cryptography or I/O runs while it is held.
type Manager struct {
	setup    *ServerSetup
	sessions *sessionLedger
}

// NewManager returns a Manager bound to setup.
func NewManager(setup *ServerSetup) *Manager {
	return &Manager{setup: setup, sessions: newSessionLedger()}
}

// RegistrationResponse answers a client's registration request for
// secretID. It is stateless: the caller is responsible for persisting the
// record once the client finishes registration and uploads it.
func (m *Manager) RegistrationResponse(secretID, registrationRequest []byte) ([]byte, error) {
	if len(secretID) == 0 {
		return nil, fmt.Errorf("%w: secret id is required", safex.ErrInvalidInput)
	}

	eng, err := opaque.NewServer(m.setup.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: constructing opaque server: %v", safex.ErrProtocolFailure, err)
	}

	req, err := eng.Deserialize.RegistrationRequest(registrationRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding registration request: %v", safex.ErrProtocolFailure, err)
	}

	serverPublicKey := m.setup.group.NewElement()
	if err := serverPublicKey.Decode(m.setup.serverPublicKey); err != nil {
		return nil, fmt.Errorf("%w: decoding server public key: %v", safex.ErrProtocolFailure, err)
	}

	resp := eng.RegistrationResponse(req, serverPublicKey, secretID, m.setup.oprfSeed)

	return resp.Serialize(), nil
}

// FakeRecord produces a well-formed but fabricated registration record for
// an account that was never registered. The calling layer passes its bytes
// to LoginStart in place of a real stored record, so that LoginStart's
// response is indistinguishable, in shape and cost, from a response to a
// genuine account. The underlying fake key pair is fixed for the lifetime
// of the bound ServerSetup; only the masking key is freshly random on every
// call, and the envelope is all zero bytes.
func (m *Manager) FakeRecord(secretID []byte) ([]byte, error) {
	fakePublicKey := m.setup.group.NewElement()
	if err := fakePublicKey.Decode(m.setup.fakePublicKey); err != nil {
		return nil, fmt.Errorf("%w: decoding fake public key: %v", safex.ErrProtocolFailure, err)
	}

	maskingKey := make([]byte, m.setup.fakeMaskingKeySize)
	if _, err := rand.Read(maskingKey); err != nil {
		return nil, fmt.Errorf("%w: drawing fake masking key: %v", safex.ErrCryptoFailure, err)
	}

	record := &message.RegistrationRecord{
		PublicKey:  fakePublicKey,
		MaskingKey: maskingKey,
		Envelope:   make([]byte, m.setup.fakeEnvelopeSize),
	}

	return record.Serialize(), nil
}

// LoginStart begins a login for secretID against record (the bytes of a
// real RegistrationRecord, or a FakeRecord for an unknown account), and
// parks the resulting AKE state under a freshly generated session id.
func (m *Manager) LoginStart(secretID, record, credentialRequest []byte) (sessionID string, credentialResponse []byte, err error) {
	if len(secretID) == 0 {
		return "", nil, fmt.Errorf("%w: secret id is required", safex.ErrInvalidInput)
	}

	if len(record) == 0 {
		return "", nil, fmt.Errorf("%w: registration record is required", safex.ErrInvalidInput)
	}

	eng, err := opaque.NewServer(m.setup.conf)
	if err != nil {
		return "", nil, fmt.Errorf("%w: constructing opaque server: %v", safex.ErrProtocolFailure, err)
	}

	if err := eng.SetKeyMaterial(nil, m.setup.serverSecretKey, m.setup.serverPublicKey, m.setup.oprfSeed); err != nil {
		return "", nil, fmt.Errorf("%w: setting server key material: %v", safex.ErrProtocolFailure, err)
	}

	upload, err := eng.Deserialize.RegistrationRecord(record)
	if err != nil {
		return "", nil, fmt.Errorf("%w: decoding registration record: %v", safex.ErrProtocolFailure, err)
	}

	ke1, err := eng.Deserialize.KE1(credentialRequest)
	if err != nil {
		return "", nil, fmt.Errorf("%w: decoding credential request: %v", safex.ErrProtocolFailure, err)
	}

	clientRecord := &opaque.ClientRecord{
		RegistrationRecord:   upload,
		CredentialIdentifier: secretID,
		ClientIdentity:       nil,
	}

	ke2, err := eng.GenerateKE2(ke1, clientRecord)
	if err != nil {
		return "", nil, fmt.Errorf("%w: generating credential response: %v", safex.ErrProtocolFailure, err)
	}

	id, err := m.sessions.insert(&parkedSession{
		secretID:  append([]byte(nil), secretID...),
		engine:    eng,
		expiresAt: time.Now().Add(m.setup.sessionTTL),
	})
	if err != nil {
		return "", nil, err
	}

	return id, ke2.Serialize(), nil
}

// LoginFinish consumes sessionID and validates the client's final
// handshake message. On success it returns the secret id the session was
// started for, so the caller can look up whatever account state it needs
// without having to thread it through the wire protocol itself.
func (m *Manager) LoginFinish(sessionID string, credentialFinalization []byte) ([]byte, error) {
	if len(sessionID) == 0 {
		return nil, fmt.Errorf("%w: session id is required", safex.ErrInvalidInput)
	}

	if !utf8.ValidString(sessionID) {
		return nil, fmt.Errorf("%w: session id must be valid UTF-8", safex.ErrInvalidInput)
	}

	entry, err := m.sessions.take(sessionID)
	if err != nil {
		return nil, err
	}

	ke3, err := entry.engine.Deserialize.KE3(credentialFinalization)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding credential finalization: %v", safex.ErrProtocolFailure, err)
	}

	if err := entry.engine.LoginFinish(ke3); err != nil {
		return nil, fmt.Errorf("%w: %v", safex.ErrProtocolFailure, err)
	}

	return entry.secretID, nil
}
