// Package client implements the client-side half of safex's OPAQUE engine:
// the start/finish operations meant to be driven across a WASM boundary,
// where the two legs of a registration or login necessarily happen in
// separate calls and the state in between has to be parked somewhere on
// this side of the boundary.
package client

import (
	"fmt"

	"github.com/bytemare/opaque"

	"github.com/gonfff/safex"
)

// Manager is the client-side OPAQUE engine. Each Start call constructs a
// fresh protocol instance, parks it under a handle, and returns that handle
// to the caller along with the message to send to the server; the matching
// Finish call consumes the handle to complete the flow.
//
// A Manager is safe for concurrent use from multiple goroutines; a
// single-threaded WASM embedding gets the same safety for free at the cost
// of an uncontended lock.
type Manager struct {
	ledger *ledger
}

// NewManager returns a ready-to-use client engine.
func NewManager() *Manager {
	return &Manager{ledger: newLedger()}
}

// StartRegistration begins a registration flow for pin and parks its state
// under the returned handle. ke1 is the serialized RegistrationRequest to
// send to the server.
func (m *Manager) StartRegistration(pin []byte) (handle uint32, ke1 []byte, err error) {
	if len(pin) == 0 {
		return 0, nil, fmt.Errorf("%w: pin must not be empty", safex.ErrInvalidInput)
	}

	c, err := opaque.NewClient(safex.Configuration())
	if err != nil {
		return 0, nil, fmt.Errorf("%w: constructing opaque client: %v", safex.ErrProtocolFailure, err)
	}

	req := c.RegistrationInit(pin)
	handle = m.ledger.parkRegistration(c)

	return handle, req.Serialize(), nil
}

// FinishRegistration consumes handle and completes registration against
// the server's RegistrationResponse, returning the serialized record to
// upload and the 64-byte export key.
func (m *Manager) FinishRegistration(handle uint32, registrationResponse []byte) (record, exportKey []byte, err error) {
	c, err := m.ledger.takeRegistration(handle)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.Deserialize.RegistrationResponse(registrationResponse)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decoding registration response: %v", safex.ErrProtocolFailure, err)
	}

	upload, ek, err := c.RegistrationFinalize(nil, &opaque.Credentials{}, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", safex.ErrProtocolFailure, err)
	}

	return upload.Serialize(), ek, nil
}

// StartLogin begins a login flow for pin and parks its state under the
// returned handle. ke1 is the serialized credential request to send to the
// server.
func (m *Manager) StartLogin(pin []byte) (handle uint32, ke1 []byte, err error) {
	if len(pin) == 0 {
		return 0, nil, fmt.Errorf("%w: pin must not be empty", safex.ErrInvalidInput)
	}

	c, err := opaque.NewClient(safex.Configuration())
	if err != nil {
		return 0, nil, fmt.Errorf("%w: constructing opaque client: %v", safex.ErrProtocolFailure, err)
	}

	req := c.Init(pin)
	handle = m.ledger.parkLogin(c)

	return handle, req.Serialize(), nil
}

// FinishLogin consumes handle and completes login against the server's
// credential response, returning the KE3 message to send back to the
// server, the 64-byte export key, and the shared session key.
//
// Failure here is the one place in the protocol where a wrong pin and a
// tampered or replayed message produce the same observable outcome: an
// ErrProtocolFailure wrapping the suite's own error.
func (m *Manager) FinishLogin(handle uint32, credentialResponse []byte) (ke3, exportKey, sessionKey []byte, err error) {
	c, err := m.ledger.takeLogin(handle)
	if err != nil {
		return nil, nil, nil, err
	}

	ke2, err := c.Deserialize.KE2(credentialResponse)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: decoding credential response: %v", safex.ErrProtocolFailure, err)
	}

	fin, ek, err := c.Finish(nil, nil, ke2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", safex.ErrProtocolFailure, err)
	}

	return fin.Serialize(), ek, c.SessionKey(), nil
}
