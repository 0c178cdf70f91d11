package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/bytemare/opaque"

	"github.com/gonfff/safex"
)

// parkedSession is the state LoginStart hands off to LoginFinish: the
// engine instance carrying the in-progress AKE exchange, the secret id the
// login is for, and the absolute time after which the session may no
// longer be finished.
type parkedSession struct {
	secretID  []byte
	engine    *opaque.Server
	expiresAt time.Time
}

// sessionLedger is the server's parked-login table: a single mutex guards a
// plain map, keyed by a 16-random-byte, hex-encoded session id. Entries are
// single-use: take removes an entry whether or not it has expired, so a
// session id is never served twice. Expired entries are only reclaimed
// lazily, on the next lookup that happens to hit them; there is no
// background sweeper goroutine.
type sessionLedger struct {
	mu       sync.Mutex
	sessions map[string]*parkedSession
}

func newSessionLedger() *sessionLedger {
	return &sessionLedger{sessions: make(map[string]*parkedSession)}
}

func (l *sessionLedger) insert(entry *parkedSession) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.sessions[id]; exists {
		return "", fmt.Errorf("%w: session id collision", safex.ErrProtocolFailure)
	}

	l.sessions[id] = entry

	return id, nil
}

func (l *sessionLedger) take(id string) (*parkedSession, error) {
	l.mu.Lock()
	entry, ok := l.sessions[id]
	if ok {
		delete(l.sessions, id)
	}
	l.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: session %q", safex.ErrUnknownSession, id)
	}

	if time.Now().After(entry.expiresAt) {
		return nil, fmt.Errorf("%w: session %q", safex.ErrExpired, id)
	}

	return entry, nil
}

func newSessionID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: generating session id: %v", safex.ErrCryptoFailure, err)
	}

	return hex.EncodeToString(raw), nil
}
