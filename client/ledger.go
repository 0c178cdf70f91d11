package client

import (
	"fmt"
	"sync"

	"github.com/bytemare/opaque"

	"github.com/gonfff/safex"
)

// ledger parks half-finished registration and login flows under a
// monotonic uint32 handle, so the start/finish split OPAQUE requires can
// survive a boundary crossing - an FFI call, a WASM message round trip -
// between the two legs of a flow.
//
// Handles are single-use: take removes the entry it returns, and never
// reissues handle 0, which is reserved as a "no handle" sentinel for
// callers that represent failure as a zero value. The counter wraps after
// 2^32-1 allocations without checking for collisions with handles still in
// flight; a deployment that parks that many concurrent flows has bigger
// problems than handle reuse.
//
// A ledger is safe for concurrent use by any number of goroutines. An
// embedding that runs single-threaded (e.g. in a WASM worker) still pays
// only the cost of an uncontended mutex.
type ledger struct {
	mu            sync.Mutex
	nextHandle    uint32
	registrations map[uint32]*opaque.Client
	logins        map[uint32]*opaque.Client
}

func newLedger() *ledger {
	return &ledger{
		registrations: make(map[uint32]*opaque.Client),
		logins:        make(map[uint32]*opaque.Client),
	}
}

func (l *ledger) allocate() uint32 {
	l.nextHandle++
	if l.nextHandle == 0 {
		l.nextHandle = 1
	}

	return l.nextHandle
}

func (l *ledger) parkRegistration(c *opaque.Client) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := l.allocate()
	l.registrations[h] = c

	return h
}

func (l *ledger) takeRegistration(handle uint32) (*opaque.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.registrations[handle]
	if !ok {
		return nil, fmt.Errorf("%w: unknown registration handle", safex.ErrUnknownHandle)
	}

	delete(l.registrations, handle)

	return c, nil
}

func (l *ledger) parkLogin(c *opaque.Client) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := l.allocate()
	l.logins[h] = c

	return h
}

func (l *ledger) takeLogin(handle uint32) (*opaque.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.logins[handle]
	if !ok {
		return nil, fmt.Errorf("%w: unknown login handle", safex.ErrUnknownHandle)
	}

	delete(l.logins, handle)

	return c, nil
}
