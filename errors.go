package safex

import "errors"

// Sentinel errors every safex subpackage wraps with fmt.Errorf("%w: ...", Err...)
// so callers can classify a failure with errors.Is without parsing message text.
var (
	// ErrInvalidInput marks a caller-supplied argument that fails validation
	// before any cryptographic work is attempted: an empty identifier, a
	// session id that is not valid UTF-8, a payload shorter than its fixed
	// header. Malformed wire messages are reported as ErrProtocolFailure.
	ErrInvalidInput = errors.New("safex: invalid input")

	// ErrUnknownHandle marks a client-side registration or login handle that
	// is not currently parked, either because it was never issued, already
	// consumed, or issued by a different Manager instance.
	ErrUnknownHandle = errors.New("safex: unknown handle")

	// ErrUnknownSession marks a server-side session id that is not currently
	// parked, either because it was never issued or already consumed.
	ErrUnknownSession = errors.New("safex: unknown session")

	// ErrExpired marks a session id that existed but outlived its TTL.
	ErrExpired = errors.New("safex: session expired")

	// ErrProtocolFailure wraps a failure from the underlying OPAQUE suite:
	// a bad MAC, a rejected credential, a malformed group element. It
	// deliberately does not distinguish a wrong password from a tampered
	// message; the suite itself makes the two indistinguishable.
	ErrProtocolFailure = errors.New("safex: opaque protocol failure")

	// ErrCryptoFailure wraps a failure in the AEAD codec: AES-GCM
	// authentication failure, HKDF expansion failure, RNG exhaustion.
	ErrCryptoFailure = errors.New("safex: cryptographic failure")
)
