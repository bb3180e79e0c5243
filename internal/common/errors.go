// Package common defines shared sentinel errors used across the dompet
// backup and notification layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Identity errors.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Remote document store errors.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// Payload errors (stored document fails to parse or carries an
	// unsupported format tag).
	ErrMalformedPayload = errors.New("malformed backup payload")

	// Local store errors (settings or notification write failed).
	ErrLocalPersist = errors.New("local persist failure")
)
