package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection means the transport could not be established or died
	// mid-operation. Fatal to the current invocation, never retried here.
	ErrConnection = errors.New("relay connection failed")

	// ErrNotConnected is returned when sending on a session that already
	// closed.
	ErrNotConnected = errors.New("session not connected")

	// ErrTimeout means no resolving frame arrived within the deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrDuplicateKey is returned when a correlation key is already pending.
	ErrDuplicateKey = errors.New("correlation key already pending")

	// ErrAuthRequired is returned when a write is attempted on a session the
	// relay never challenged, or before the handshake finished.
	ErrAuthRequired = errors.New("relay did not request authentication; session is read-only")

	// ErrGroupAlreadyExists is returned by the create pre-check when the
	// normalized identifier is already taken. No frames are sent.
	ErrGroupAlreadyExists = errors.New("group already exists")
)

// AuthError means the relay rejected our authentication event. Msg carries
// the relay-provided reason verbatim.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	if e.Msg == "" {
		return "relay rejected authentication"
	}
	return "relay rejected authentication: " + e.Msg
}

// RejectedError means the relay answered a submitted write with accepted=false.
// Msg carries the relay's message verbatim.
type RejectedError struct {
	EventID string
	Msg     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("relay rejected event %s: %s", e.EventID, e.Msg)
}
