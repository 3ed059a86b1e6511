package core

import "errors"

// Error codes for client-visible errors.
const (
	ErrCodeAlreadyJoined = "already_joined"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeRateLimited   = "rate_limited"
	ErrCodeInvalidMsg    = "invalid_message"
)

var (
	// ErrRoomFull is returned when a join would exceed room capacity.
	ErrRoomFull = errors.New("room full")
	// ErrNotAMember is returned for traffic naming a room the sender does not occupy.
	ErrNotAMember = errors.New("not a member")
	// ErrNoPeer is returned when there is no other occupant to deliver to.
	ErrNoPeer = errors.New("no peer")
	// ErrAlreadyJoined is returned when a client that occupies a room asks to join again.
	ErrAlreadyJoined = errors.New("already joined")
	ErrBadRequest    = errors.New("bad request")

	errRoomClosed = errors.New("room closed")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
