package deckapi

import (
	"errors"
	"fmt"
)

// Kind classifies a failed deck lookup.
type Kind int

const (
	// KindNotFound means the service answered 404.
	KindNotFound Kind = iota + 1
	// KindTransport covers network failures and unexpected status codes.
	KindTransport
	// KindEmptyResponse means a successful status with no body.
	KindEmptyResponse
	// KindMalformed means the body could not be decoded or lacks a deck name.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindTransport:
		return "transport error"
	case KindEmptyResponse:
		return "empty response"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is returned by Client.FetchDeck for every failure.
type Error struct {
	Kind   Kind
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("fetch deck: %s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("fetch deck: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a deckapi error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
