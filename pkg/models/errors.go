package models

import (
	"errors"
)

// ErrorKind tags the recoverable conditions reported by the core
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindEmptyInput
	KindInvalidParameter
	KindUnknownCommand
	KindSessionEmpty
	KindHostingUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindUnknownCommand:
		return "UnknownCommand"
	case KindSessionEmpty:
		return "SessionEmpty"
	case KindHostingUnavailable:
		return "HostingUnavailable"
	default:
		return "Unknown"
	}
}

// Error carries a tagged kind plus a user-facing message
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError creates an Error of the given kind
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind, so the sentinels below work with errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrEmptyInput         = &Error{Kind: KindEmptyInput, Message: "empty input"}
	ErrInvalidParameter   = &Error{Kind: KindInvalidParameter, Message: "invalid parameter"}
	ErrUnknownCommand     = &Error{Kind: KindUnknownCommand, Message: "unknown command"}
	ErrSessionEmpty       = &Error{Kind: KindSessionEmpty, Message: "session empty"}
	ErrHostingUnavailable = &Error{Kind: KindHostingUnavailable, Message: "hosting unavailable"}
)

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
