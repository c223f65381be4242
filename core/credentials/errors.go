package credentials

import (
	"errors"
	"fmt"
)

// ErrKind categorises credential store failures.
type ErrKind int

const (
	ErrKindUnknown ErrKind = iota
	ErrKindIo
	ErrKindSerialization
	ErrKindKeyring
	ErrKindConfigDir
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindIo:
		return "io error"
	case ErrKindSerialization:
		return "serialization error"
	case ErrKindKeyring:
		return "keyring error"
	case ErrKindConfigDir:
		return "config dir error"
	default:
		return "unknown error"
	}
}

// Error is returned by every Store operation.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func wrapError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
