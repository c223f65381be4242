package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/minio/minio-go/v7"
)

// ErrKind categorises storage failures without exposing SDK-specific codes.
type ErrKind int

const (
	ErrKindUnknown     ErrKind = iota
	ErrKindSdk                 // remote or SDK failure, message passed through
	ErrKindCredentials         // credential construction or rejection
	ErrKindBucketNotFound
	ErrKindObjectNotFound
	ErrKindNetwork // endpoint unreachable, timeout, cancelled
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindSdk:
		return "sdk error"
	case ErrKindCredentials:
		return "credentials error"
	case ErrKindBucketNotFound:
		return "bucket not found"
	case ErrKindObjectNotFound:
		return "object not found"
	case ErrKindNetwork:
		return "network error"
	default:
		return "unknown error"
	}
}

// Error is returned by every ObjectClient operation.
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

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
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

// IsBucketNotFound reports whether err means the bucket does not exist.
func IsBucketNotFound(err error) bool { return KindOf(err) == ErrKindBucketNotFound }

// IsObjectNotFound reports whether err means the key does not exist.
func IsObjectNotFound(err error) bool { return KindOf(err) == ErrKindObjectNotFound }

// IsCredentials reports whether err is a credential failure.
func IsCredentials(err error) bool { return KindOf(err) == ErrKindCredentials }

// IsNetwork reports whether err is a connectivity failure.
func IsNetwork(err error) bool { return KindOf(err) == ErrKindNetwork }

// mapError translates a minio SDK error into an *Error.
func mapError(err error, msg string) *Error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrapError(ErrKindNetwork, msg, err)
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code != "" {
		switch resp.Code {
		case minio.NoSuchBucket:
			return wrapError(ErrKindBucketNotFound, msg, err)
		case minio.NoSuchKey:
			return wrapError(ErrKindObjectNotFound, msg, err)
		case minio.AccessDenied, "InvalidAccessKeyId", "SignatureDoesNotMatch", "Unauthorized":
			return wrapError(ErrKindCredentials, msg, err)
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return wrapError(ErrKindCredentials, msg, err)
		}
		return wrapError(ErrKindSdk, msg, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return wrapError(ErrKindNetwork, msg, err)
	}

	return wrapError(ErrKindSdk, msg, err)
}
