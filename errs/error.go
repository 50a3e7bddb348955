// Package errs defines the error kinds used across the p2psync core: a
// code+message+wrapped-error shape scoped to what this module actually
// needs, with no gRPC status mapping since this core exposes no gRPC
// surface.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the semantic category of an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindIo
	KindWrongMagic
	KindBadChecksum
	KindUnknownCommand
	KindDecodeError
	KindHandshakeFailed
	KindMisbehavingPeer
	KindNoParent
	KindDisconnected
	KindInvalidProofOfWork
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io"
	case KindWrongMagic:
		return "wrong_magic"
	case KindBadChecksum:
		return "bad_checksum"
	case KindUnknownCommand:
		return "unknown_command"
	case KindDecodeError:
		return "decode_error"
	case KindHandshakeFailed:
		return "handshake_failed"
	case KindMisbehavingPeer:
		return "misbehaving_peer"
	case KindNoParent:
		return "no_parent"
	case KindDisconnected:
		return "disconnected"
	case KindInvalidProofOfWork:
		return "invalid_proof_of_work"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every package in this module. It
// carries a Kind so callers can branch on disconnect vs. discard-and-continue
// vs. terminal recovery policy without string matching.
type Error struct {
	Kind       Kind
	Message    string
	WrappedErr error
}

// New builds an Error, optionally formatting Message with args and optionally
// wrapping a trailing error argument.
func New(kind Kind, format string, args ...interface{}) *Error {
	var wrapped error

	if n := len(args); n > 0 {
		if err, ok := args[n-1].(error); ok {
			wrapped = err
			args = args[:n-1]
		}
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	return &Error{Kind: kind, Message: msg, WrappedErr: wrapped}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.WrappedErr == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.WrappedErr)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.WrappedErr
}

// Is reports whether target is an *Error with the same Kind, falling back to
// the wrapped error chain.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	var te *Error
	if errors.As(target, &te) {
		return e.Kind == te.Kind
	}

	return false
}

// Is is the package-level convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is the package-level convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// KindOf extracts the Kind of err, walking the wrap chain. Returns
// KindUnknown if err is not (or does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
