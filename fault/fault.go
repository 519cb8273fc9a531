package fault

import (
	"errors"
	"fmt"
)

/* Kind classifies a failure by how the caller must react to it
 * The gateway maps Validation/Authorization to HTTP codes, deferred units
 * retry UpstreamTransient and treat everything else as fatal
 */
type Kind int

const (
	Validation Kind = iota + 1
	Authorization
	UpstreamTransient
	UpstreamAuth
	Deserialization
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	case UpstreamTransient:
		return "upstream_transient"
	case UpstreamAuth:
		return "upstream_auth"
	case Deserialization:
		return "deserialization"
	default:
		return "unknown"
	}
}

// Error carries a Kind through wrapped error chains
type Error struct {
	Kind Kind
	Op   string
	Err  error
	// Body holds the raw upstream payload for Deserialization failures
	Body string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with the given kind and operation name
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds an error of the given kind from a format string
func Newf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Decode reports an unexpected upstream response shape along with the raw body
func Decode(op string, err error, body []byte) *Error {
	return &Error{Kind: Deserialization, Op: op, Err: err, Body: string(body)}
}

// KindOf returns the kind of the first *Error found in the chain
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsRetryable reports whether a bounded retry may still succeed
func IsRetryable(err error) bool {
	return Is(err, UpstreamTransient)
}
