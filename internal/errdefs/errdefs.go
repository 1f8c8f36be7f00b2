// Package errdefs defines the error taxonomy shared across the CLI. Every
// user-visible failure carries a short message plus an actionable hint, and a
// Kind that callers branch on to decide between retrying, aborting, or
// reporting inline.
package errdefs

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Kind classifies an error for propagation decisions.
type Kind int

const (
	// KindUnknown is the zero value for unclassified failures.
	KindUnknown Kind = iota
	// KindConfiguration covers missing or invalid provider/credential setup.
	// User-actionable, never retried.
	KindConfiguration
	// KindAuthentication means the provider rejected the credential.
	// Immediately fatal, never retried.
	KindAuthentication
	// KindRateLimit is a transient provider throttle. Retried with backoff.
	KindRateLimit
	// KindConnection means the provider endpoint could not be reached.
	KindConnection
	// KindNetwork means no connectivity at all (reachability probe failed).
	KindNetwork
	// KindBadRequest means the provider rejected the request as malformed.
	KindBadRequest
	// KindAnalysis means scanning produced no usable files.
	KindAnalysis
	// KindNotFound means the scan root does not exist.
	KindNotFound
	// KindNotADirectory means the scan root is not a directory.
	KindNotADirectory
)

// Error is the taxonomy error type. Message is what went wrong; Hint tells
// the user what to do about it.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a taxonomy error with the given kind, message, and hint.
func New(kind Kind, message, hint string) *Error {
	return &Error{Kind: kind, Message: message, Hint: hint}
}

// Wrap creates a taxonomy error around an underlying cause.
func Wrap(kind Kind, cause error, message, hint string) *Error {
	return &Error{Kind: kind, Message: message, Hint: hint, Cause: cause}
}

// KindOf returns the Kind of err, or KindUnknown if err is not a taxonomy
// error anywhere in its chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HintOf returns the hint attached to err, if any.
func HintOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}

// IsRateLimit reports whether err is a transient rate-limit failure.
func IsRateLimit(err error) bool { return KindOf(err) == KindRateLimit }

// IsAuthentication reports whether err is a credential rejection.
func IsAuthentication(err error) bool { return KindOf(err) == KindAuthentication }

// IsConnection reports whether err is a failure to reach the endpoint.
func IsConnection(err error) bool { return KindOf(err) == KindConnection }

// IsConfiguration reports whether err is a setup problem.
func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }

// probeTimeout bounds the reachability check so a dead network fails fast.
const probeTimeout = 5 * time.Second

// dial is swapped out in tests.
var dial = func(address string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Reachable reports whether the given host (host:port) accepts a TCP
// connection. It is used to distinguish "no internet" from "provider down"
// before escalating a connection failure to the user.
func Reachable(address string) bool {
	return dial(address, probeTimeout) == nil
}
