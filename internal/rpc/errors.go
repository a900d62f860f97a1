package rpc

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a call failed.
type Kind int

const (
	// KindConnection: the request never got a response (refused, DNS, TLS, reset).
	KindConnection Kind = iota + 1
	// KindAuthentication: the node rejected the credentials (HTTP 401/403).
	KindAuthentication
	// KindTimeout: no response within the configured timeout.
	KindTimeout
	// KindRemote: the node answered with a JSON-RPC error object.
	KindRemote
	// KindMalformedResponse: the body was not a usable JSON-RPC envelope.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection error"
	case KindAuthentication:
		return "authentication error"
	case KindTimeout:
		return "timeout"
	case KindRemote:
		return "remote error"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown error"
	}
}

// Failure is the error returned by every Client method.
type Failure struct {
	Kind   Kind
	Method string
	// Code and Message are copied verbatim from the node for KindRemote.
	Code    int
	Message string
	Err     error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case KindRemote:
		return fmt.Sprintf("%s: %s (code %d): %s", f.Method, f.Kind, f.Code, f.Message)
	default:
		if f.Err != nil {
			return fmt.Sprintf("%s: %s: %s: %v", f.Method, f.Kind, f.Message, f.Err)
		}
		return fmt.Sprintf("%s: %s: %s", f.Method, f.Kind, f.Message)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// Describe renders a failure for end users. Remote errors show the node's
// message as-is; everything else is prefixed with its kind. The result is
// never empty.
func Describe(err error) string {
	var f *Failure
	if !errors.As(err, &f) {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return "unknown error"
	}
	if f.Kind == KindRemote {
		if strings.TrimSpace(f.Message) != "" {
			return f.Message
		}
		return fmt.Sprintf("%s (code %d)", f.Kind, f.Code)
	}
	return describeWithKind(f)
}

// Explain renders err for a failed command: the failure kind always leads,
// followed by the message and, for remote errors, the node's code.
func Explain(err error) string {
	var f *Failure
	if !errors.As(err, &f) {
		return Describe(err)
	}
	if f.Kind == KindRemote {
		if strings.TrimSpace(f.Message) == "" {
			return fmt.Sprintf("%s (code %d)", f.Kind, f.Code)
		}
		return fmt.Sprintf("%s: %s (code %d)", f.Kind, f.Message, f.Code)
	}
	return describeWithKind(f)
}

func describeWithKind(f *Failure) string {
	switch {
	case f.Message == "" && f.Err != nil:
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	case f.Message == "":
		return f.Kind.String()
	case f.Err != nil:
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	default:
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
}

// IsKind reports whether err is a *Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}
