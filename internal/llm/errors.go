package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Class tags a failed provider call.
type Class string

const (
	ClassNetwork     Class = "network"
	ClassRateLimited Class = "rate_limited"
	ClassAuth        Class = "auth"
	ClassForbidden   Class = "forbidden"
	ClassServer      Class = "server"
	ClassMalformed   Class = "malformed_response"
	ClassUnknown     Class = "unknown"
)

// Permanent reports whether retrying the same provider is futile.
func (c Class) Permanent() bool {
	switch c {
	case ClassAuth, ClassForbidden, ClassMalformed:
		return true
	default:
		return false
	}
}

// Message is the fixed human-readable template for the class. Raw details
// belong in logs, not here.
func (c Class) Message() string {
	switch c {
	case ClassNetwork:
		return "Could not reach the AI provider."
	case ClassRateLimited:
		return "The AI provider is rate limiting requests."
	case ClassAuth:
		return "Authentication with the AI provider failed."
	case ClassForbidden:
		return "Access to the AI provider was denied."
	case ClassServer:
		return "The AI provider returned a server error."
	case ClassMalformed:
		return "The AI provider returned an unreadable response."
	default:
		return "The AI provider request failed."
	}
}

// ProviderError is a classified failure from a single provider call.
type ProviderError struct {
	Provider   string
	Class      Class
	StatusCode int    // 0 when no HTTP response was received
	Detail     string // body excerpt or embedded provider message, for logs only
	Err        error
}

func (e *ProviderError) Error() string {
	msg := string(e.Class)
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ClassifyStatus maps a non-2xx HTTP status to a Class.
func ClassifyStatus(code int) Class {
	switch {
	case code == http.StatusTooManyRequests:
		return ClassRateLimited
	case code == http.StatusUnauthorized:
		return ClassAuth
	case code == http.StatusForbidden:
		return ClassForbidden
	case code >= 500:
		return ClassServer
	default:
		return ClassUnknown
	}
}

// Classify returns the Class of any error produced while calling a provider.
// Unclassified transport and context errors count as network failures.
func Classify(err error) Class {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassNetwork
	}
	return ClassUnknown
}

// IsPermanent reports whether err should stop retries against the provider.
func IsPermanent(err error) bool {
	return err != nil && Classify(err).Permanent()
}

func newMalformed(detail string) *ProviderError {
	return &ProviderError{Class: ClassMalformed, Detail: detail}
}
