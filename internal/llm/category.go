package llm

import (
	"context"
	"errors"
	"net"
)

// Category is the coarse, user-visible bucket a failure is rendered as.
type Category string

const (
	CategoryAuth      Category = "auth"
	CategoryRateLimit Category = "rate_limited"
	CategoryNetwork   Category = "network"
	CategoryTimeout   Category = "timeout"
	CategoryService   Category = "service"
)

// Message returns the notice shown to the end user for the category.
func (c Category) Message() string {
	switch c {
	case CategoryAuth:
		return "API Key Error: Please check the AI provider configuration."
	case CategoryRateLimit:
		return "Too many requests. Please wait a moment and try again."
	case CategoryNetwork:
		return "Network error. Please check your connection and try again."
	case CategoryTimeout:
		return "Request timed out. Please try again."
	default:
		return "AI service temporarily unavailable. Please try again shortly."
	}
}

// UserCategory collapses a classified failure into one of five categories.
func UserCategory(err error) Category {
	if err == nil {
		return ""
	}
	if isTimeout(err) {
		return CategoryTimeout
	}
	switch Classify(err) {
	case ClassAuth, ClassForbidden:
		return CategoryAuth
	case ClassRateLimited:
		return CategoryRateLimit
	case ClassNetwork:
		return CategoryNetwork
	default:
		return CategoryService
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
