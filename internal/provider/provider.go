package provider

import (
	"fmt"
	"time"
)

// ProviderName uniquely identifies an encyclopedia backend.
type ProviderName string

// Known provider names.
const (
	NameWikipedia ProviderName = "wikipedia"
)

// DisplayName returns a human-readable name for the provider.
func (n ProviderName) DisplayName() string {
	switch n {
	case NameWikipedia:
		return "Wikipedia"
	default:
		return string(n)
	}
}

// ErrProviderUnavailable indicates a transient failure (rate-limited, timeout, server error).
type ErrProviderUnavailable struct {
	Provider   ProviderName
	Cause      error
	RetryAfter time.Duration
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Cause)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the provider has no page for the requested title.
type ErrNotFound struct {
	Provider ProviderName
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("provider %s: page %s not found", e.Provider, e.ID)
}
