// Package id provides centralized ID generation for the backend.
//
// Prefixed UUIDs keep logs readable: log_* for console entries, fix_* for
// auto-fix attempts, req_* for API requests.
package id

import (
	"github.com/google/uuid"
)

const (
	LogPrefix     = "log"
	FixPrefix     = "fix"
	RequestPrefix = "req"
)

// New returns a bare UUIDv4 string.
func New() string {
	return uuid.New().String()
}

// NewPrefixed returns "<prefix>_<uuid>".
func NewPrefixed(prefix string) string {
	return prefix + "_" + uuid.New().String()
}

// NewLogID identifies a console or network log entry.
func NewLogID() string { return NewPrefixed(LogPrefix) }

// NewFixID identifies one auto-fix attempt.
func NewFixID() string { return NewPrefixed(FixPrefix) }

// NewRequestID identifies an API request.
func NewRequestID() string { return NewPrefixed(RequestPrefix) }
