// Package storage publishes generated maps and datasets.
package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidName is returned for artifact names that could escape the
	// storage root.
	ErrInvalidName = errors.New("storage: invalid artifact name")

	// ErrMissingConfig is returned when a sink is built without required
	// settings.
	ErrMissingConfig = errors.New("storage: missing configuration")
)

// Sink stores one artifact and returns the URL it can be fetched from.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

func validName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
