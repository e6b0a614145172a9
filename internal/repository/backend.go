package repository

import (
	"context"
	"errors"
)

// ErrPersist marks a failed load or save of the whole snapshot. It is the only
// fatal error class; callers must not present it as a validation failure.
var ErrPersist = errors.New("persistence failure")

// Backend stores whole snapshots of the flat key-value map.
type Backend interface {
	Name() string
	// Load returns an empty map, not an error, when nothing was saved yet.
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, data map[string]string) error
}
