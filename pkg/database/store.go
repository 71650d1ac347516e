package database

import (
	"context"

	"emperror.dev/errors"
)

// ErrOffline is returned by stores that cannot reach their backend.
var ErrOffline = errors.Sentinel("el almacenamiento no está disponible")

// Store persists whole feature documents by name ("economy", "levels", ...).
type Store interface {
	// Load decodes the named document into out. found is false when nothing was stored yet.
	Load(ctx context.Context, name string, out interface{}) (found bool, err error)
	// Save replaces the named document with v.
	Save(ctx context.Context, name string, v interface{}) error
	// Backend names the storage implementation for status output.
	Backend() string
}
