// Package storage provides the remote key-value backends the catalog
// store can mirror itself to. The local file remains the durability
// guarantee of record; remotes exist so the catalog survives redeploys.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound reports that the remote has no value under the key.
var ErrNotFound = errors.New("storage: key not found")

// AuthError marks authentication or authorization failures so callers can
// distinguish them from transient network errors and stop retrying.
type AuthError struct {
	Backend string
	Status  int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: unauthorized (HTTP %d)", e.Backend, e.Status)
}

// RemoteStore captures the minimal key-value operations catalog
// persistence needs. Implementations must surface auth failures as
// *AuthError and missing keys as ErrNotFound so the store can fall back
// without crashing.
type RemoteStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}
