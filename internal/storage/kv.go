// Package storage is the persistence adapter: a small key-value contract
// with memory, redis and mongo backends, and a JSON layer that logs and
// logs failures. Saves and removes never fail the caller; loads report
// whether a value was absent, corrupt or unreachable.
package storage

import (
	"context"
	"errors"
)

// Keys recognized by the app
const (
	KeyCartItems    = "cartItems"
	KeyProposedMenu = "proposedMenu"
	KeyLastOrder    = "lastOrder"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrStorage  = errors.New("storage failure")
	ErrCorrupt  = errors.New("stored value is corrupt")
)

// KV is a device-local style key-value store.
// Load returns ErrNotFound when the key is absent; every other failure
// wraps ErrStorage.
type KV interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	Close() error
}
