package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Store serializes values as JSON on top of a KV.
// A failed save or remove is logged and skipped. Loads return ErrNotFound,
// ErrCorrupt or an ErrStorage failure so callers can tell "nothing stored"
// from "backend unavailable".
type Store struct {
	kv  KV
	log *slog.Logger
}

// NewStore creates a new JSON store on top of kv
func NewStore(kv KV, log *slog.Logger) *Store {
	return &Store{
		kv:  kv,
		log: log,
	}
}

// SaveJSON overwrites key with the JSON encoding of v
func (s *Store) SaveJSON(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.ErrorContext(ctx, "storage serialization failed", "key", key, "error", err)
		return false
	}

	if err := s.kv.Save(ctx, key, data); err != nil {
		s.log.WarnContext(ctx, "storage save skipped", "key", key, "error", err)
		return false
	}
	return true
}

// LoadJSON decodes key into v. It returns ErrNotFound when the key is
// absent, ErrCorrupt when the value does not decode, and an error wrapping
// ErrStorage when the backend failed.
func (s *Store) LoadJSON(ctx context.Context, key string, v any) error {
	data, err := s.kv.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		s.log.WarnContext(ctx, "storage load failed", "key", key, "error", err)
		if !errors.Is(err, ErrStorage) {
			err = fmt.Errorf("%w: %w", ErrStorage, err)
		}
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.log.WarnContext(ctx, "storage value is corrupt", "key", key, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	return nil
}

// Remove deletes key
func (s *Store) Remove(ctx context.Context, key string) bool {
	if err := s.kv.Remove(ctx, key); err != nil {
		s.log.WarnContext(ctx, "storage remove skipped", "key", key, "error", err)
		return false
	}
	return true
}

// Close releases the backend
func (s *Store) Close() error {
	return s.kv.Close()
}
