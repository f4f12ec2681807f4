package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerKV fails fast once a remote backend keeps erroring.
// Calls rejected by an open breaker wrap ErrStorage like any other
// failure; nothing is retried.
type BreakerKV struct {
	next KV
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerKV trips after maxFailures consecutive failures and probes
// the backend again after cooldown
func NewBreakerKV(name string, next KV, maxFailures uint32, cooldown time.Duration) *BreakerKV {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// a missing key is a normal answer, not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}

	return &BreakerKV{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (b *BreakerKV) Save(ctx context.Context, key string, value []byte) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Save(ctx, key, value)
	})
	return b.wrap(err)
}

func (b *BreakerKV) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := b.cb.Execute(func() ([]byte, error) {
		return b.next.Load(ctx, key)
	})
	return data, b.wrap(err)
}

func (b *BreakerKV) Remove(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Remove(ctx, key)
	})
	return b.wrap(err)
}

func (b *BreakerKV) Close() error {
	return b.next.Close()
}

// State reports the breaker state, e.g. "closed" or "open"
func (b *BreakerKV) State() string {
	return b.cb.State().String()
}

func (b *BreakerKV) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %w", ErrStorage, b.cb.Name(), err)
	}
	return err
}
