package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service stores opaque payloads such as raw API responses.
type Service interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
}

// Chain reads through caches in order and writes to all of them.
// A hit in a later cache is copied back to the earlier ones.
type Chain []Service

func (c Chain) GetBytes(ctx context.Context, key string) ([]byte, error) {
	for i, s := range c {
		b, err := s.GetBytes(ctx, key)
		if errors.Is(err, ErrCacheMiss) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, prev := range c[:i] {
			_ = prev.SetBytes(ctx, key, b, 0)
		}
		return b, nil
	}
	return nil, ErrCacheMiss
}

func (c Chain) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	var errs []error
	for _, s := range c {
		if err := s.SetBytes(ctx, key, value, expiration); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
