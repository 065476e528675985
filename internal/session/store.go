// Package session keeps one value per browser session, keyed by cookie ID.
package session

import "context"

type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	Range(f func(id string, v T) bool)
	NewID() string
}
