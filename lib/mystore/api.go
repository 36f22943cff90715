package mystore

import (
	"context"
	"os"
)

type ctxTransactionKey struct{}

type Filter struct {
	Field   string
	Compare string
	Value   any
}

type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	Remove(c context.Context, uid string) error
	List(c context.Context) ([]T, error)
	Query(c context.Context, filters []Filter, orderByField string) ([]T, error)
}

// New selects the store implementation based on the environment:
// Google Cloud Datastore on GCP, a file-per-kind JSON store when a data
// directory is configured, an in-memory store otherwise.
func New[T any](c context.Context, kind string) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c, kind)
	}
	if dir := os.Getenv("STORE_DATA_DIR"); dir != "" {
		return NewFileStore[T](c, dir, kind)
	}

	return NewInMemoryStore[T](c)
}
