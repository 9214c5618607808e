// Package metadata is a small key/value store on the local database. The
// client keeps its session under fixed keys here.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, pairs ...Pair) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Pair is one key/value written by SetMany.
type Pair struct {
	Key   string
	Value []byte
}
