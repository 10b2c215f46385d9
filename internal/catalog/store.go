package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by store lookups and mutations for absent ids.
var ErrNotFound = errors.New("product not found")

// Store owns the canonical product collection. List and Get hand out
// independent copies; callers never see shared mutable state. Mutations are
// serialized by the implementation.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, in ProductInput) (Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (Product, error)
	Delete(ctx context.Context, id int64) error
}
