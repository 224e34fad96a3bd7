package domain

import "context"

// Entity is anything a Store can address by id.
type Entity interface {
	Key() string
}

// Store is the single owner of a collection. List returns records in
// insertion order; callers receive copies and never alias store memory.
type Store[T Entity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, v T) (T, error)
	Delete(ctx context.Context, id string) error
}

type ProductRepo = Store[Product]
type OrderRepo = Store[Order]
type CustomerRepo = Store[Customer]

type CategoryRepo interface {
	List(ctx context.Context) ([]Category, error)
	// Add creates the category unless its value already exists and returns
	// the stored category.
	Add(ctx context.Context, c Category) (Category, error)
}
