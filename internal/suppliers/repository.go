package suppliers

import (
	"context"

	"github.com/buildmat/buildmat/internal/platform/storage"
)

// Document key and list field of the persisted supplier collection.
const (
	DocumentKey = "suppliers"
	listField   = "suppliers"
)

// Repository loads and replaces the whole supplier list.
type Repository interface {
	Load(ctx context.Context) ([]Supplier, error)
	Save(ctx context.Context, suppliers []Supplier) error
}

// NewRepository stores suppliers as {"suppliers": [...]} under DocumentKey.
func NewRepository(store storage.Store) *storage.Collection[Supplier] {
	return storage.NewCollection[Supplier](store, DocumentKey, listField)
}
