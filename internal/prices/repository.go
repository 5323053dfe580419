package prices

import (
	"context"

	"github.com/buildmat/buildmat/internal/platform/storage"
)

// Document key and list field of the persisted ledger.
const (
	DocumentKey = "prices"
	listField   = "history"
)

// Repository loads and replaces the whole ledger.
type Repository interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// NewRepository stores the ledger as {"history": [...]} under DocumentKey.
func NewRepository(store storage.Store) *storage.Collection[Record] {
	return storage.NewCollection[Record](store, DocumentKey, listField)
}
