package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/buildmat/buildmat/internal/catalog"
	"github.com/buildmat/buildmat/internal/platform/storage"
	"github.com/buildmat/buildmat/internal/prices"
	"github.com/buildmat/buildmat/internal/suppliers"
)

// Services are the domain services shared by the server and the worker.
type Services struct {
	Catalog   *catalog.Service
	Suppliers *suppliers.Service
	Prices    *prices.Service

	supplierRepo *storage.Collection[suppliers.Supplier]
	priceRepo    *storage.Collection[prices.Record]
}

// NewServices builds the services over an already opened store.
func NewServices(store storage.Store, catalogDir string) *Services {
	supplierRepo := suppliers.NewRepository(store)
	priceRepo := prices.NewRepository(store)
	return &Services{
		Catalog:      catalog.NewService(catalog.NewFileLoader(catalogDir)),
		Suppliers:    suppliers.NewService(supplierRepo),
		Prices:       prices.NewService(priceRepo),
		supplierRepo: supplierRepo,
		priceRepo:    priceRepo,
	}
}

// EnsureDocuments creates empty supplier and price documents when the store
// has none yet. Existing documents are left alone.
func (s *Services) EnsureDocuments(ctx context.Context, logger *slog.Logger) error {
	created, err := s.supplierRepo.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure %s: %w", suppliers.DocumentKey, err)
	}
	if created {
		logger.Info("created empty document", slog.String("key", suppliers.DocumentKey))
	}
	created, err = s.priceRepo.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure %s: %w", prices.DocumentKey, err)
	}
	if created {
		logger.Info("created empty document", slog.String("key", prices.DocumentKey))
	}
	return nil
}

// OpenServices opens the configured store, creates missing documents and
// builds the services. The returned close function is never nil.
func OpenServices(ctx context.Context, cfg *Config, logger *slog.Logger) (*Services, func(), error) {
	store, closeStore, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("document store ready", slog.String("driver", cfg.StoreDriver))

	services := NewServices(store, cfg.CatalogDir)
	if err := services.EnsureDocuments(ctx, logger); err != nil {
		closeStore()
		return nil, nil, err
	}
	return services, closeStore, nil
}
