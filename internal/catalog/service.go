package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Loader reads the current catalog files.
type Loader interface {
	Blocks(ctx context.Context) (BlockCatalog, error)
	Insulation(ctx context.Context) (InsulationCatalog, error)
}

// Service runs the calculators against freshly loaded catalogs.
type Service struct {
	loader Loader
}

func NewService(loader Loader) *Service {
	return &Service{loader: loader}
}

// Catalog returns the parsed file for family.
func (s *Service) Catalog(ctx context.Context, family Family) (any, error) {
	switch family {
	case FamilyBlocks:
		return s.loader.Blocks(ctx)
	case FamilyInsulation:
		return s.loader.Insulation(ctx)
	}
	return nil, fmt.Errorf("catalog: unsupported family %q", family)
}

// Blocks computes one block variant. A zero blockID selects the first entry.
func (s *Service) Blocks(ctx context.Context, wallWidthM, wallHeightM float64, blockID int64) (BlockResult, error) {
	cat, err := s.loader.Blocks(ctx)
	if err != nil {
		return BlockResult{}, err
	}
	if blockID == 0 && len(cat.Blocks) > 0 {
		blockID = cat.Blocks[0].ID
	}
	return ComputeBlocks(cat, wallWidthM, wallHeightM, blockID)
}

func (s *Service) AllBlocks(ctx context.Context, wallWidthM, wallHeightM float64) ([]BlockResult, error) {
	cat, err := s.loader.Blocks(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeAllBlocks(cat, wallWidthM, wallHeightM)
}

// Insulation computes one panel variant. A zero productID selects the first entry.
func (s *Service) Insulation(ctx context.Context, areaM2 float64, productID int64) (InsulationResult, error) {
	cat, err := s.loader.Insulation(ctx)
	if err != nil {
		return InsulationResult{}, err
	}
	if productID == 0 && len(cat.Products) > 0 {
		productID = cat.Products[0].ID
	}
	return ComputeInsulation(cat, areaM2, productID)
}

func (s *Service) AllInsulation(ctx context.Context, areaM2 float64) ([]InsulationResult, error) {
	cat, err := s.loader.Insulation(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeAllInsulation(cat, areaM2)
}

// Audit loads every family concurrently and returns their issues, blocks
// first. A family that cannot be loaded fails the whole audit.
func (s *Service) Audit(ctx context.Context) ([]Issue, error) {
	var blockIssues, insulationIssues []Issue
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cat, err := s.loader.Blocks(gctx)
		if err != nil {
			return fmt.Errorf("audit blocks: %w", err)
		}
		blockIssues = AuditBlocks(cat)
		return nil
	})
	g.Go(func() error {
		cat, err := s.loader.Insulation(gctx)
		if err != nil {
			return fmt.Errorf("audit insulation: %w", err)
		}
		insulationIssues = AuditInsulation(cat)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return append(blockIssues, insulationIssues...), nil
}
