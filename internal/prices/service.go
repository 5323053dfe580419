package prices

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/buildmat/buildmat/internal/shared"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListAll returns every record, newest date first. Records sharing a date
// keep their storage order.
func (s *Service) ListAll(ctx context.Context) ([]Record, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records, nil
}

// MostRecent keeps the latest record per (supplier, category) pair. When two
// records share the latest date the one stored later wins. Groups are
// returned in the order they are first seen.
func (s *Service) MostRecent(ctx context.Context, filter CurrentFilter) ([]Record, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("current prices: %w", err)
	}

	type groupKey struct {
		supplierID int64
		category   string
	}
	latest := map[groupKey]int{}
	var out []Record
	for _, rec := range records {
		if filter.SupplierID != 0 && rec.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		key := groupKey{rec.SupplierID, rec.Category}
		idx, seen := latest[key]
		if !seen {
			latest[key] = len(out)
			out = append(out, rec)
			continue
		}
		if rec.Date >= out[idx].Date {
			out[idx] = rec
		}
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

// Append stores a new quote with the next free id. Date defaults to today.
func (s *Service) Append(ctx context.Context, req AppendPriceRequest) (Record, error) {
	if err := shared.Validate(req); err != nil {
		return Record{}, err
	}
	records, err := s.repo.Load(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("append price: %w", err)
	}

	rec := Record{
		ID:                  shared.NextID(records, recordID),
		Date:                shared.FormatDate(s.now()),
		SupplierID:          req.SupplierID,
		Category:            req.Category,
		Products:            req.Products,
		Note:                req.Note,
		CashDiscountPercent: req.CashDiscountPercent,
	}
	if req.Date != nil {
		rec.Date = *req.Date
	}
	if len(req.ShippingTiers) > 0 {
		rec.ShippingTiers = req.ShippingTiers
	}

	if err := s.repo.Save(ctx, append(records, rec)); err != nil {
		return Record{}, fmt.Errorf("append price: %w", err)
	}
	return rec, nil
}

// PriceEvolution lists every quoted price of productID within category,
// oldest first.
func (s *Service) PriceEvolution(ctx context.Context, category string, productID int64) ([]EvolutionPoint, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("price evolution: %w", err)
	}
	points := []EvolutionPoint{}
	for _, rec := range records {
		if rec.Category != category {
			continue
		}
		for _, p := range rec.Products {
			if p.ProductID != productID {
				continue
			}
			point := EvolutionPoint{Date: rec.Date, Price: p.UnitPrice, SupplierID: rec.SupplierID}
			if rec.Note != nil {
				point.Note = *rec.Note
			}
			points = append(points, point)
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func recordID(r Record) int64 { return r.ID }
