package suppliers

import (
	"context"
	"fmt"
	"strings"
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

// List returns suppliers in storage order, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Supplier, error) {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	if !activeOnly {
		return all, nil
	}
	out := make([]Supplier, 0, len(all))
	for _, sup := range all {
		if sup.Active {
			out = append(out, sup)
		}
	}
	return out, nil
}

// Get returns the supplier with id, active or not.
func (s *Service) Get(ctx context.Context, id int64) (Supplier, bool, error) {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return Supplier{}, false, fmt.Errorf("get supplier %d: %w", id, err)
	}
	for _, sup := range all {
		if sup.ID == id {
			return sup, true, nil
		}
	}
	return Supplier{}, false, nil
}

// ListByCategory returns active suppliers selling category.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]Supplier, error) {
	active, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]Supplier, 0, len(active))
	for _, sup := range active {
		if sup.Sells(category) {
			out = append(out, sup)
		}
	}
	return out, nil
}

// Create registers a new active supplier with the next free id.
func (s *Service) Create(ctx context.Context, req CreateSupplierRequest) (Supplier, error) {
	if err := validateCreate(req); err != nil {
		return Supplier{}, err
	}
	all, err := s.repo.Load(ctx)
	if err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}

	sup := Supplier{
		ID:              shared.NextID(all, supplierID),
		Name:            strings.TrimSpace(req.Name),
		Contact:         req.Contact,
		Phone:           req.Phone,
		MessagingHandle: req.Phone,
		Email:           req.Email,
		Website:         req.Website,
		Address:         req.Address,
		Categories:      req.Categories,
		Active:          true,
		RegisteredOn:    shared.FormatDate(s.now()),
	}
	if req.MessagingHandle != nil {
		sup.MessagingHandle = *req.MessagingHandle
	}
	if sup.Categories == nil {
		sup.Categories = []string{}
	}

	if err := s.repo.Save(ctx, append(all, sup)); err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	return sup, nil
}

// Update merges the non-nil fields of req into supplier id. The boolean is
// false when no such supplier exists.
func (s *Service) Update(ctx context.Context, id int64, req UpdateSupplierRequest) (Supplier, bool, error) {
	if err := validateUpdate(req); err != nil {
		return Supplier{}, false, err
	}
	all, err := s.repo.Load(ctx)
	if err != nil {
		return Supplier{}, false, fmt.Errorf("update supplier %d: %w", id, err)
	}
	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Supplier{}, false, nil
	}

	applyPatch(&all[idx], req)
	if err := s.repo.Save(ctx, all); err != nil {
		return Supplier{}, false, fmt.Errorf("update supplier %d: %w", id, err)
	}
	return all[idx], true, nil
}

// Deactivate soft-deletes supplier id and reports whether it existed.
func (s *Service) Deactivate(ctx context.Context, id int64) (bool, error) {
	inactive := false
	_, found, err := s.Update(ctx, id, UpdateSupplierRequest{Active: &inactive})
	return found, err
}

func applyPatch(sup *Supplier, req UpdateSupplierRequest) {
	if req.Name != nil {
		sup.Name = strings.TrimSpace(*req.Name)
	}
	if req.Contact != nil {
		sup.Contact = *req.Contact
	}
	if req.Phone != nil {
		sup.Phone = *req.Phone
	}
	if req.MessagingHandle != nil {
		sup.MessagingHandle = *req.MessagingHandle
	}
	if req.Email != nil {
		sup.Email = *req.Email
	}
	if req.Website != nil {
		sup.Website = *req.Website
	}
	if req.Address != nil {
		sup.Address = *req.Address
	}
	if req.Categories != nil {
		sup.Categories = append([]string{}, *req.Categories...)
	}
	if req.Active != nil {
		sup.Active = *req.Active
	}
}

func supplierID(s Supplier) int64 { return s.ID }
