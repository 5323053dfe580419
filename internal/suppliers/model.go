// Package suppliers is the registry of material suppliers.
package suppliers

import (
	"encoding/json"
	"slices"
)

// Supplier is a registered supplier. Inactive suppliers are kept so their
// ids and price history stay resolvable.
type Supplier struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Contact         string   `json:"contact"`
	Phone           string   `json:"phone"`
	MessagingHandle string   `json:"messaging_handle"`
	Email           string   `json:"email"`
	Website         string   `json:"website"`
	Address         string   `json:"address"`
	Categories      []string `json:"categories"`
	Active          bool     `json:"active"`
	RegisteredOn    string   `json:"registered_on"`
}

// UnmarshalJSON treats a record without an "active" key as active.
func (s *Supplier) UnmarshalJSON(data []byte) error {
	type plain Supplier
	var raw struct {
		plain
		Active *bool `json:"active"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Supplier(raw.plain)
	s.Active = raw.Active == nil || *raw.Active
	if s.Categories == nil {
		s.Categories = []string{}
	}
	return nil
}

// Sells reports whether category is one of the supplier's categories.
func (s Supplier) Sells(category string) bool {
	return slices.Contains(s.Categories, category)
}
