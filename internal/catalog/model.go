// Package catalog holds the read-only material catalogs and the unit
// calculators that run against them.
package catalog

import (
	"fmt"

	"github.com/buildmat/buildmat/internal/shared"
)

// Family names a material catalog.
type Family string

const (
	FamilyBlocks     Family = "blocks"
	FamilyInsulation Family = "insulation"
)

// Families lists every known family in a stable order.
var Families = []Family{FamilyBlocks, FamilyInsulation}

// ParseFamily validates a family name taken from a request.
func ParseFamily(name string) (Family, error) {
	for _, f := range Families {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: catalog family %q", shared.ErrNotFound, name)
}

// Manufacturer describes who makes a family's products.
type Manufacturer struct {
	Name                string  `json:"name" yaml:"name"`
	Contact             string  `json:"contact,omitempty" yaml:"contact,omitempty"`
	Website             string  `json:"website,omitempty" yaml:"website,omitempty"`
	CashDiscountPercent float64 `json:"cash_discount_percent,omitempty" yaml:"cash_discount_percent,omitempty"`
}

// Material describes what a family's products are made of.
type Material struct {
	Name          string  `json:"name" yaml:"name"`
	Composition   string  `json:"composition,omitempty" yaml:"composition,omitempty"`
	DensityKgM3   float64 `json:"density_kg_m3,omitempty" yaml:"density_kg_m3,omitempty"`
	FireRetardant bool    `json:"fire_retardant,omitempty" yaml:"fire_retardant,omitempty"`
}

// Block is one wall block variant.
type Block struct {
	ID               int64   `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	WidthCm          float64 `json:"width_cm" yaml:"width_cm"`
	HeightCm         float64 `json:"height_cm" yaml:"height_cm"`
	TotalThicknessCm float64 `json:"total_thickness_cm" yaml:"total_thickness_cm"`
	CashPrice        float64 `json:"cash_price" yaml:"cash_price"`
	WeightKg         float64 `json:"weight_kg" yaml:"weight_kg"`
	Application      string  `json:"application" yaml:"application"`
}

// BlockCatalog is the parsed blocks family file.
type BlockCatalog struct {
	Manufacturer Manufacturer `json:"manufacturer" yaml:"manufacturer"`
	Material     Material     `json:"material" yaml:"material"`
	Blocks       []Block      `json:"blocks" yaml:"blocks"`
}

// Find returns the block with id.
func (c BlockCatalog) Find(id int64) (Block, bool) {
	for _, b := range c.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// InsulationPanel is one insulation board variant.
type InsulationPanel struct {
	ID               int64   `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	WidthMm          float64 `json:"width_mm" yaml:"width_mm"`
	HeightMm         float64 `json:"height_mm" yaml:"height_mm"`
	ThicknessMm      float64 `json:"thickness_mm" yaml:"thickness_mm"`
	AreaM2           float64 `json:"area_m2" yaml:"area_m2"`
	UnitPrice        float64 `json:"unit_price" yaml:"unit_price"`
	PricePerArea     float64 `json:"price_per_area" yaml:"price_per_area"`
	InsulationRating string  `json:"insulation_rating" yaml:"insulation_rating"`
	Application      string  `json:"application" yaml:"application"`
}

// ShippingTier maps an order subtotal band [Min, Max) to a fee. A nil Max
// makes the band open-ended; a nil Value means the fee must be quoted.
type ShippingTier struct {
	Min   float64  `json:"min" yaml:"min"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Note  string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// ShippingTable is a manufacturer's tiered shipping schedule.
type ShippingTable struct {
	ReferenceDestination string         `json:"reference_destination" yaml:"reference_destination"`
	Tiers                []ShippingTier `json:"tiers" yaml:"tiers"`
}

// InsulationCatalog is the parsed insulation family file.
type InsulationCatalog struct {
	Manufacturer Manufacturer      `json:"manufacturer" yaml:"manufacturer"`
	Material     Material          `json:"material" yaml:"material"`
	Shipping     ShippingTable     `json:"shipping" yaml:"shipping"`
	Products     []InsulationPanel `json:"products" yaml:"products"`
}

// Find returns the panel with id.
func (c InsulationCatalog) Find(id int64) (InsulationPanel, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return InsulationPanel{}, false
}
