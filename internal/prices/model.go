// Package prices is the append-only ledger of supplier price quotes.
package prices

import "github.com/buildmat/buildmat/internal/catalog"

// ProductPrice is one quoted product line.
type ProductPrice struct {
	ProductID    int64    `json:"product_id" validate:"gt=0"`
	Name         string   `json:"name" validate:"required,max=200"`
	UnitPrice    float64  `json:"unit_price" validate:"gte=0"`
	PricePerArea *float64 `json:"price_per_area,omitempty" validate:"omitempty,gte=0"`
}

// Record is a dated quote from one supplier for one category. Optional
// fields are left out of storage when they were not supplied.
type Record struct {
	ID                  int64                  `json:"id"`
	Date                string                 `json:"date"`
	SupplierID          int64                  `json:"supplier_id"`
	Category            string                 `json:"category"`
	Products            []ProductPrice         `json:"products"`
	Note                *string                `json:"note,omitempty"`
	ShippingTiers       []catalog.ShippingTier `json:"shipping_tiers,omitempty"`
	CashDiscountPercent *float64               `json:"cash_discount_percent,omitempty"`
}

// EvolutionPoint is one historical price of a product.
type EvolutionPoint struct {
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	SupplierID int64   `json:"supplier_id"`
	Note       string  `json:"note"`
}
