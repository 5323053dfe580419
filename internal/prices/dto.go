package prices

import "github.com/buildmat/buildmat/internal/catalog"

type AppendPriceRequest struct {
	SupplierID          int64                  `json:"supplier_id" validate:"required,gt=0"`
	Category            string                 `json:"category" validate:"required,max=100"`
	Products            []ProductPrice         `json:"products" validate:"required,min=1,dive"`
	Date                *string                `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note                *string                `json:"note,omitempty" validate:"omitempty,max=1000"`
	ShippingTiers       []catalog.ShippingTier `json:"shipping_tiers,omitempty"`
	CashDiscountPercent *float64               `json:"cash_discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// CurrentFilter narrows MostRecent. Zero values do not filter.
type CurrentFilter struct {
	SupplierID int64
	Category   string
}
