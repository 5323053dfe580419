package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/buildmat/buildmat/internal/shared"
)

const (
	noteFreeShipping = "free shipping"
	noteQuote        = "shipping to be quoted"
)

// Shipping is the outcome of resolving a subtotal against a ShippingTable.
// Value is nil when the fee must be quoted by the manufacturer.
type Shipping struct {
	Value  *float64 `json:"value"`
	Quoted bool     `json:"to_be_quoted"`
	Note   string   `json:"note"`
}

// InsulationResult is the material estimate for one area and panel variant.
type InsulationResult struct {
	ProductID           int64    `json:"product_id"`
	Product             string   `json:"product"`
	ThicknessMm         float64  `json:"thickness_mm"`
	RequestedAreaM2     float64  `json:"requested_area_m2"`
	PanelAreaM2         float64  `json:"panel_area_m2"`
	Panels              int64    `json:"panels"`
	TotalAreaM2         float64  `json:"total_area_m2"`
	UnitPrice           float64  `json:"unit_price"`
	PricePerArea        float64  `json:"price_per_area"`
	PanelCost           float64  `json:"panel_cost"`
	CashPrice           float64  `json:"cash_price"`
	CashDiscountPercent float64  `json:"cash_discount_percent"`
	Shipping            Shipping `json:"shipping"`
	TotalCost           float64  `json:"total_cost"`
	InsulationRating    string   `json:"insulation_rating"`
	Application         string   `json:"application"`
}

// ResolveShipping finds the first tier whose band contains subtotal. Min is
// inclusive and Max exclusive; a tier without Max matches anything at or
// above Min.
func ResolveShipping(table ShippingTable, subtotal decimal.Decimal) Shipping {
	for _, tier := range table.Tiers {
		if subtotal.LessThan(decimal.NewFromFloat(tier.Min)) {
			continue
		}
		if tier.Max != nil && !subtotal.LessThan(decimal.NewFromFloat(*tier.Max)) {
			continue
		}
		if tier.Value == nil {
			return Shipping{Quoted: true, Note: noteOr(tier.Note, noteQuote)}
		}
		value := *tier.Value
		if tier.Max == nil {
			return Shipping{Value: &value, Note: noteOr(tier.Note, noteFreeShipping)}
		}
		return Shipping{Value: &value, Note: "shipping to " + table.ReferenceDestination}
	}
	return Shipping{Quoted: true, Note: noteQuote}
}

func noteOr(note, fallback string) string {
	if note == "" {
		return fallback
	}
	return note
}

// ComputeInsulation estimates how many panels of productID cover areaM2,
// including shipping and the manufacturer's cash discount.
func ComputeInsulation(cat InsulationCatalog, areaM2 float64, productID int64) (InsulationResult, error) {
	if err := checkDimensions(areaM2); err != nil {
		return InsulationResult{}, err
	}
	panel, ok := cat.Find(productID)
	if !ok {
		return InsulationResult{}, fmt.Errorf("%w: insulation product %d", shared.ErrNotFound, productID)
	}
	return computePanel(cat, panel, areaM2), nil
}

// ComputeAllInsulation runs ComputeInsulation for every product in catalog order.
func ComputeAllInsulation(cat InsulationCatalog, areaM2 float64) ([]InsulationResult, error) {
	if err := checkDimensions(areaM2); err != nil {
		return nil, err
	}
	results := make([]InsulationResult, 0, len(cat.Products))
	for _, p := range cat.Products {
		results = append(results, computePanel(cat, p, areaM2))
	}
	return results, nil
}

func computePanel(cat InsulationCatalog, panel InsulationPanel, areaM2 float64) InsulationResult {
	area := decimal.NewFromFloat(areaM2)
	panelArea := decimal.NewFromFloat(panel.AreaM2)
	panels := area.Div(panelArea).Ceil()
	panelCost := panels.Mul(decimal.NewFromFloat(panel.UnitPrice))

	shipping := ResolveShipping(cat.Shipping, panelCost)
	total := panelCost
	if shipping.Value != nil {
		total = total.Add(decimal.NewFromFloat(*shipping.Value))
	}

	discount := cat.Manufacturer.CashDiscountPercent
	cash := panelCost.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount).Div(hundred)))

	return InsulationResult{
		ProductID:           panel.ID,
		Product:             panel.Name,
		ThicknessMm:         panel.ThicknessMm,
		RequestedAreaM2:     areaM2,
		PanelAreaM2:         panel.AreaM2,
		Panels:              panels.IntPart(),
		TotalAreaM2:         panels.Mul(panelArea).InexactFloat64(),
		UnitPrice:           panel.UnitPrice,
		PricePerArea:        panel.PricePerArea,
		PanelCost:           panelCost.InexactFloat64(),
		CashPrice:           cash.InexactFloat64(),
		CashDiscountPercent: discount,
		Shipping:            shipping,
		TotalCost:           total.InexactFloat64(),
		InsulationRating:    panel.InsulationRating,
		Application:         panel.Application,
	}
}
