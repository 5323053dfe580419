package catalog

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/buildmat/buildmat/internal/shared"
)

var hundred = decimal.NewFromInt(100)

// BlockResult is the material estimate for one wall and block variant.
type BlockResult struct {
	BlockID       int64   `json:"block_id"`
	Block         string  `json:"block"`
	WallAreaM2    float64 `json:"wall_area_m2"`
	UnitAreaM2    float64 `json:"unit_area_m2"`
	Quantity      int64   `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	TotalCost     float64 `json:"total_cost"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	Application   string  `json:"application"`
}

// ComputeBlocks estimates how many blocks of blockID cover a wall of the
// given size in metres. Quantities always round up.
func ComputeBlocks(cat BlockCatalog, wallWidthM, wallHeightM float64, blockID int64) (BlockResult, error) {
	if err := checkDimensions(wallWidthM, wallHeightM); err != nil {
		return BlockResult{}, err
	}
	block, ok := cat.Find(blockID)
	if !ok {
		return BlockResult{}, fmt.Errorf("%w: block %d", shared.ErrNotFound, blockID)
	}
	return computeBlock(block, wallWidthM, wallHeightM), nil
}

// ComputeAllBlocks runs ComputeBlocks for every variant in catalog order.
func ComputeAllBlocks(cat BlockCatalog, wallWidthM, wallHeightM float64) ([]BlockResult, error) {
	if err := checkDimensions(wallWidthM, wallHeightM); err != nil {
		return nil, err
	}
	results := make([]BlockResult, 0, len(cat.Blocks))
	for _, b := range cat.Blocks {
		results = append(results, computeBlock(b, wallWidthM, wallHeightM))
	}
	return results, nil
}

func computeBlock(block Block, wallWidthM, wallHeightM float64) BlockResult {
	wallArea := decimal.NewFromFloat(wallWidthM).Mul(decimal.NewFromFloat(wallHeightM))
	unitArea := decimal.NewFromFloat(block.WidthCm).Div(hundred).
		Mul(decimal.NewFromFloat(block.HeightCm).Div(hundred))
	quantity := wallArea.Div(unitArea).Ceil()
	price := decimal.NewFromFloat(block.CashPrice)

	return BlockResult{
		BlockID:       block.ID,
		Block:         block.Name,
		WallAreaM2:    wallArea.InexactFloat64(),
		UnitAreaM2:    unitArea.InexactFloat64(),
		Quantity:      quantity.IntPart(),
		UnitPrice:     block.CashPrice,
		TotalCost:     quantity.Mul(price).InexactFloat64(),
		TotalWeightKg: quantity.Mul(decimal.NewFromFloat(block.WeightKg)).InexactFloat64(),
		Application:   block.Application,
	}
}

func checkDimensions(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: dimension must be a finite non-negative number, got %v", shared.ErrInvalidInput, v)
		}
	}
	return nil
}
