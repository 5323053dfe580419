package catalog

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildmat/buildmat/internal/shared"
)

func ptr(v float64) *float64 { return &v }

func testTable() ShippingTable {
	return ShippingTable{
		ReferenceDestination: "Campinas",
		Tiers: []ShippingTier{
			{Min: 0, Max: ptr(5000), Value: ptr(100)},
			{Min: 5000, Max: ptr(10000), Note: "ask the sales team"},
			{Min: 10000, Value: ptr(0)},
		},
	}
}

func TestFileLoaderReadsJSONAndYAML(t *testing.T) {
	loader := NewFileLoader("testdata")

	blocks, err := loader.Blocks(context.Background())
	require.NoError(t, err)
	require.Len(t, blocks.Blocks, 2)
	assert.Equal(t, "Blocok", blocks.Manufacturer.Name)
	assert.Equal(t, 90.0, blocks.Blocks[0].WidthCm)

	insulation, err := loader.Insulation(context.Background())
	require.NoError(t, err)
	require.Len(t, insulation.Products, 2)
	require.Len(t, insulation.Shipping.Tiers, 3)
	assert.Nil(t, insulation.Shipping.Tiers[1].Value)
	assert.Nil(t, insulation.Shipping.Tiers[2].Max)
	assert.Equal(t, 3.0, insulation.Manufacturer.CashDiscountPercent)
	assert.True(t, insulation.Material.FireRetardant)
}

func TestFileLoaderMissingFamily(t *testing.T) {
	_, err := NewFileLoader(t.TempDir()).Blocks(context.Background())
	require.ErrorIs(t, err, ErrMissing)
}

func TestComputeBlocksRoundsUp(t *testing.T) {
	cat, err := NewFileLoader("testdata").Blocks(context.Background())
	require.NoError(t, err)

	res, err := ComputeBlocks(cat, 3, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.Quantity)
	assert.Equal(t, 9.0, res.WallAreaM2)
	assert.Equal(t, 0.81, res.UnitAreaM2)
	assert.InDelta(t, 12*89.9, res.TotalCost, 1e-9)
	assert.Equal(t, 12*38.0, res.TotalWeightKg)
	assert.Equal(t, "internal partitions", res.Application)
}

func TestComputeBlocksCeilingProperty(t *testing.T) {
	cat := BlockCatalog{Blocks: []Block{{ID: 7, WidthCm: 90, HeightCm: 90}}}
	for _, tc := range []struct{ w, h float64 }{{0, 3}, {0.9, 0.9}, {1, 1}, {2.7, 1.8}, {10, 2.75}} {
		res, err := ComputeBlocks(cat, tc.w, tc.h, 7)
		require.NoError(t, err)
		ratio := decimal.NewFromFloat(tc.w).Mul(decimal.NewFromFloat(tc.h)).Div(decimal.NewFromFloat(0.81))
		assert.Equal(t, ratio.Ceil().IntPart(), res.Quantity, "%vx%v", tc.w, tc.h)
		assert.GreaterOrEqual(t, float64(res.Quantity)*0.81, tc.w*tc.h-1e-9)
	}
}

func TestComputeBlocksErrors(t *testing.T) {
	cat := BlockCatalog{Blocks: []Block{{ID: 1, WidthCm: 90, HeightCm: 90}}}

	_, err := ComputeBlocks(cat, 3, 3, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err = ComputeBlocks(cat, bad, 3, 1)
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	}
}

func TestComputeAllBlocksKeepsCatalogOrder(t *testing.T) {
	cat := BlockCatalog{Blocks: []Block{{ID: 4, Name: "d", WidthCm: 90, HeightCm: 90}, {ID: 2, Name: "b", WidthCm: 50, HeightCm: 50}}}
	results, err := ComputeAllBlocks(cat, 3, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(4), results[0].BlockID)
	assert.Equal(t, int64(2), results[1].BlockID)
	assert.Equal(t, int64(36), results[1].Quantity)
}

func TestComputeInsulationScenario(t *testing.T) {
	cat, err := NewFileLoader("testdata").Insulation(context.Background())
	require.NoError(t, err)

	res, err := ComputeInsulation(cat, 120, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.Panels)
	assert.Equal(t, 3000.0, res.PanelCost)
	require.NotNil(t, res.Shipping.Value)
	assert.Equal(t, 100.0, *res.Shipping.Value)
	assert.Equal(t, "shipping to Campinas", res.Shipping.Note)
	assert.Equal(t, 3100.0, res.TotalCost)
	assert.Equal(t, 2910.0, res.CashPrice)
	assert.Equal(t, 120.0, res.TotalAreaM2)
}

func TestComputeInsulationQuotedShippingAddsNothing(t *testing.T) {
	cat, err := NewFileLoader("testdata").Insulation(context.Background())
	require.NoError(t, err)

	// 40 panels × 150 = 6000 falls in the quoted tier.
	res, err := ComputeInsulation(cat, 80, 2)
	require.NoError(t, err)
	assert.Equal(t, 6000.0, res.PanelCost)
	assert.True(t, res.Shipping.Quoted)
	assert.Nil(t, res.Shipping.Value)
	assert.Equal(t, "ask the sales team", res.Shipping.Note)
	assert.Equal(t, 6000.0, res.TotalCost)
}

func TestComputeInsulationNotFound(t *testing.T) {
	_, err := ComputeInsulation(InsulationCatalog{}, 10, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestResolveShippingBoundaries(t *testing.T) {
	table := testTable()
	cases := []struct {
		subtotal float64
		value    *float64
		note     string
	}{
		{0, ptr(100), "shipping to Campinas"},
		{4999.99, ptr(100), "shipping to Campinas"},
		{5000, nil, "ask the sales team"},
		{9999.99, nil, "ask the sales team"},
		{10000, ptr(0), noteFreeShipping},
		{1e9, ptr(0), noteFreeShipping},
	}
	for _, tc := range cases {
		got := ResolveShipping(table, decimal.NewFromFloat(tc.subtotal))
		assert.Equal(t, tc.value, got.Value, "subtotal %v", tc.subtotal)
		assert.Equal(t, tc.value == nil, got.Quoted, "subtotal %v", tc.subtotal)
		assert.Equal(t, tc.note, got.Note, "subtotal %v", tc.subtotal)
	}
}

func TestResolveShippingNoMatch(t *testing.T) {
	table := ShippingTable{Tiers: []ShippingTier{{Min: 100, Max: ptr(200), Value: ptr(5)}}}
	got := ResolveShipping(table, decimal.NewFromInt(50))
	assert.True(t, got.Quoted)
	assert.Nil(t, got.Value)
	assert.Equal(t, noteQuote, got.Note)

	got = ResolveShipping(ShippingTable{}, decimal.NewFromInt(50))
	assert.True(t, got.Quoted)
}

func TestResolveShippingUsesTierNoteForOpenEnded(t *testing.T) {
	table := ShippingTable{Tiers: []ShippingTier{{Min: 0, Value: ptr(0), Note: "free above any amount"}}}
	got := ResolveShipping(table, decimal.NewFromInt(1))
	assert.Equal(t, "free above any amount", got.Note)
}

func TestAuditFindsBrokenEntries(t *testing.T) {
	blocks := BlockCatalog{Blocks: []Block{
		{ID: 1, WidthCm: 90, HeightCm: 90},
		{ID: 1, WidthCm: 0, HeightCm: 90, CashPrice: -1},
	}}
	issues := AuditBlocks(blocks)
	require.Len(t, issues, 3)
	assert.Equal(t, "duplicate id", issues[0].Message)
	assert.Equal(t, "blocks #1: duplicate id", issues[0].String())

	insulation := InsulationCatalog{
		Manufacturer: Manufacturer{CashDiscountPercent: 120},
		Shipping: ShippingTable{Tiers: []ShippingTier{
			{Min: 0, Max: ptr(100)},
			{Min: 200, Max: ptr(300)},
		}},
		Products: []InsulationPanel{{ID: 3, WidthMm: 1000, HeightMm: 1000, AreaM2: 2}},
	}
	msgs := []string{}
	for _, i := range AuditInsulation(insulation) {
		msgs = append(msgs, i.Message)
	}
	assert.Contains(t, msgs, "declared area 2 m² differs from 1000x1000 mm")
	assert.Contains(t, msgs, "cash discount 120% outside 0..100")
	assert.Contains(t, msgs, "shipping gap between 100 and 200")
	assert.Contains(t, msgs, "shipping tiers end at 300; no open-ended tier")
}

func TestAuditCleanCatalogs(t *testing.T) {
	svc := NewService(NewFileLoader("testdata"))
	issues, err := svc.Audit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestServiceDefaultsToFirstVariant(t *testing.T) {
	svc := NewService(NewFileLoader("testdata"))

	res, err := svc.Blocks(context.Background(), 3, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.BlockID)

	ins, err := svc.Insulation(context.Background(), 120, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ins.ProductID)
}
