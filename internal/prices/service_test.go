package prices

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/buildmat/buildmat/internal/catalog"
	"github.com/buildmat/buildmat/internal/platform/storage"
	"github.com/buildmat/buildmat/internal/shared"
)

type memRepo struct {
	items []Record
	saves int
}

func (m *memRepo) Load(context.Context) ([]Record, error) {
	out := make([]Record, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memRepo) Save(_ context.Context, items []Record) error {
	m.saves++
	m.items = append([]Record(nil), items...)
	return nil
}

func newTestService(items ...Record) (*Service, *memRepo) {
	repo := &memRepo{items: items}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC) }
	return svc, repo
}

func strPtr(s string) *string { return &s }
func fPtr(v float64) *float64 { return &v }
func line(id int64, price float64) []ProductPrice {
	return []ProductPrice{{ProductID: id, Name: "product", UnitPrice: price}}
}

func TestListAllSortsByDateDescendingStable(t *testing.T) {
	svc, _ := newTestService(
		Record{ID: 1, Date: "2024-01-01"},
		Record{ID: 2, Date: "2024-03-01"},
		Record{ID: 3, Date: "2024-01-01"},
		Record{ID: 4, Date: "2024-02-01"},
	)
	records, err := svc.ListAll(context.Background())
	require.NoError(t, err)

	ids := []int64{}
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids)
}

func TestMostRecentOnePerGroup(t *testing.T) {
	svc, _ := newTestService(
		Record{ID: 1, SupplierID: 1, Category: "blocks", Date: "2024-01-01"},
		Record{ID: 2, SupplierID: 2, Category: "blocks", Date: "2024-02-01"},
		Record{ID: 3, SupplierID: 1, Category: "blocks", Date: "2024-03-01"},
		Record{ID: 4, SupplierID: 1, Category: "insulation", Date: "2023-12-01"},
		Record{ID: 5, SupplierID: 1, Category: "blocks", Date: "2024-02-15"},
	)

	records, err := svc.MostRecent(context.Background(), CurrentFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, int64(4), records[2].ID)

	records, err = svc.MostRecent(context.Background(), CurrentFilter{SupplierID: 1, Category: "blocks"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(3), records[0].ID)

	records, err = svc.MostRecent(context.Background(), CurrentFilter{Category: "roofing"})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestMostRecentTieGoesToLaterRecord(t *testing.T) {
	svc, _ := newTestService(
		Record{ID: 1, SupplierID: 1, Category: "blocks", Date: "2024-03-01"},
		Record{ID: 2, SupplierID: 1, Category: "blocks", Date: "2024-03-01"},
	)
	records, err := svc.MostRecent(context.Background(), CurrentFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].ID)
}

func TestAppendDefaultsAndIDs(t *testing.T) {
	svc, repo := newTestService(Record{ID: 4, Date: "2024-01-01"})

	rec, err := svc.Append(context.Background(), AppendPriceRequest{
		SupplierID: 9,
		Category:   "blocks",
		Products:   line(1, 89.9),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.ID)
	assert.Equal(t, "2024-06-10", rec.Date)
	assert.Nil(t, rec.Note)
	assert.Nil(t, rec.ShippingTiers)
	assert.Nil(t, rec.CashDiscountPercent)
	assert.Len(t, repo.items, 2)

	rec, err = svc.Append(context.Background(), AppendPriceRequest{
		SupplierID:          9,
		Category:            "insulation",
		Products:            line(2, 50),
		Date:                strPtr("2024-05-01"),
		Note:                strPtr("promo"),
		CashDiscountPercent: fPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), rec.ID)
	assert.Equal(t, "2024-05-01", rec.Date)
	assert.Equal(t, "promo", *rec.Note)
}

func TestAppendValidation(t *testing.T) {
	svc, repo := newTestService()
	bad := []AppendPriceRequest{
		{SupplierID: 1, Category: "blocks"},
		{SupplierID: 1, Category: "blocks", Products: []ProductPrice{}},
		{SupplierID: 1, Category: "blocks", Products: line(1, 10), Date: strPtr("10/06/2024")},
		{SupplierID: 1, Category: "blocks", Products: line(1, -1)},
		{Category: "blocks", Products: line(1, 10)},
		{SupplierID: 1, Products: line(1, 10)},
		{SupplierID: 1, Category: "blocks", Products: line(1, 10), CashDiscountPercent: fPtr(101)},
	}
	for i, req := range bad {
		_, err := svc.Append(context.Background(), req)
		require.ErrorIs(t, err, shared.ErrInvalidInput, "case %d", i)
	}
	assert.Zero(t, repo.saves)
}

func TestAppendRoundTripOmitsAbsentFields(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStore(t.TempDir())
	repo := NewRepository(store)
	_, err := repo.Ensure(ctx)
	require.NoError(t, err)

	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC) }

	_, err = svc.Append(ctx, AppendPriceRequest{SupplierID: 1, Category: "blocks", Products: line(1, 89.9)})
	require.NoError(t, err)
	_, err = svc.Append(ctx, AppendPriceRequest{
		SupplierID: 2, Category: "insulation", Products: line(1, 50),
		ShippingTiers: []catalog.ShippingTier{{Min: 0, Max: fPtr(5000), Value: fPtr(100)}, {Min: 5000}},
	})
	require.NoError(t, err)

	data, err := store.Get(ctx, DocumentKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"history": [
		{"id": 1, "date": "2024-06-10", "supplier_id": 1, "category": "blocks",
		 "products": [{"product_id": 1, "name": "product", "unit_price": 89.9}]},
		{"id": 2, "date": "2024-06-10", "supplier_id": 2, "category": "insulation",
		 "products": [{"product_id": 1, "name": "product", "unit_price": 50}],
		 "shipping_tiers": [{"min": 0, "max": 5000, "value": 100}, {"min": 5000}]}
	]}`, string(data))

	records, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[1].ShippingTiers[1].Value)
}

func TestPriceEvolutionAscending(t *testing.T) {
	svc, _ := newTestService(
		Record{ID: 1, SupplierID: 1, Category: "blocks", Date: "2024-03-01", Products: line(1, 95)},
		Record{ID: 2, SupplierID: 2, Category: "blocks", Date: "2024-01-01", Products: line(1, 90), Note: strPtr("first")},
		Record{ID: 3, SupplierID: 2, Category: "insulation", Date: "2023-01-01", Products: line(1, 40)},
		Record{ID: 4, SupplierID: 1, Category: "blocks", Date: "2024-02-01", Products: []ProductPrice{
			{ProductID: 2, UnitPrice: 120}, {ProductID: 1, UnitPrice: 92},
		}},
	)
	points, err := svc.PriceEvolution(context.Background(), "blocks", 1)
	require.NoError(t, err)
	assert.Equal(t, []EvolutionPoint{
		{Date: "2024-01-01", Price: 90, SupplierID: 2, Note: "first"},
		{Date: "2024-02-01", Price: 92, SupplierID: 1},
		{Date: "2024-03-01", Price: 95, SupplierID: 1},
	}, points)

	points, err = svc.PriceEvolution(context.Background(), "blocks", 99)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestExportWritesOneRowPerProductLine(t *testing.T) {
	svc, _ := newTestService(
		Record{ID: 1, SupplierID: 1, Category: "blocks", Date: "2024-01-01", Products: line(1, 90)},
		Record{ID: 2, SupplierID: 3, Category: "insulation", Date: "2024-02-01", Note: strPtr("promo"), Products: []ProductPrice{
			{ProductID: 1, Name: "EPS 30", UnitPrice: 50, PricePerArea: fPtr(25)},
			{ProductID: 2, Name: "EPS 40", UnitPrice: 60},
		}},
	)
	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Record", rows[0][0])
	assert.Equal(t, []string{"2", "2024-02-01", "3", "insulation", "1", "EPS 30", "50", "25", "", "promo"}, rows[1])
	assert.Equal(t, "1", rows[3][0])
}
