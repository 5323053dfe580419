package catalog

import (
	"fmt"
	"math"
	"sort"
)

// Issue is a data problem found in a catalog file. The calculators trust
// catalog data, so these are reported by the audit job instead of being
// handled at request time.
type Issue struct {
	Family  Family `json:"family"`
	EntryID int64  `json:"entry_id,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.EntryID == 0 {
		return fmt.Sprintf("%s: %s", i.Family, i.Message)
	}
	return fmt.Sprintf("%s #%d: %s", i.Family, i.EntryID, i.Message)
}

// areaTolerance is the accepted relative gap between a panel's declared
// area and width×height.
const areaTolerance = 0.01

// AuditBlocks reports blocks that would break or skew ComputeBlocks.
func AuditBlocks(cat BlockCatalog) []Issue {
	var issues []Issue
	add := func(id int64, format string, args ...any) {
		issues = append(issues, Issue{Family: FamilyBlocks, EntryID: id, Message: fmt.Sprintf(format, args...)})
	}
	if len(cat.Blocks) == 0 {
		add(0, "catalog has no entries")
	}
	seen := map[int64]bool{}
	for _, b := range cat.Blocks {
		if seen[b.ID] {
			add(b.ID, "duplicate id")
		}
		seen[b.ID] = true
		if b.WidthCm <= 0 || b.HeightCm <= 0 {
			add(b.ID, "face is %vx%v cm; area must be positive", b.WidthCm, b.HeightCm)
		}
		if b.CashPrice < 0 {
			add(b.ID, "negative cash price %v", b.CashPrice)
		}
		if b.WeightKg < 0 {
			add(b.ID, "negative weight %v", b.WeightKg)
		}
	}
	return issues
}

// AuditInsulation reports panels and shipping tiers that would break or
// skew ComputeInsulation.
func AuditInsulation(cat InsulationCatalog) []Issue {
	var issues []Issue
	add := func(id int64, format string, args ...any) {
		issues = append(issues, Issue{Family: FamilyInsulation, EntryID: id, Message: fmt.Sprintf(format, args...)})
	}
	if len(cat.Products) == 0 {
		add(0, "catalog has no entries")
	}
	seen := map[int64]bool{}
	for _, p := range cat.Products {
		if seen[p.ID] {
			add(p.ID, "duplicate id")
		}
		seen[p.ID] = true
		if p.AreaM2 <= 0 {
			add(p.ID, "panel area %v must be positive", p.AreaM2)
			continue
		}
		if p.WidthMm > 0 && p.HeightMm > 0 {
			face := p.WidthMm / 1000 * p.HeightMm / 1000
			if math.Abs(face-p.AreaM2)/p.AreaM2 > areaTolerance {
				add(p.ID, "declared area %v m² differs from %vx%v mm", p.AreaM2, p.WidthMm, p.HeightMm)
			}
		}
		if p.UnitPrice < 0 {
			add(p.ID, "negative unit price %v", p.UnitPrice)
		}
	}
	if d := cat.Manufacturer.CashDiscountPercent; d < 0 || d > 100 {
		add(0, "cash discount %v%% outside 0..100", d)
	}
	for _, msg := range auditTiers(cat.Shipping.Tiers) {
		add(0, "%s", msg)
	}
	return issues
}

// auditTiers checks that tiers are well formed and that, sorted by Min,
// they cover [0, ∞) without gaps or overlaps.
func auditTiers(tiers []ShippingTier) []string {
	if len(tiers) == 0 {
		return []string{"shipping table has no tiers"}
	}
	var msgs []string
	sorted := make([]ShippingTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	if sorted[0].Min > 0 {
		msgs = append(msgs, fmt.Sprintf("shipping tiers start at %v; lower subtotals fall through", sorted[0].Min))
	}
	for i, t := range sorted {
		if t.Max != nil && *t.Max <= t.Min {
			msgs = append(msgs, fmt.Sprintf("shipping tier [%v, %v) is empty", t.Min, *t.Max))
		}
		if i == len(sorted)-1 {
			if t.Max != nil {
				msgs = append(msgs, fmt.Sprintf("shipping tiers end at %v; no open-ended tier", *t.Max))
			}
			break
		}
		next := sorted[i+1]
		switch {
		case t.Max == nil:
			msgs = append(msgs, fmt.Sprintf("open-ended shipping tier at %v is not last", t.Min))
		case *t.Max < next.Min:
			msgs = append(msgs, fmt.Sprintf("shipping gap between %v and %v", *t.Max, next.Min))
		case *t.Max > next.Min:
			msgs = append(msgs, fmt.Sprintf("shipping tiers overlap at %v", next.Min))
		}
	}
	return msgs
}
