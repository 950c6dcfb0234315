package pricing

import "testing"

func TestMeteredBreakdownBelowLimit(t *testing.T) {
	p := DefaultMetered()

	for _, count := range []int{0, 1, 50, 198, 199} {
		b := p.Breakdown(count)
		if b.TotalCents != 3000 {
			t.Fatalf("Breakdown(%d).TotalCents = %d, want 3000", count, b.TotalCents)
		}
		if b.OverageCents != 0 || b.ExtraClients != 0 {
			t.Fatalf("Breakdown(%d) has overage below the included limit", count)
		}
	}
}

func TestMeteredBreakdownOverage(t *testing.T) {
	p := DefaultMetered()

	tests := []struct {
		count   int
		total   int64
		extra   int
		overage int64
	}{
		{count: 200, total: 3010, extra: 1, overage: 10},
		{count: 250, total: 3510, extra: 51, overage: 510},
		{count: 500, total: 6010, extra: 301, overage: 3010},
	}

	for _, tt := range tests {
		b := p.Breakdown(tt.count)
		if b.TotalCents != tt.total {
			t.Fatalf("Breakdown(%d).TotalCents = %d, want %d", tt.count, b.TotalCents, tt.total)
		}
		if b.ExtraClients != tt.extra {
			t.Fatalf("Breakdown(%d).ExtraClients = %d, want %d", tt.count, b.ExtraClients, tt.extra)
		}
		if b.OverageCents != tt.overage {
			t.Fatalf("Breakdown(%d).OverageCents = %d, want %d", tt.count, b.OverageCents, tt.overage)
		}
		if b.BaseCents != 3000 {
			t.Fatalf("Breakdown(%d).BaseCents = %d, want 3000", tt.count, b.BaseCents)
		}
	}
}

func TestMeteredBreakdownMonotonic(t *testing.T) {
	p := DefaultMetered()

	prev := int64(-1)
	for count := 0; count <= 1000; count++ {
		total := p.Breakdown(count).TotalCents
		if total < prev {
			t.Fatalf("total price decreased at %d clients: %d -> %d", count, prev, total)
		}
		prev = total
	}
}

func TestMeteredBreakdownNegativeClamped(t *testing.T) {
	b := DefaultMetered().Breakdown(-10)
	if b.TotalCents != 3000 {
		t.Fatalf("negative count should price like zero, got %d", b.TotalCents)
	}
}

func TestRecommendedTier(t *testing.T) {
	p := DefaultTiers()

	tests := []struct {
		count int
		want  string
		limit int
		cents int64
	}{
		{count: 0, want: PlanBasico, limit: 99, cents: 3000},
		{count: 50, want: PlanBasico, limit: 99, cents: 3000},
		{count: 99, want: PlanBasico, limit: 99, cents: 3000},
		{count: 100, want: PlanIntermediario, limit: 199, cents: 5500},
		{count: 150, want: PlanIntermediario, limit: 199, cents: 5500},
		{count: 250, want: PlanAvancado, limit: UnlimitedClientLimit, cents: 8000},
		{count: 100000, want: PlanAvancado, limit: UnlimitedClientLimit, cents: 8000},
	}

	for _, tt := range tests {
		tier := p.RecommendedTier(tt.count)
		if tier.ID != tt.want {
			t.Fatalf("RecommendedTier(%d) = %q, want %q", tt.count, tier.ID, tt.want)
		}
		if tier.ClientLimit != tt.limit {
			t.Fatalf("RecommendedTier(%d).ClientLimit = %d, want %d", tt.count, tier.ClientLimit, tt.limit)
		}
		if tier.MonthlyCents != tt.cents {
			t.Fatalf("RecommendedTier(%d).MonthlyCents = %d, want %d", tt.count, tier.MonthlyCents, tt.cents)
		}
	}
}

func TestTierByID(t *testing.T) {
	p := DefaultTiers()

	tier, err := p.TierByID(PlanIntermediario)
	if err != nil {
		t.Fatalf("TierByID(intermediario) failed: %v", err)
	}
	if tier.ClientLimit != 199 {
		t.Fatalf("intermediario limit = %d, want 199", tier.ClientLimit)
	}

	if _, err := p.TierByID("profissional"); err == nil {
		t.Fatalf("expected unknown plan id to fail")
	}
}

func TestTierForPrice(t *testing.T) {
	p := DefaultTiers()

	// Exact matches.
	for _, tt := range []struct {
		cents int64
		want  string
	}{
		{3000, PlanBasico},
		{5500, PlanIntermediario},
		{8000, PlanAvancado},
	} {
		if got := p.TierForPrice(tt.cents); got.ID != tt.want {
			t.Fatalf("TierForPrice(%d) = %q, want %q", tt.cents, got.ID, tt.want)
		}
	}

	// Mismatched prices bucket into the first tier at or above.
	if got := p.TierForPrice(4000); got.ID != PlanIntermediario {
		t.Fatalf("TierForPrice(4000) = %q, want intermediario", got.ID)
	}
	if got := p.TierForPrice(100); got.ID != PlanBasico {
		t.Fatalf("TierForPrice(100) = %q, want basico", got.ID)
	}
	// Above every tier still resolves to the unbounded tier.
	if got := p.TierForPrice(99999); got.ID != PlanAvancado {
		t.Fatalf("TierForPrice(99999) = %q, want avancado", got.ID)
	}
}

func TestTiersAreOrdered(t *testing.T) {
	tiers := DefaultTiers().Tiers
	for i := 1; i < len(tiers); i++ {
		if tiers[i].ClientLimit <= tiers[i-1].ClientLimit {
			t.Fatalf("tier ceilings must be strictly increasing")
		}
		if tiers[i].MonthlyCents < tiers[i-1].MonthlyCents {
			t.Fatalf("tier prices must be non-decreasing")
		}
	}
	if !tiers[len(tiers)-1].Unlimited() {
		t.Fatalf("last tier must be unbounded")
	}
}

func TestCentsToReais(t *testing.T) {
	if CentsToReais(3510) != 35.10 {
		t.Fatalf("CentsToReais(3510) = %v, want 35.10", CentsToReais(3510))
	}
}
