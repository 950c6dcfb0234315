package pricing

import (
	"log"

	"github.com/gustavolopes/lojify/internal/pkg/apperr"
)

// Client limits use a large sentinel instead of a nullable column so that the
// comparison in CanAddClients stays a single integer check.
const UnlimitedClientLimit = 999999

// Plan identifiers persisted in subscriptions.plan_type.
const (
	PlanTrial         = "trial"
	PlanUnico         = "unico"
	PlanBasico        = "basico"
	PlanIntermediario = "intermediario"
	PlanAvancado      = "avancado"
)

// Breakdown is the price composition for a given client count. All amounts
// are centavos; conversion to reais happens only at the JSON and provider
// boundaries.
type Breakdown struct {
	BaseCents    int64
	OverageCents int64
	TotalCents   int64
	ExtraClients int
}

// MeteredPolicy charges a flat base price up to IncludedClients and a
// per-client overage above it. This is the "plano unico" scheme.
type MeteredPolicy struct {
	BaseCents        int64
	IncludedClients  int
	OverageUnitCents int64
}

// DefaultMetered is R$ 30,00 base for up to 199 clients plus R$ 0,10 per
// extra client.
func DefaultMetered() MeteredPolicy {
	return MeteredPolicy{
		BaseCents:        3000,
		IncludedClients:  199,
		OverageUnitCents: 10,
	}
}

// Breakdown computes the monthly price for clientCount clients. Total for
// any count. Negative counts are clamped to zero; callers that accept
// external input validate before calling.
func (p MeteredPolicy) Breakdown(clientCount int) Breakdown {
	if clientCount < 0 {
		clientCount = 0
	}
	if clientCount <= p.IncludedClients {
		return Breakdown{
			BaseCents:  p.BaseCents,
			TotalCents: p.BaseCents,
		}
	}
	extra := clientCount - p.IncludedClients
	overage := int64(extra) * p.OverageUnitCents
	return Breakdown{
		BaseCents:    p.BaseCents,
		OverageCents: overage,
		TotalCents:   p.BaseCents + overage,
		ExtraClients: extra,
	}
}

// Tier is one discrete plan: a client ceiling and a fixed monthly price.
type Tier struct {
	ID           string
	ClientLimit  int
	MonthlyCents int64
}

// Unlimited reports whether the tier has no client ceiling.
func (t Tier) Unlimited() bool {
	return t.ClientLimit >= UnlimitedClientLimit
}

// TieredPolicy is an ordered list of discrete tiers. Ceilings are strictly
// increasing, prices non-decreasing, and the last tier is unbounded.
type TieredPolicy struct {
	Tiers []Tier
}

// DefaultTiers returns the three-tier catalog.
func DefaultTiers() TieredPolicy {
	return TieredPolicy{Tiers: []Tier{
		{ID: PlanBasico, ClientLimit: 99, MonthlyCents: 3000},
		{ID: PlanIntermediario, ClientLimit: 199, MonthlyCents: 5500},
		{ID: PlanAvancado, ClientLimit: UnlimitedClientLimit, MonthlyCents: 8000},
	}}
}

// RecommendedTier returns the first tier whose ceiling covers clientCount.
// The last tier is unbounded, so every count qualifies for something.
func (p TieredPolicy) RecommendedTier(clientCount int) Tier {
	if clientCount < 0 {
		clientCount = 0
	}
	for _, t := range p.Tiers {
		if clientCount <= t.ClientLimit {
			return t
		}
	}
	return p.Tiers[len(p.Tiers)-1]
}

// TierByID resolves a plan identifier to its tier.
func (p TieredPolicy) TierByID(id string) (Tier, error) {
	for _, t := range p.Tiers {
		if t.ID == id {
			return t, nil
		}
	}
	return Tier{}, apperr.Validation("plano desconhecido: " + id)
}

// TierForPrice maps an externally-set monthly price back to a tier. The
// provider is authoritative for the price paid, not for a tier id, so the
// inverse buckets into the first tier whose price is at or above the paid
// amount. A price that matches no configured tier exactly is logged for
// operator visibility and still bucketed rather than failed.
func (p TieredPolicy) TierForPrice(cents int64) Tier {
	for _, t := range p.Tiers {
		if cents == t.MonthlyCents {
			return t
		}
	}
	for _, t := range p.Tiers {
		if cents <= t.MonthlyCents {
			log.Printf("[PRICING] external price %d matches no tier exactly, bucketed into %s", cents, t.ID)
			return t
		}
	}
	last := p.Tiers[len(p.Tiers)-1]
	log.Printf("[PRICING] external price %d above all tiers, bucketed into %s", cents, last.ID)
	return last
}

// CentsToReais converts a minor-unit amount to the decimal form used in
// JSON payloads.
func CentsToReais(cents int64) float64 {
	return float64(cents) / 100
}
