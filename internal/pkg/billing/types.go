package billing

import "time"

// Pricing scheme selection. Both schemes live behind the same service; the
// deployment picks one via PRICING_MODE.
const (
	ModeMetered = "metered"
	ModeTiered  = "tiered"
)

// Entitlement is the reconciled subscription view returned to the store
// dashboard and the client-registration flow. Money fields are reais to
// match the wire shape the dashboard consumes.
type Entitlement struct {
	HasSubscription    bool       `json:"hasSubscription"`
	PlanType           string     `json:"planType"`
	ClientCount        int        `json:"clientCount"`
	ClientLimit        int        `json:"clientLimit"`
	BasePrice          float64    `json:"basePrice"`
	ExtraClientsCharge float64    `json:"extraClientsCharge"`
	TotalMonthlyPrice  float64    `json:"totalMonthlyPrice"`
	CanAddClients      bool       `json:"canAddClients"`
	SubscriptionEnd    *time.Time `json:"subscriptionEnd,omitempty"`
}

// Customer is the provider-side billing identity for a store.
type Customer struct {
	ID    string
	Email string
}

// ProviderSubscription is the provider-agnostic shape of an active external
// subscription, as needed by the reconciler.
type ProviderSubscription struct {
	ID                 string
	CustomerID         string
	Status             string
	PriceCents         int64
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

// CheckoutSessionInput describes the one-shot recurring line item for a
// provider-hosted checkout. UnitAmountCents is the full monthly price; the
// line always has quantity one.
type CheckoutSessionInput struct {
	CustomerID      string
	ProductName     string
	Description     string
	UnitAmountCents int64
	Currency        string
	SuccessURL      string
	CancelURL       string
	Metadata        map[string]string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
	CustomerID      string
}
