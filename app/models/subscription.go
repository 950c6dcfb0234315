package models

import "time"

// Subscription statuses as mirrored from the billing provider.
const (
	SUBSCRIPTION_STATUS_ACTIVE   = "active"
	SUBSCRIPTION_STATUS_CANCELED = "canceled"
	SUBSCRIPTION_STATUS_PAST_DUE = "past_due"
)

// Subscription mirrors the provider's authoritative subscription state for a
// store. At most one row exists per store; the billing reconciler is the
// only writer. When Status is not active the stale plan and limit fields are
// ignored and the store falls back to the trial allowance.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	StoreID              uint       `gorm:"not null;uniqueIndex:ux_subscriptions_store" json:"store_id"`
	PlanType             string     `gorm:"type:varchar(30);not null" json:"plan_type"`
	ClientLimit          int        `gorm:"not null" json:"client_limit"`
	MonthlyPriceCents    int64      `gorm:"not null" json:"monthly_price_cents"`
	Status               string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	StripeCustomerID     string     `gorm:"type:varchar(191);index" json:"stripe_customer_id"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);index" json:"stripe_subscription_id"`
	CurrentPeriodStart   *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription currently entitles the store.
func (s *Subscription) IsActive() bool {
	return s.Status == SUBSCRIPTION_STATUS_ACTIVE
}
