package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsActive(t *testing.T) {
	active := &Subscription{StoreID: 1, Status: SUBSCRIPTION_STATUS_ACTIVE}
	assert.True(t, active.IsActive())

	canceled := &Subscription{StoreID: 1, Status: SUBSCRIPTION_STATUS_CANCELED}
	assert.False(t, canceled.IsActive())

	pastDue := &Subscription{StoreID: 1, Status: SUBSCRIPTION_STATUS_PAST_DUE}
	assert.False(t, pastDue.IsActive())
}

func TestWebhookEventProcessed(t *testing.T) {
	now := time.Now()

	fresh := &WebhookEvent{Provider: BillingProviderStripe, ProviderEventID: "evt_1"}
	assert.False(t, fresh.Processed())

	failed := &WebhookEvent{ProcessedAt: &now, ProcessingError: "provider indisponível"}
	assert.False(t, failed.Processed())

	done := &WebhookEvent{ProcessedAt: &now}
	assert.True(t, done.Processed())
}
