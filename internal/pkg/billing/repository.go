package billing

import (
	"errors"
	"time"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetStoreByID(id uint) (*models.Store, error)
	GetSubscriptionByStore(storeID uint) (*models.Subscription, error)
	GetSubscriptionByCustomerID(customerID string) (*models.Subscription, error)
	UpsertSubscription(sub *models.Subscription) error
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetStoreByID(id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.First(&store, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("loja não encontrada")
	}
	if err != nil {
		return nil, apperr.Persistence("loading store failed", err)
	}
	return &store, nil
}

func (r *gormRepository) GetSubscriptionByStore(storeID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("store_id = ?", storeID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("assinatura não encontrada")
	}
	if err != nil {
		return nil, apperr.Persistence("loading subscription failed", err)
	}
	return &sub, nil
}

func (r *gormRepository) GetSubscriptionByCustomerID(customerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("assinatura não encontrada")
	}
	if err != nil {
		return nil, apperr.Persistence("loading subscription failed", err)
	}
	return &sub, nil
}

// UpsertSubscription converges the single subscription row per store:
// insert-or-update keyed on store_id, last write wins on conflicting fields.
// All fields are re-derived from the provider's authoritative state, so
// concurrent reconciliations converge instead of duplicating rows.
func (r *gormRepository) UpsertSubscription(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "store_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_type",
			"client_limit",
			"monthly_price_cents",
			"status",
			"stripe_customer_id",
			"stripe_subscription_id",
			"current_period_start",
			"current_period_end",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return apperr.Persistence("upserting subscription failed", err)
	}

	// Ensure ID is populated after upsert.
	if err := r.db.Where("store_id = ?", sub.StoreID).First(sub).Error; err != nil {
		return apperr.Persistence("reloading subscription failed", err)
	}
	return nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, apperr.Persistence("storing webhook event failed", tx.Error)
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, apperr.Persistence("reloading webhook event failed", err)
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	if err := r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return apperr.Persistence("marking webhook event failed", err)
	}
	return nil
}
