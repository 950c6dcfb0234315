package repository

import (
	"github.com/gustavolopes/lojify/app/models"
	"gorm.io/gorm"
)

// clientRepository implements the ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts the client and increments the owning store's usage counter
// in the same transaction.
func (r *clientRepository) Create(client *models.Client) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		return tx.Model(&models.Store{}).
			Where("id = ?", client.StoreID).
			UpdateColumn("client_count", gorm.Expr("client_count + 1")).Error
	})
}

// GetByID retrieves a client by its ID
func (r *clientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByPhone retrieves a client of a store by phone number
func (r *clientRepository) GetByPhone(storeID uint, phone string) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("store_id = ? AND phone = ?", storeID, phone).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ListByStore returns a store's clients with pagination
func (r *clientRepository) ListByStore(storeID uint, offset, limit int) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Where("store_id = ?", storeID).
		Offset(offset).Limit(limit).Order("created_at DESC").Find(&clients).Error
	return clients, err
}

// CountByStore returns how many clients a store has registered
func (r *clientRepository) CountByStore(storeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Where("store_id = ?", storeID).Count(&count).Error
	return count, err
}

// Update saves client changes
func (r *clientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete removes the client and decrements the store's usage counter,
// floored at zero.
func (r *clientRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&client).Error; err != nil {
			return err
		}
		return tx.Model(&models.Store{}).
			Where("id = ?", client.StoreID).
			UpdateColumn("client_count", gorm.Expr("GREATEST(client_count - 1, 0)")).Error
	})
}
