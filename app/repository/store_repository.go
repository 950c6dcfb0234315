package repository

import (
	"github.com/gustavolopes/lojify/app/models"
	"gorm.io/gorm"
)

// storeRepository implements the StoreRepository interface
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository instance
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

// Create persists the credential record and the store in one transaction so
// a failed store insert never leaves an orphaned login.
func (r *storeRepository) Create(store *models.Store, user *models.AuthUser) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		store.AuthUserID = user.ID
		return tx.Create(store).Error
	})
}

// GetByID retrieves a store by its ID
func (r *storeRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.First(&store, id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// GetByCNPJ retrieves a store by its CNPJ
func (r *storeRepository) GetByCNPJ(cnpj string) (*models.Store, error) {
	var store models.Store
	err := r.db.Where("cnpj = ?", cnpj).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// GetBySlug retrieves a store by its URL slug
func (r *storeRepository) GetBySlug(slug string) (*models.Store, error) {
	var store models.Store
	err := r.db.Where("slug = ?", slug).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// GetByAuthUserID retrieves the store owned by the given credential record
func (r *storeRepository) GetByAuthUserID(authUserID uint) (*models.Store, error) {
	var store models.Store
	err := r.db.Where("auth_user_id = ?", authUserID).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// Update saves store changes
func (r *storeRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

// List returns stores with pagination
func (r *storeRepository) List(offset, limit int) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&stores).Error
	return stores, err
}

// Count returns the total number of stores
func (r *storeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Store{}).Count(&count).Error
	return count, err
}
