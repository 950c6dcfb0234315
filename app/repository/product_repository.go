package repository

import (
	"github.com/gustavolopes/lojify/app/models"
	"gorm.io/gorm"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product
func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetByID retrieves a product by its ID
func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByStore returns a store's catalog with pagination
func (r *productRepository) ListByStore(storeID uint, onlyAvailable bool, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Where("store_id = ?", storeID)
	if onlyAvailable {
		query = query.Where("available = ?", true)
	}
	err := query.Offset(offset).Limit(limit).Order("name ASC").Find(&products).Error
	return products, err
}

// Update saves product changes
func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product
func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}
