package repository

import (
	"github.com/gustavolopes/lojify/app/models"
	"gorm.io/gorm"
)

// AuthUserRepository defines the interface for credential records
type AuthUserRepository interface {
	Create(user *models.AuthUser) error
	GetByLogin(login string) (*models.AuthUser, error)
	UpdateLastLogin(id uint) error
}

// StoreRepository defines the interface for store (tenant) operations
type StoreRepository interface {
	Create(store *models.Store, user *models.AuthUser) error
	GetByID(id uint) (*models.Store, error)
	GetByCNPJ(cnpj string) (*models.Store, error)
	GetBySlug(slug string) (*models.Store, error)
	GetByAuthUserID(authUserID uint) (*models.Store, error)
	Update(store *models.Store) error
	List(offset, limit int) ([]models.Store, error)
	Count() (int64, error)
}

// ClientRepository defines the interface for client records. Create and
// Delete keep the store's client_count usage counter in sync within the
// same transaction.
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	GetByPhone(storeID uint, phone string) (*models.Client, error)
	ListByStore(storeID uint, offset, limit int) ([]models.Client, error)
	CountByStore(storeID uint) (int64, error)
	Update(client *models.Client) error
	Delete(id uint) error
}

// ProductRepository defines the interface for catalog products
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	ListByStore(storeID uint, onlyAvailable bool, offset, limit int) ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
}

// OrderRepository defines the interface for orders and their items
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByUUID(uuid string) (*models.Order, error)
	ListByStore(storeID uint, offset, limit int) ([]models.Order, error)
	ListByClient(clientID uint, offset, limit int) ([]models.Order, error)
	UpdateStatus(id uint, status string) error
}

// Repositories bundles all repository implementations
type Repositories struct {
	AuthUser AuthUserRepository
	Store    StoreRepository
	Client   ClientRepository
	Product  ProductRepository
	Order    OrderRepository
}

// NewRepositories creates all repositories with the given database connection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		AuthUser: NewAuthUserRepository(db),
		Store:    NewStoreRepository(db),
		Client:   NewClientRepository(db),
		Product:  NewProductRepository(db),
		Order:    NewOrderRepository(db),
	}
}
