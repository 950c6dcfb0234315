package repository

import (
	"time"

	"github.com/gustavolopes/lojify/app/models"
	"gorm.io/gorm"
)

// authUserRepository implements the AuthUserRepository interface
type authUserRepository struct {
	db *gorm.DB
}

// NewAuthUserRepository creates a new auth user repository instance
func NewAuthUserRepository(db *gorm.DB) AuthUserRepository {
	return &authUserRepository{db: db}
}

// Create creates a new credential record
func (r *authUserRepository) Create(user *models.AuthUser) error {
	return r.db.Create(user).Error
}

// GetByLogin retrieves a credential record by its login (CNPJ or e-mail)
func (r *authUserRepository) GetByLogin(login string) (*models.AuthUser, error) {
	var user models.AuthUser
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin stamps the last successful login time
func (r *authUserRepository) UpdateLastLogin(id uint) error {
	now := time.Now()
	return r.db.Model(&models.AuthUser{}).Where("id = ?", id).Update("last_login_at", &now).Error
}
