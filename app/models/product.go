package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a sellable item in a store's catalog. Prices are centavos.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"uniqueIndex;type:varchar(36)" json:"uuid"`
	StoreID     uint           `gorm:"not null;index" json:"store_id"`
	Name        string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Description string         `gorm:"type:text;default:null" json:"description" validate:"max=2000"`
	PriceCents  int64          `gorm:"not null" json:"price_cents" validate:"gte=0"`
	ImageURL    string         `gorm:"type:varchar(255);default:null" json:"image_url" validate:"omitempty,max=255"`
	Available   bool           `gorm:"default:true" json:"available"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}
