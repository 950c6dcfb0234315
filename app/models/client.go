package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is an end customer registered under a store. Every created or
// removed client adjusts the store's ClientCount usage counter.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"uniqueIndex;type:varchar(36)" json:"uuid"`
	StoreID   uint           `gorm:"not null;index" json:"store_id"`
	Name      string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Phone     string         `gorm:"type:varchar(20);index" json:"phone" validate:"required,min=8,max=20"`
	Address   string         `gorm:"type:varchar(255);default:null" json:"address" validate:"max=255"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Client) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}
