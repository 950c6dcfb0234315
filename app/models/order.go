package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order lifecycle statuses, in delivery order.
const (
	ORDER_STATUS_REALIZADO = "pedido_realizado"
	ORDER_STATUS_PREPARO   = "sendo_preparado"
	ORDER_STATUS_ENTREGA   = "saiu_para_entrega"
	ORDER_STATUS_ENTREGUE  = "entregue"
)

// Accepted payment methods.
const (
	PAYMENT_CREDITO  = "credito"
	PAYMENT_DEBITO   = "debito"
	PAYMENT_DINHEIRO = "dinheiro"
	PAYMENT_PIX      = "pix"
)

// Order is a client's purchase at a store. Amounts are centavos and the
// total is always computed server-side from the item prices.
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            string         `gorm:"uniqueIndex;type:varchar(36)" json:"uuid"`
	StoreID         uint           `gorm:"not null;index" json:"store_id"`
	ClientID        uint           `gorm:"not null;index" json:"client_id"`
	TotalCents      int64          `gorm:"not null" json:"total_cents"`
	PaymentMethod   string         `gorm:"type:varchar(20);not null" json:"payment_method" validate:"oneof=credito debito dinheiro pix"`
	CashCents       int64          `gorm:"default:0" json:"cash_cents"`
	ChangeCents     int64          `gorm:"default:0" json:"change_cents"`
	DeliveryAddress string         `gorm:"type:varchar(255);default:null" json:"delivery_address" validate:"max=255"`
	Notes           string         `gorm:"type:text;default:null" json:"notes" validate:"max=2000"`
	Status          string         `gorm:"type:varchar(30);not null;default:'pedido_realizado';index" json:"status"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem is one product line on an order. UnitCents snapshots the product
// price at order time.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity" validate:"gt=0"`
	UnitCents  int64     `gorm:"not null" json:"unit_cents"`
	TotalCents int64     `gorm:"not null" json:"total_cents"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (o *Order) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == "" {
		o.UUID = uuid.New().String()
	}
	return nil
}

// ValidStatusTransition reports whether an order may move from one status to
// the next. Only forward moves by one step are allowed.
func ValidStatusTransition(from, to string) bool {
	order := []string{ORDER_STATUS_REALIZADO, ORDER_STATUS_PREPARO, ORDER_STATUS_ENTREGA, ORDER_STATUS_ENTREGUE}
	for i := 0; i < len(order)-1; i++ {
		if order[i] == from && order[i+1] == to {
			return true
		}
	}
	return false
}
