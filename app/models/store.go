package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a tenant: a registered shop with its own clients, products and
// orders. ClientCount is the authoritative usage counter the subscription
// price is derived from; it is only mutated through the client repository
// and never drops below zero.
type Store struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	UUID                 string         `gorm:"uniqueIndex;type:varchar(36)" json:"uuid"`
	AuthUserID           uint           `gorm:"not null;index" json:"-"`
	CNPJ                 string         `gorm:"uniqueIndex;type:varchar(18)" json:"cnpj" validate:"required,min=14,max=18"`
	Name                 string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Slug                 string         `gorm:"uniqueIndex;type:varchar(160)" json:"slug" validate:"required"`
	Subtitle             string         `gorm:"type:varchar(200);default:null" json:"subtitle" validate:"max=200"`
	PrimaryColor         string         `gorm:"type:varchar(7);default:null" json:"primary_color" validate:"omitempty,hexcolor"`
	Address              string         `gorm:"type:varchar(255);default:null" json:"address" validate:"max=255"`
	ResponsibleName      string         `gorm:"type:varchar(150)" json:"responsible_name" validate:"required,min=3,max=150"`
	Email                string         `gorm:"type:varchar(200)" json:"email" validate:"required,email"`
	ClientCount          int            `gorm:"not null;default:0" json:"client_count"`
	PaymentEnabled       bool           `gorm:"default:false" json:"payment_enabled"`
	SubscriptionRequired bool           `gorm:"default:true" json:"subscription_required"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Store) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	return nil
}

// SlugFromName derives the unique URL slug from a store name: accents
// folded, lowercased, runs of non-alphanumerics collapsed to a dash.
func SlugFromName(name string) string {
	folded := foldAccents(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	lastDash := true
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var accentFold = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "õ", "o", "ô", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

func foldAccents(s string) string {
	return accentFold.Replace(s)
}
