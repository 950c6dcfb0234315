package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	USER_TYPE_ADMIN  = "admin"
	USER_TYPE_STORE  = "store"
	USER_TYPE_CLIENT = "client"
)

// AuthUser is the credential record behind every admin, store and client
// login. Admins and stores log in with their e-mail, clients with a phone
// verification code.
type AuthUser struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Login        string         `gorm:"uniqueIndex;type:varchar(200)" json:"login" validate:"required,min=5,max=200"`
	PasswordHash string         `gorm:"type:text" json:"-" validate:"required"`
	UserType     string         `gorm:"type:varchar(20);not null" json:"user_type" validate:"oneof=admin store client"`
	LastLoginAt  *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *AuthUser) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateAuthUser hashes the password and builds a validated credential record.
func CreateAuthUser(login, password, userType string) (*AuthUser, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &AuthUser{
		Login:        login,
		PasswordHash: pw,
		UserType:     userType,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the stored hash.
func (u *AuthUser) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

// SetPassword hashes and sets a new password.
func (u *AuthUser) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hashed
	return nil
}
