package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_REP        = "rep"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_DISABLED = "disabled"
)

// Rep is a sales rep who can log in and record sales. SlackUserID is the
// allow-list mapping: a Slack message only counts when its sender matches
// the SlackUserID of an active rep.
type Rep struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"uniqueIndex;type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	PasswordHash string         `gorm:"type:text" json:"-" validate:"required"`
	Role         string         `gorm:"type:varchar(50);default:'rep'" json:"role" validate:"oneof=rep admin"`
	Status       string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active disabled"`
	SlackUserID  string         `gorm:"type:varchar(32);default:null;index" json:"slack_user_id" validate:"max=32"`
	LastLoginAt  *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Rep) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

func CreateRep(name string, password string, role string) (*Rep, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	rep := &Rep{
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Status:       STATUS_ACTIVE,
	}

	if err := rep.Validate(); err != nil {
		return nil, err
	}

	return rep, nil
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

// IsAdmin reports whether the rep has the admin role.
func (r *Rep) IsAdmin() bool {
	return r.Role == ROLE_ADMIN
}

// IsActive reports whether the rep may log in and record sales.
func (r *Rep) IsActive() bool {
	return r.Status == STATUS_ACTIVE
}
