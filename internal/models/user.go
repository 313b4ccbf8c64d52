package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a dashboard account of the surrounding store. The gateway migrates
// the table but never touches the rows.
type User struct {
	ID              string         `json:"id" gorm:"type:char(36);primaryKey"`
	Name            string         `json:"name" gorm:"size:255;not null"`
	Email           string         `json:"email" gorm:"size:255;uniqueIndex;not null"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	Password        string         `json:"-" gorm:"size:255;not null"`
	Number          string         `json:"number" gorm:"size:255;not null"`
	RememberToken   string         `json:"-" gorm:"size:100"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
