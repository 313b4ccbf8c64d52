package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a WhatsApp contact that has messaged the gateway at least once.
type Customer struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Number      string    `json:"number" gorm:"size:255;uniqueIndex;not null"`
	IsBusiness  bool      `json:"is_business" gorm:"not null;default:false"`
	IsSubscribe bool      `json:"is_subscribe" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}
