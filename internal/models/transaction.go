package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is a store order. Owned by the commerce side; the gateway only
// migrates the table.
type Transaction struct {
	ID         string    `json:"id" gorm:"type:char(36);primaryKey"`
	Code       string    `json:"code" gorm:"size:255;uniqueIndex;not null"`
	CustomerID string    `json:"customer_id" gorm:"type:char(36);not null"`
	GameID     *string   `json:"game_id" gorm:"type:char(36)"`
	Item       *uint     `json:"item"`
	Price      *uint     `json:"price"`
	Data       string    `json:"data" gorm:"type:text"`
	PaymentID  *string   `json:"payment_id" gorm:"type:char(36)"`
	Status     int8      `json:"status" gorm:"not null;default:0"`
	UserID     *string   `json:"user_id" gorm:"type:char(36)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:TransactionID"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
