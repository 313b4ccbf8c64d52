package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records money received against a transaction.
type Payment struct {
	ID             string     `json:"id" gorm:"type:char(36);primaryKey"`
	TransactionID  string     `json:"transaction_id" gorm:"type:char(36);not null"`
	Payment        string     `json:"payment" gorm:"size:255;not null"`
	Reference      string     `json:"reference" gorm:"size:255;uniqueIndex;not null"`
	Amount         *uint      `json:"amount"`
	AmountReceived uint       `json:"amount_received" gorm:"not null"`
	ApprovalStatus int8       `json:"approval_status" gorm:"not null;default:0"`
	ApprovalAt     *time.Time `json:"approval_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Transaction Transaction `json:"transaction,omitempty" gorm:"foreignKey:TransactionID"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
