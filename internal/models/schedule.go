package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule is a promo message queued for delivery at a fixed time. Status
// flips to true once the broadcast has been dispatched.
type Schedule struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Media     string    `json:"media" gorm:"size:255"`
	SentAt    time.Time `json:"sent_at" gorm:"not null"`
	Status    bool      `json:"status" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Schedule
func (Schedule) TableName() string {
	return "schedules"
}
