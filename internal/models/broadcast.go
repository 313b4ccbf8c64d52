package models

import "time"

// Broadcast is an ad-hoc promo message composed on the dashboard.
type Broadcast struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Message   string    `json:"message" gorm:"type:text"`
	Media     string    `json:"media" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Broadcast
func (Broadcast) TableName() string {
	return "broadcasts"
}
