package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Setting slugs the gateway reads or writes.
const (
	SettingSessionSlug = "whatsapp_session"
	SettingTokenSlug   = "token"
)

// Session status values stored under SettingSessionSlug.
const (
	SessionConnected    = "Connected"
	SessionDisconnected = "Disconnected"
)

// Setting is a key-value row identified by slug. The session status row is
// the only one the gateway mutates; the token row is read-only.
type Setting struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	Slug      string    `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Value     string    `json:"value" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}
