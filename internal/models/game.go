package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Game is a top-up product of the surrounding store.
type Game struct {
	ID        string         `json:"id" gorm:"type:char(36);primaryKey"`
	Code      string         `json:"code" gorm:"size:255;uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"size:255;not null"`
	Unit      string         `json:"unit" gorm:"size:255;not null"`
	Items     string         `json:"items" gorm:"type:json;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Game
func (Game) TableName() string {
	return "games"
}
