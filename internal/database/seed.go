package database

import (
	"log"

	"wa_gateway/internal/models"

	"gorm.io/gorm"
)

// seedSettings ensures the setting rows the gateway depends on exist. The
// session status row is mutated at runtime; the token row is only created
// here when missing so operators can fill in the secret.
func seedSettings(db *gorm.DB) error {
	defaults := []models.Setting{
		{Slug: models.SettingSessionSlug, Name: "Whatsapp Session", Value: models.SessionDisconnected},
		{Slug: models.SettingTokenSlug, Name: "API Token", Value: ""},
	}

	for _, s := range defaults {
		var existing models.Setting
		err := db.Where("slug = ?", s.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&s).Error; err != nil {
			return err
		}
		log.Printf("Seeded setting %q", s.Slug)
	}

	return nil
}
