package services

import (
	"wa_gateway/internal/models"

	"gorm.io/gorm"
)

// SettingService reads and writes the settings table.
type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// ValidateToken reports whether token matches the stored API token. An empty
// stored value never validates.
func (s *SettingService) ValidateToken(token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var count int64
	err := s.db.Model(&models.Setting{}).
		Where("slug = ? AND value = ?", models.SettingTokenSlug, token).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// SetSessionStatus updates the whatsapp_session status row.
func (s *SettingService) SetSessionStatus(status string) error {
	return s.db.Model(&models.Setting{}).
		Where("slug = ?", models.SettingSessionSlug).
		Update("value", status).Error
}

// SessionStatus returns the current whatsapp_session status value.
func (s *SettingService) SessionStatus() (string, error) {
	var setting models.Setting
	err := s.db.Where("slug = ?", models.SettingSessionSlug).First(&setting).Error
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
