package services

import (
	"errors"

	"blackbird-backend/models"

	"gorm.io/gorm"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the settings singleton, creating it with defaults on first
// access. Callers read it per operation; updates take effect for subsequent
// operations only.
func (s *SettingsService) Get() (*models.Settings, error) {
	var settings models.Settings
	err := s.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = defaultSettings()
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

type UpdateSettingsInput struct {
	WhatsappEnabled           *bool `json:"whatsappEnabled"`
	ReminderEnabled           *bool `json:"reminderEnabled"`
	ReminderTimeDays          *int  `json:"reminderTimeDays"`
	SelfInvoiceMessageEnabled *bool `json:"selfInvoiceMessageEnabled"`
}

func (s *SettingsService) Update(input UpdateSettingsInput) (*models.Settings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	if input.WhatsappEnabled != nil {
		settings.WhatsappEnabled = *input.WhatsappEnabled
	}
	if input.ReminderEnabled != nil {
		settings.ReminderEnabled = *input.ReminderEnabled
	}
	if input.ReminderTimeDays != nil {
		if *input.ReminderTimeDays < 1 {
			return nil, ErrValidation("reminderTimeDays must be at least 1")
		}
		settings.ReminderTimeDays = *input.ReminderTimeDays
	}
	if input.SelfInvoiceMessageEnabled != nil {
		settings.SelfInvoiceMessageEnabled = *input.SelfInvoiceMessageEnabled
	}

	if err := s.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func defaultSettings() models.Settings {
	return models.Settings{
		WhatsappEnabled:           true,
		ReminderEnabled:           true,
		ReminderTimeDays:          60,
		SelfInvoiceMessageEnabled: true,
	}
}
