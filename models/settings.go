package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settings is a singleton document, lazily created with defaults. It gates
// all outbound WhatsApp behavior.
type Settings struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	WhatsappEnabled  bool `gorm:"default:true" json:"whatsappEnabled"`
	ReminderEnabled  bool `gorm:"default:true" json:"reminderEnabled"`
	ReminderTimeDays int  `gorm:"default:60" json:"reminderTimeDays"`

	// When enabled, each invoice message is also copied to the studio's own
	// configured number.
	SelfInvoiceMessageEnabled bool `gorm:"default:true" json:"selfInvoiceMessageEnabled"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Settings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
