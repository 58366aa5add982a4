package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProductName is the single freeform-priced catalog entry. Its unit
// price is supplied per booking and it can never be deactivated.
const DefaultProductName = "Tattoo"

type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	BasePrice float64   `gorm:"type:decimal(10,2);not null" json:"basePrice"`
	IsDefault bool      `gorm:"default:false" json:"isDefault"`
	IsActive  bool      `gorm:"default:true;index" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
