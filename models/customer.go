package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is created lazily on the first booking that references an unseen
// phone number. TotalOrders and TotalAmount are running stats incremented on
// every booking and never decremented.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"not null" json:"fullName"`
	Phone    string    `gorm:"uniqueIndex;not null" json:"phone"`
	Email    string    `json:"email"`

	TotalOrders int     `gorm:"default:0" json:"totalOrders"`
	TotalAmount float64 `gorm:"type:decimal(12,2);default:0.0" json:"totalAmount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
