package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const BranchNumberPrefix = "BRANCH"

type Branch struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null;index" json:"name"`
	Address string    `gorm:"not null" json:"address"`

	// Assigned once at creation from the branch counter, never updated.
	BranchNumber  string `gorm:"uniqueIndex;not null" json:"branchNumber"`
	EmployeeCount int    `gorm:"default:0" json:"employeeCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Branch) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
