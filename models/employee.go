package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const EmployeeNumberPrefix = "EMP"

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UniqueID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"uniqueId"`

	FullName    string `gorm:"not null" json:"fullName"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber string `gorm:"not null" json:"phoneNumber"`

	// Assigned once at creation from the employee counter.
	EmployeeNumber string `gorm:"uniqueIndex;not null" json:"employeeNumber"`

	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"type:varchar(20);default:'employee'" json:"role"`
	BranchID uuid.UUID `gorm:"type:uuid;index;not null" json:"branchId"`

	Branch Branch `gorm:"foreignKey:BranchID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.UniqueID == uuid.Nil {
		e.UniqueID = uuid.New()
	}
	return
}
