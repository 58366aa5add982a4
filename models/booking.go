package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const BookingNumberPrefix = "INV"

// Payment modes derived from which split components are nonzero.
const (
	PaymentModeCash  = "CASH"
	PaymentModeUPI   = "UPI"
	PaymentModeSplit = "SPLIT"
)

type BookingItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"bookingId"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`

	// Name snapshot taken at booking time; later catalog renames do not
	// rewrite history.
	ProductName string  `gorm:"not null" json:"productName"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	LineTotal   float64 `gorm:"type:decimal(10,2);not null" json:"lineTotal"`
}

func (i *BookingItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingNumber string    `gorm:"uniqueIndex;not null" json:"bookingNumber"`

	Phone    string `gorm:"index;not null" json:"phone"`
	Email    string `json:"email"`
	FullName string `gorm:"not null" json:"fullName"`

	Date       time.Time `gorm:"index;default:CURRENT_TIMESTAMP" json:"date"`
	Size       *float64  `json:"size"`
	ArtistName string    `gorm:"not null" json:"artistName"`

	BranchID uuid.UUID `gorm:"type:uuid;index;not null" json:"branchId"`
	// Creator id from the authenticated caller; an admin or an employee.
	EmployeeID uuid.UUID `gorm:"type:uuid;index;not null" json:"employeeId"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	Items []BookingItem `gorm:"foreignKey:BookingID" json:"items"`

	CashAmount  float64 `gorm:"type:decimal(10,2);default:0.0" json:"cashAmount"`
	UpiAmount   float64 `gorm:"type:decimal(10,2);default:0.0" json:"upiAmount"`
	TotalAmount float64 `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	PaymentMode string  `gorm:"type:varchar(10);not null;index" json:"paymentMode"`

	// Write-once: null until the post-booking reminder has fired.
	ReminderSentAt *time.Time `json:"reminderSentAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// PaymentMethodDisplay is the human-readable payment label used on invoices
// and in API responses.
func (b *Booking) PaymentMethodDisplay() string {
	if b.PaymentMode == PaymentModeSplit {
		return "CASH + UPI"
	}
	return b.PaymentMode
}

func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	return json.Marshal(struct {
		alias
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"paymentMethod"`
		ReminderSent  bool    `json:"reminderSent"`
	}{
		alias:         alias(b),
		Amount:        b.TotalAmount,
		PaymentMethod: b.PaymentMethodDisplay(),
		ReminderSent:  b.ReminderSentAt != nil,
	})
}
