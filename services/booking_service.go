// services/booking_service.go
package services

import (
	"errors"
	"math"
	"os"
	"time"

	"blackbird-backend/models"
	"blackbird-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingService struct {
	db       *gorm.DB
	gateway  NotificationGateway
	settings *SettingsService
}

func NewBookingService(db *gorm.DB, gateway NotificationGateway, settings *SettingsService) *BookingService {
	return &BookingService{db: db, gateway: gateway, settings: settings}
}

type BookingItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity"`
	// Required only for the default freeform-priced product; ignored for
	// fixed-price catalog entries.
	UnitPrice *float64 `json:"unitPrice"`
}

type PaymentInput struct {
	CashAmount float64 `json:"cashAmount"`
	UpiAmount  float64 `json:"upiAmount"`
}

type CreateBookingInput struct {
	Phone      string             `json:"phone" binding:"required"`
	Email      string             `json:"email"`
	FullName   string             `json:"fullName" binding:"required"`
	Size       *float64           `json:"size"`
	ArtistName string             `json:"artistName" binding:"required"`
	BranchID   uuid.UUID          `json:"branchId" binding:"required"`
	Items      []BookingItemInput `json:"items"`
	Payment    PaymentInput       `json:"payment"`

	// Creator id resolved from the authenticated caller, not the body.
	EmployeeID uuid.UUID `json:"-"`
}

// CreateBooking validates line items against the catalog, reconciles the
// split payment against the items total, upserts the customer record and its
// running stats, persists the booking with its sequential number, and fires
// the best-effort invoice notification.
func (s *BookingService) CreateBooking(input CreateBookingInput) (*models.Booking, error) {
	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", input.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Branch not found")
		}
		return nil, err
	}

	items, itemTotal, err := normalizeItems(input.Items, func(id uuid.UUID) (*models.Product, error) {
		var product models.Product
		if err := s.db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &product, nil
	})
	if err != nil {
		return nil, err
	}

	totalAmount, paymentMode, err := normalizePayment(input.Payment.CashAmount, input.Payment.UpiAmount, itemTotal)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		Phone:       input.Phone,
		Email:       input.Email,
		FullName:    input.FullName,
		Date:        time.Now(),
		Size:        input.Size,
		ArtistName:  input.ArtistName,
		BranchID:    branch.ID,
		EmployeeID:  input.EmployeeID,
		Items:       items,
		CashAmount:  utils.Round2(input.Payment.CashAmount),
		UpiAmount:   utils.Round2(input.Payment.UpiAmount),
		TotalAmount: totalAmount,
		PaymentMode: paymentMode,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		customerID, err := upsertCustomer(tx, input.Phone, input.FullName, input.Email, totalAmount)
		if err != nil {
			return err
		}
		booking.UserID = customerID

		seq, err := models.NextSequence(tx, models.CounterBooking)
		if err != nil {
			return err
		}
		booking.BookingNumber = models.FormatSequence(models.BookingNumberPrefix, seq)

		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	// Best-effort only: a notification failure never rolls back the booking.
	s.sendInvoiceNotification(&booking, branch.Name)

	return &booking, nil
}

// upsertCustomer resolves the customer by phone, refreshing the email when a
// differing non-empty value is supplied and incrementing the running stats
// atomically. A brand-new phone creates the record with its first booking
// already counted.
func upsertCustomer(tx *gorm.DB, phone, fullName, email string, amount float64) (uuid.UUID, error) {
	var customer models.Customer
	err := tx.Where("phone = ?", phone).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{
			FullName:    fullName,
			Phone:       phone,
			Email:       email,
			TotalOrders: 1,
			TotalAmount: amount,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return uuid.Nil, err
		}
		return customer.ID, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	updates := map[string]interface{}{
		"total_orders": gorm.Expr("total_orders + ?", 1),
		"total_amount": gorm.Expr("total_amount + ?", amount),
	}
	if email != "" && email != customer.Email {
		updates["email"] = email
	}
	if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(updates).Error; err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// normalizeItems resolves each row against the catalog and prices it. The
// default product takes its unit price from the caller; everything else from
// the catalog.
func normalizeItems(rows []BookingItemInput, resolve func(uuid.UUID) (*models.Product, error)) ([]models.BookingItem, float64, error) {
	if len(rows) == 0 {
		return nil, 0, ErrValidation("At least one booking item is required")
	}

	items := make([]models.BookingItem, 0, len(rows))
	var itemTotal float64

	for _, row := range rows {
		product, err := resolve(row.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil || !product.IsActive {
			return nil, 0, ErrValidation("Invalid or inactive product")
		}
		if row.Quantity < 1 {
			return nil, 0, ErrValidation("Item quantity must be a positive integer")
		}

		unitPrice := product.BasePrice
		if product.IsDefault {
			if row.UnitPrice == nil || *row.UnitPrice < 0 || math.IsNaN(*row.UnitPrice) || math.IsInf(*row.UnitPrice, 0) {
				return nil, 0, ErrValidation("A non-negative unit price is required for the default product")
			}
			unitPrice = *row.UnitPrice
		}

		lineTotal := utils.Round2(unitPrice * float64(row.Quantity))
		itemTotal += lineTotal

		items = append(items, models.BookingItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    row.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
	}

	return items, itemTotal, nil
}

// normalizePayment reconciles the cash/UPI split against the items total and
// derives the payment mode.
func normalizePayment(cash, upi, itemTotal float64) (float64, string, error) {
	if math.IsNaN(cash) || math.IsInf(cash, 0) || math.IsNaN(upi) || math.IsInf(upi, 0) {
		return 0, "", ErrValidation("Payment amounts must be finite numbers")
	}
	if cash < 0 || upi < 0 {
		return 0, "", ErrValidation("Payment amounts must be non-negative")
	}
	if cash == 0 && upi == 0 {
		return 0, "", ErrValidation("At least one payment amount must be greater than 0")
	}

	total := utils.Round2(cash + upi)
	if math.Abs(total-itemTotal) > 0.001 {
		return 0, "", ErrValidation("Payment total must match items total")
	}

	mode := models.PaymentModeSplit
	if upi == 0 {
		mode = models.PaymentModeCash
	} else if cash == 0 {
		mode = models.PaymentModeUPI
	}
	return total, mode, nil
}

func (s *BookingService) sendInvoiceNotification(b *models.Booking, branchName string) {
	settings, err := s.settings.Get()
	if err != nil {
		logSendFailure("invoice", b.Phone, "settings unavailable: "+err.Error())
		return
	}
	if !settings.WhatsappEnabled {
		return
	}

	params := InvoiceParameters(b, branchName)
	if result := s.gateway.SendTemplate(utils.DigitsOnly(b.Phone), TemplateInvoice, DefaultLanguageCode, params); !result.Success {
		logSendFailure("invoice", b.Phone, result.Detail)
	}

	if settings.SelfInvoiceMessageEnabled {
		if selfPhone := os.Getenv("SELF_INVOICE_PHONE"); selfPhone != "" {
			if result := s.gateway.SendTemplate(utils.DigitsOnly(selfPhone), TemplateInvoice, DefaultLanguageCode, params); !result.Success {
				logSendFailure("self invoice", selfPhone, result.Detail)
			}
		}
	}
}

type BookingFilters struct {
	BranchID  string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// ListBookings returns one page of the ledger sorted by date descending,
// plus the total count of matching records. Role scoping happens in the
// controller through the branch filter.
func (s *BookingService) ListBookings(filters BookingFilters) ([]models.Booking, int64, error) {
	page, limit := utils.ClampPagination(filters.Page, filters.Limit)

	query := s.db.Model(&models.Booking{})
	if filters.BranchID != "" {
		query = query.Where("branch_id = ?", filters.BranchID)
	}
	if filters.StartDate != "" {
		if start, err := time.ParseInLocation("2006-01-02", filters.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", utils.BeginningOfDay(start))
		}
	}
	if filters.EndDate != "" {
		if end, err := time.ParseInLocation("2006-01-02", filters.EndDate, time.Local); err == nil {
			query = query.Where("date <= ?", utils.EndOfDay(end))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	err := query.Preload("Items").
		Order("date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// FindByID loads one booking with its items.
func (s *BookingService) FindByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Items").First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Booking not found")
		}
		return nil, err
	}
	return &booking, nil
}
