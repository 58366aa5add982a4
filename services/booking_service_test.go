package services

import (
	"errors"
	"math"
	"testing"

	"blackbird-backend/models"

	"github.com/google/uuid"
)

func floatPtr(v float64) *float64 { return &v }

func catalogResolver(products map[uuid.UUID]*models.Product) func(uuid.UUID) (*models.Product, error) {
	return func(id uuid.UUID) (*models.Product, error) {
		return products[id], nil
	}
}

func TestNormalizeItemsFixedPriceProduct(t *testing.T) {
	productID := uuid.New()
	resolve := catalogResolver(map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Piercing", BasePrice: 500, IsActive: true},
	})

	items, total, err := normalizeItems([]BookingItemInput{
		{ProductID: productID, Quantity: 2},
	}, resolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1000 {
		t.Errorf("total = %v, want 1000", total)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].UnitPrice != 500 || items[0].LineTotal != 1000 {
		t.Errorf("item priced %v/%v, want 500/1000", items[0].UnitPrice, items[0].LineTotal)
	}
	if items[0].ProductName != "Piercing" {
		t.Errorf("ProductName = %q, want catalog snapshot", items[0].ProductName)
	}
}

func TestNormalizeItemsDefaultProductUsesCallerPrice(t *testing.T) {
	productID := uuid.New()
	resolve := catalogResolver(map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: models.DefaultProductName, BasePrice: 0, IsDefault: true, IsActive: true},
	})

	items, total, err := normalizeItems([]BookingItemInput{
		{ProductID: productID, Quantity: 1, UnitPrice: floatPtr(750)},
	}, resolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 750 {
		t.Errorf("total = %v, want 750", total)
	}
	if items[0].UnitPrice != 750 {
		t.Errorf("UnitPrice = %v, want caller-supplied 750", items[0].UnitPrice)
	}
}

func TestNormalizeItemsRejections(t *testing.T) {
	fixedID := uuid.New()
	defaultID := uuid.New()
	inactiveID := uuid.New()
	resolve := catalogResolver(map[uuid.UUID]*models.Product{
		fixedID:    {ID: fixedID, Name: "Piercing", BasePrice: 500, IsActive: true},
		defaultID:  {ID: defaultID, Name: models.DefaultProductName, IsDefault: true, IsActive: true},
		inactiveID: {ID: inactiveID, Name: "Retired", BasePrice: 100, IsActive: false},
	})

	cases := []struct {
		name    string
		rows    []BookingItemInput
		wantMsg string
	}{
		{"empty items", nil, "At least one booking item is required"},
		{"unknown product", []BookingItemInput{{ProductID: uuid.New(), Quantity: 1}}, "Invalid or inactive product"},
		{"inactive product", []BookingItemInput{{ProductID: inactiveID, Quantity: 1}}, "Invalid or inactive product"},
		{"zero quantity", []BookingItemInput{{ProductID: fixedID, Quantity: 0}}, "Item quantity must be a positive integer"},
		{"negative quantity", []BookingItemInput{{ProductID: fixedID, Quantity: -2}}, "Item quantity must be a positive integer"},
		{"default product without price", []BookingItemInput{{ProductID: defaultID, Quantity: 1}}, "A non-negative unit price is required for the default product"},
		{"default product negative price", []BookingItemInput{{ProductID: defaultID, Quantity: 1, UnitPrice: floatPtr(-5)}}, "A non-negative unit price is required for the default product"},
		{"default product NaN price", []BookingItemInput{{ProductID: defaultID, Quantity: 1, UnitPrice: floatPtr(math.NaN())}}, "A non-negative unit price is required for the default product"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := normalizeItems(tc.rows, resolve)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want ValidationError", err)
			}
			if verr.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tc.wantMsg)
			}
		})
	}
}

func TestNormalizePaymentModes(t *testing.T) {
	cases := []struct {
		name      string
		cash, upi float64
		itemTotal float64
		wantTotal float64
		wantMode  string
	}{
		{"cash only", 1000, 0, 1000, 1000, models.PaymentModeCash},
		{"upi only", 0, 750, 750, 750, models.PaymentModeUPI},
		{"split", 300, 450, 750, 750, models.PaymentModeSplit},
		{"within tolerance", 500.0005, 0, 500, 500, models.PaymentModeCash},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total, mode, err := normalizePayment(tc.cash, tc.upi, tc.itemTotal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != tc.wantTotal {
				t.Errorf("total = %v, want %v", total, tc.wantTotal)
			}
			if mode != tc.wantMode {
				t.Errorf("mode = %q, want %q", mode, tc.wantMode)
			}
		})
	}
}

func TestNormalizePaymentRejections(t *testing.T) {
	cases := []struct {
		name      string
		cash, upi float64
		itemTotal float64
		wantMsg   string
	}{
		{"NaN cash", math.NaN(), 100, 100, "Payment amounts must be finite numbers"},
		{"infinite upi", 0, math.Inf(1), 100, "Payment amounts must be finite numbers"},
		{"negative cash", -1, 101, 100, "Payment amounts must be non-negative"},
		{"both zero", 0, 0, 0, "At least one payment amount must be greater than 0"},
		{"mismatch", 600, 0, 750, "Payment total must match items total"},
		{"split mismatch", 300, 400, 750, "Payment total must match items total"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := normalizePayment(tc.cash, tc.upi, tc.itemTotal)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want ValidationError", err)
			}
			if verr.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tc.wantMsg)
			}
		})
	}
}
