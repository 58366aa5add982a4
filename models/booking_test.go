package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPaymentMethodDisplay(t *testing.T) {
	cases := []struct {
		mode string
		want string
	}{
		{PaymentModeCash, "CASH"},
		{PaymentModeUPI, "UPI"},
		{PaymentModeSplit, "CASH + UPI"},
	}
	for _, tc := range cases {
		b := Booking{PaymentMode: tc.mode}
		if got := b.PaymentMethodDisplay(); got != tc.want {
			t.Errorf("PaymentMethodDisplay(%s) = %q, want %q", tc.mode, got, tc.want)
		}
	}
}

func TestBookingMarshalJSONDerivedFields(t *testing.T) {
	sentAt := time.Now()
	b := Booking{
		BookingNumber:  "INV0007",
		TotalAmount:    750,
		PaymentMode:    PaymentModeSplit,
		ReminderSentAt: &sentAt,
	}

	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["amount"] != float64(750) {
		t.Errorf("amount = %v, want 750", decoded["amount"])
	}
	if decoded["paymentMethod"] != "CASH + UPI" {
		t.Errorf("paymentMethod = %v", decoded["paymentMethod"])
	}
	if decoded["reminderSent"] != true {
		t.Errorf("reminderSent = %v, want true", decoded["reminderSent"])
	}

	b.ReminderSentAt = nil
	raw, _ = json.Marshal(b)
	decoded = map[string]interface{}{}
	json.Unmarshal(raw, &decoded)
	if decoded["reminderSent"] != false {
		t.Errorf("reminderSent = %v, want false when unsent", decoded["reminderSent"])
	}
}
