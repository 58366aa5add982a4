package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blackbird-backend/models"
)

func testMetaGateway(serverURL string) *MetaGateway {
	return &MetaGateway{
		client:        &http.Client{Timeout: 2 * time.Second},
		baseURL:       serverURL,
		token:         "test-token",
		phoneNumberID: "12345",
	}
}

func TestMetaGatewaySendTemplate(t *testing.T) {
	var captured metaMessageRequest
	var capturedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/messages" {
			t.Errorf("path = %q, want /12345/messages", r.URL.Path)
		}
		capturedAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	defer server.Close()

	gateway := testMetaGateway(server.URL)
	result := gateway.SendTemplate("+919876543210", TemplateInvoice, "en", []string{"Rahul", "INV0001"})

	if !result.Success {
		t.Fatalf("send failed: %s", result.Detail)
	}
	if capturedAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", capturedAuth)
	}
	if captured.MessagingProduct != "whatsapp" || captured.Type != "template" {
		t.Errorf("envelope = %q/%q", captured.MessagingProduct, captured.Type)
	}
	if captured.To != "919876543210" {
		t.Errorf("to = %q, want digits only", captured.To)
	}
	if captured.Template.Name != TemplateInvoice {
		t.Errorf("template name = %q", captured.Template.Name)
	}
	if captured.Template.Language["code"] != "en" {
		t.Errorf("language = %q", captured.Template.Language["code"])
	}
	if len(captured.Template.Components) != 1 || len(captured.Template.Components[0].Parameters) != 2 {
		t.Fatalf("components = %+v", captured.Template.Components)
	}
	if captured.Template.Components[0].Parameters[0].Text != "Rahul" {
		t.Errorf("first parameter = %q", captured.Template.Components[0].Parameters[0].Text)
	}
}

func TestMetaGatewayProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"template not found"}}`))
	}))
	defer server.Close()

	gateway := testMetaGateway(server.URL)
	result := gateway.SendTemplate("+919876543210", "missing_template", "en", nil)

	if result.Success {
		t.Fatal("expected failure on 400 response")
	}
	if result.Detail == "" {
		t.Error("expected provider detail in the result")
	}
}

func TestMetaGatewayMissingConfiguration(t *testing.T) {
	gateway := &MetaGateway{client: &http.Client{}}
	result := gateway.SendTemplate("+919876543210", TemplateInvoice, "en", nil)

	if result.Success {
		t.Fatal("expected failure without credentials")
	}
	if result.Detail != "WhatsApp configuration missing" {
		t.Errorf("detail = %q", result.Detail)
	}
}

func TestInvoiceParameters(t *testing.T) {
	size := 4.5
	booking := &models.Booking{
		FullName:      "Rahul",
		BookingNumber: "INV0042",
		ArtistName:    "Vik",
		Date:          time.Date(2026, 3, 15, 14, 0, 0, 0, time.Local),
		Size:          &size,
		CashAmount:    500,
		UpiAmount:     250,
		TotalAmount:   750,
		PaymentMode:   models.PaymentModeSplit,
	}

	params := InvoiceParameters(booking, "Andheri")
	want := []string{"Rahul", "INV0042", "Vik", "Andheri", "Mar 15, 2026", "4.50", "CASH + UPI", "750"}
	if len(params) != len(want) {
		t.Fatalf("len = %d, want %d", len(params), len(want))
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("params[%d] = %q, want %q", i, params[i], want[i])
		}
	}
}

func TestInvoiceParametersDefaults(t *testing.T) {
	booking := &models.Booking{
		BookingNumber: "INV0001",
		Date:          time.Date(2026, 1, 2, 10, 0, 0, 0, time.Local),
		TotalAmount:   1000,
		PaymentMode:   models.PaymentModeCash,
	}

	params := InvoiceParameters(booking, "")
	if params[0] != "Customer" {
		t.Errorf("name fallback = %q, want Customer", params[0])
	}
	if params[3] != "N/A" {
		t.Errorf("branch fallback = %q, want N/A", params[3])
	}
	if params[5] != "" {
		t.Errorf("size = %q, want empty when unset", params[5])
	}
	if params[7] != "1000" {
		t.Errorf("amount = %q, want 1000", params[7])
	}
}

func TestReminderParameters(t *testing.T) {
	params := ReminderParameters("Priya", 62)
	if params[0] != "Priya" || params[1] != "62" {
		t.Errorf("params = %v", params)
	}
	params = ReminderParameters("", 60)
	if params[0] != "Customer" {
		t.Errorf("name fallback = %q", params[0])
	}
}

func TestTrimFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{750, "750"},
		{750.5, "750.50"},
		{0.25, "0.25"},
		{1000.004, "1000"},
	}
	for _, tc := range cases {
		if got := trimFloat(tc.in); got != tc.want {
			t.Errorf("trimFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
