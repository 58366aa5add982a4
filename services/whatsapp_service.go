// services/whatsapp_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"blackbird-backend/models"
	"blackbird-backend/utils"
)

// Template names registered with the provider. These must match the approved
// templates exactly.
const (
	TemplateInvoice         = "blackbird_invoice"
	TemplateCheckupReminder = "blackbird_checkup_reminder"
)

const DefaultLanguageCode = "en"

// SendResult is the only thing callers act on: delivery is best-effort and a
// failed send never propagates as an error from the owning operation.
type SendResult struct {
	Success bool
	Detail  string
}

// NotificationGateway delivers one template message to one recipient.
// Implementations enforce their own timeout and never panic the caller.
type NotificationGateway interface {
	SendTemplate(phone, templateName, languageCode string, bodyParameters []string) SendResult
}

// NewGatewayFromEnv picks the configured provider. Meta's Cloud API is the
// default; WHATSAPP_PROVIDER=twilio switches to the Twilio content API.
func NewGatewayFromEnv() NotificationGateway {
	if os.Getenv("WHATSAPP_PROVIDER") == "twilio" {
		return NewTwilioGateway()
	}
	return NewMetaGateway()
}

// MetaGateway sends template messages through the Meta WhatsApp Cloud API.
type MetaGateway struct {
	client        *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

func NewMetaGateway() *MetaGateway {
	return &MetaGateway{
		client:        &http.Client{Timeout: 10 * time.Second},
		baseURL:       "https://graph.facebook.com/v18.0",
		token:         os.Getenv("WHATSAPP_TOKEN"),
		phoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
	}
}

type metaTemplateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type metaTemplateComponent struct {
	Type       string                  `json:"type"`
	Parameters []metaTemplateParameter `json:"parameters"`
}

type metaTemplate struct {
	Name       string                  `json:"name"`
	Language   map[string]string       `json:"language"`
	Components []metaTemplateComponent `json:"components"`
}

type metaMessageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         metaTemplate `json:"template"`
}

func (g *MetaGateway) SendTemplate(phone, templateName, languageCode string, bodyParameters []string) SendResult {
	if g.token == "" || g.phoneNumberID == "" {
		return SendResult{Success: false, Detail: "WhatsApp configuration missing"}
	}
	to := utils.DigitsOnly(phone)
	if to == "" {
		return SendResult{Success: false, Detail: "empty recipient phone"}
	}
	if languageCode == "" {
		languageCode = DefaultLanguageCode
	}

	params := make([]metaTemplateParameter, 0, len(bodyParameters))
	for _, p := range bodyParameters {
		params = append(params, metaTemplateParameter{Type: "text", Text: p})
	}

	payload := metaMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: metaTemplate{
			Name:     templateName,
			Language: map[string]string{"code": languageCode},
			Components: []metaTemplateComponent{
				{Type: "body", Parameters: params},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Success: false, Detail: err.Error()}
	}

	url := fmt.Sprintf("%s/%s/messages", g.baseURL, g.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SendResult{Success: false, Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return SendResult{Success: false, Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{
			Success: false,
			Detail:  fmt.Sprintf("provider returned %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	return SendResult{Success: true, Detail: string(respBody)}
}

// InvoiceParameters builds the 8 positional slots of the blackbird_invoice
// template: name, invoice number, artist, branch, date, size, payment
// method, amount.
func InvoiceParameters(b *models.Booking, branchName string) []string {
	name := b.FullName
	if name == "" {
		name = "Customer"
	}
	if branchName == "" {
		branchName = "N/A"
	}
	size := ""
	if b.Size != nil {
		size = trimFloat(*b.Size)
	}
	return []string{
		name,
		b.BookingNumber,
		b.ArtistName,
		branchName,
		b.Date.Format("Jan 2, 2006"),
		size,
		b.PaymentMethodDisplay(),
		trimFloat(b.TotalAmount),
	}
}

// ReminderParameters builds the slots of blackbird_checkup_reminder: name
// and days since the session.
func ReminderParameters(fullName string, daysPassed int) []string {
	if fullName == "" {
		fullName = "Customer"
	}
	return []string{fullName, fmt.Sprintf("%d", daysPassed)}
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	// Drop a trailing ".00" so whole amounts read naturally in the message.
	if len(s) > 3 && s[len(s)-3:] == ".00" {
		return s[:len(s)-3]
	}
	return s
}

func logSendFailure(context, phone, detail string) {
	log.Printf("WhatsApp %s send failed for %s: %s", context, phone, detail)
}
