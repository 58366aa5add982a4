package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ChannelWhatsApp = "whatsapp"

// Parameter value types accepted by template slots.
const (
	ParamTypeString = "string"
	ParamTypeNumber = "number"
	ParamTypeDate   = "date"
)

// Audience types for a marketing send.
const (
	AudienceSingle          = "single"
	AudienceList            = "list"
	AudienceBranchCustomers = "branch_customers"
	AudienceAllCustomers    = "all_customers"
)

// Send job states. pending -> running -> completed | partial | failed.
const (
	SendStatusPending   = "pending"
	SendStatusRunning   = "running"
	SendStatusCompleted = "completed"
	SendStatusFailed    = "failed"
	SendStatusPartial   = "partial"
)

// TemplateParameter is one positional slot of an external template body.
type TemplateParameter struct {
	Key         string `json:"key"`
	Position    int    `json:"position"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// TemplateParameters is stored as a jsonb column.
type TemplateParameters []TemplateParameter

func (p TemplateParameters) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *TemplateParameters) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, p)
}

// JSONB holds opaque document columns (audience filter snapshots, operator
// parameter maps).
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, j)
}

type MarketingTemplate struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	// Upper-cased on write, unique across the catalog.
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string `gorm:"not null" json:"displayName"`
	Channel     string `gorm:"type:varchar(20);default:'whatsapp'" json:"channel"`

	// Name of the approved template on the provider side.
	WhatsappTemplateName string `gorm:"not null" json:"whatsappTemplateName"`
	LanguageCode         string `gorm:"type:varchar(10);default:'en'" json:"languageCode"`
	BodyExample          string `gorm:"type:text" json:"bodyExample"`

	Parameters TemplateParameters `gorm:"type:jsonb;default:'[]'" json:"parameters"`
	IsActive   bool               `gorm:"default:true;index" json:"isActive"`
	CreatedBy  uuid.UUID          `gorm:"type:uuid;index;not null" json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *MarketingTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type SendStats struct {
	Total   int `gorm:"default:0" json:"total"`
	Success int `gorm:"default:0" json:"success"`
	Failed  int `gorm:"default:0" json:"failed"`
}

type MarketingSend struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TemplateID  uuid.UUID `gorm:"type:uuid;index;not null" json:"templateId"`
	TriggeredBy uuid.UUID `gorm:"type:uuid;index;not null" json:"triggeredBy"`

	AudienceType   string `gorm:"type:varchar(30);not null" json:"audienceType"`
	AudienceFilter JSONB  `gorm:"type:jsonb;default:'{}'" json:"audienceFilter"`
	Parameters     JSONB  `gorm:"type:jsonb;default:'{}'" json:"parameters"`

	Status string    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Stats  SendStats `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`

	// Set exactly once, at the terminal transition.
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *MarketingSend) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
