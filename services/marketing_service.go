// services/marketing_service.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"blackbird-backend/models"
	"blackbird-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DynamicField is the closed set of per-recipient placeholders an operator
// can put in a template parameter slot. Anything else is treated as a
// literal value, so unrecognized tokens pass through unchanged.
type DynamicField int

const (
	FieldLiteral DynamicField = iota
	FieldCustomerFullName
	FieldCustomerPhone
	FieldCustomerEmail
	FieldBranchName
	FieldBranchNumber
)

// ParseDynamicField maps an operator-supplied token to its field variant.
func ParseDynamicField(token string) DynamicField {
	switch token {
	case "user_fullName":
		return FieldCustomerFullName
	case "user_phone":
		return FieldCustomerPhone
	case "user_email":
		return FieldCustomerEmail
	case "branch_name":
		return FieldBranchName
	case "branch_number":
		return FieldBranchNumber
	default:
		return FieldLiteral
	}
}

// DynamicFieldOption is one selectable per-recipient placeholder, served to
// operator frontends for template parameter dropdowns.
type DynamicFieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DynamicFieldOptions lists every recognized dynamic-field token.
func DynamicFieldOptions() []DynamicFieldOption {
	return []DynamicFieldOption{
		{Value: "user_fullName", Label: "Customer full name"},
		{Value: "user_phone", Label: "Customer phone"},
		{Value: "user_email", Label: "Customer email"},
		{Value: "branch_name", Label: "Branch name"},
		{Value: "branch_number", Label: "Branch number"},
	}
}

// ResolveDynamicField reads the field off the recipient's own records.
// Missing context resolves to the empty string, never an error.
func ResolveDynamicField(field DynamicField, customer *models.Customer, branch *models.Branch) string {
	switch field {
	case FieldCustomerFullName:
		if customer != nil {
			return customer.FullName
		}
	case FieldCustomerPhone:
		if customer != nil {
			return customer.Phone
		}
	case FieldCustomerEmail:
		if customer != nil {
			return customer.Email
		}
	case FieldBranchName:
		if branch != nil {
			return branch.Name
		}
	case FieldBranchNumber:
		if branch != nil {
			return branch.BranchNumber
		}
	}
	return ""
}

// BuildOrderedParameters turns operator-supplied values into the positional
// argument list the external template API requires, resolving dynamic-field
// tokens against the recipient's own customer/branch context.
func BuildOrderedParameters(tmpl *models.MarketingTemplate, operatorParams map[string]interface{}, customer *models.Customer, branch *models.Branch) []string {
	slots := make([]models.TemplateParameter, len(tmpl.Parameters))
	copy(slots, tmpl.Parameters)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })

	ordered := make([]string, 0, len(slots))
	for _, slot := range slots {
		value, ok := operatorParams[slot.Key]
		if !ok || value == nil {
			ordered = append(ordered, "")
			continue
		}

		if token, isString := value.(string); isString {
			if field := ParseDynamicField(token); field != FieldLiteral {
				ordered = append(ordered, ResolveDynamicField(field, customer, branch))
				continue
			}
		}

		if slot.Type == models.ParamTypeNumber {
			ordered = append(ordered, coerceNumber(value))
		} else {
			ordered = append(ordered, fmt.Sprintf("%v", value))
		}
	}
	return ordered
}

func coerceNumber(value interface{}) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return v
	default:
		return fmt.Sprintf("%v", value)
	}
}

// ValidateParameterPositions enforces that slot positions form a contiguous
// run starting at 1. Applied on template create and update alike, before any
// persistence.
func ValidateParameterPositions(params []models.TemplateParameter) error {
	if len(params) == 0 {
		return nil
	}
	positions := make([]int, 0, len(params))
	for _, p := range params {
		positions = append(positions, p.Position)
	}
	sort.Ints(positions)
	for i, pos := range positions {
		if pos != i+1 {
			return ErrValidation(fmt.Sprintf("Parameter positions must be contiguous starting from 1. Found gap at position %d", i+1))
		}
	}
	return nil
}

// terminalStatus picks the final state of a send job once every recipient
// has been attempted.
func terminalStatus(total, failed int) string {
	switch {
	case failed == 0:
		return models.SendStatusCompleted
	case failed == total:
		return models.SendStatusFailed
	default:
		return models.SendStatusPartial
	}
}

type MarketingService struct {
	db       *gorm.DB
	gateway  NotificationGateway
	settings *SettingsService
}

func NewMarketingService(db *gorm.DB, gateway NotificationGateway, settings *SettingsService) *MarketingService {
	return &MarketingService{db: db, gateway: gateway, settings: settings}
}

type AudienceDateFilter struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type AudienceSpec struct {
	Type       string              `json:"type" binding:"required"`
	Phone      string              `json:"phone"`
	Phones     []string            `json:"phones"`
	BranchID   *uuid.UUID          `json:"branchId"`
	DateFilter *AudienceDateFilter `json:"dateFilter"`
}

// Recipient carries the per-recipient enrichment context used for
// dynamic-field resolution. Customer/Branch may be nil.
type Recipient struct {
	Phone    string
	Customer *models.Customer
	Branch   *models.Branch
}

// resolveAudience expands an audience spec into concrete recipients.
func (s *MarketingService) resolveAudience(spec AudienceSpec) ([]Recipient, error) {
	switch spec.Type {
	case models.AudienceSingle:
		if spec.Phone == "" {
			return nil, ErrValidation("Audience of type single requires a phone")
		}
		recipient := Recipient{Phone: spec.Phone}
		var customer models.Customer
		if err := s.db.Where("phone = ?", spec.Phone).First(&customer).Error; err == nil {
			recipient.Customer = &customer
		}
		if spec.BranchID != nil {
			var branch models.Branch
			if err := s.db.First(&branch, "id = ?", *spec.BranchID).Error; err == nil {
				recipient.Branch = &branch
			}
		}
		return []Recipient{recipient}, nil

	case models.AudienceList:
		if len(spec.Phones) == 0 {
			return nil, ErrValidation("Audience of type list requires a phones array")
		}
		recipients := make([]Recipient, 0, len(spec.Phones))
		for _, phone := range spec.Phones {
			recipients = append(recipients, Recipient{Phone: phone})
		}
		return recipients, nil

	case models.AudienceBranchCustomers, models.AudienceAllCustomers:
		query := s.db.Model(&models.Booking{})
		if spec.Type == models.AudienceBranchCustomers {
			if spec.BranchID == nil {
				return nil, ErrValidation("Audience of type branch_customers requires a branchId")
			}
			query = query.Where("branch_id = ?", *spec.BranchID)
		}
		if spec.DateFilter != nil {
			if spec.DateFilter.StartDate != "" {
				if start, err := time.ParseInLocation("2006-01-02", spec.DateFilter.StartDate, time.Local); err == nil {
					query = query.Where("date >= ?", utils.BeginningOfDay(start))
				}
			}
			if spec.DateFilter.EndDate != "" {
				if end, err := time.ParseInLocation("2006-01-02", spec.DateFilter.EndDate, time.Local); err == nil {
					query = query.Where("date <= ?", utils.EndOfDay(end))
				}
			}
		}

		var userIDs []uuid.UUID
		if err := query.Distinct("user_id").Pluck("user_id", &userIDs).Error; err != nil {
			return nil, err
		}

		var customers []models.Customer
		if len(userIDs) > 0 {
			if err := s.db.Where("id IN ?", userIDs).Find(&customers).Error; err != nil {
				return nil, err
			}
		}

		var sharedBranch *models.Branch
		if spec.BranchID != nil {
			var branch models.Branch
			if err := s.db.First(&branch, "id = ?", *spec.BranchID).Error; err == nil {
				sharedBranch = &branch
			}
		}

		recipients := make([]Recipient, 0, len(customers))
		for i := range customers {
			recipients = append(recipients, Recipient{
				Phone:    customers[i].Phone,
				Customer: &customers[i],
				Branch:   sharedBranch,
			})
		}
		return recipients, nil

	default:
		return nil, ErrValidation("Invalid audience type")
	}
}

// audienceSnapshot records the full audience spec on the job row, so the
// job remains auditable after the underlying entities change.
func audienceSnapshot(spec AudienceSpec) models.JSONB {
	snapshot := models.JSONB{
		"type":     spec.Type,
		"phone":    spec.Phone,
		"phones":   spec.Phones,
		"branchId": spec.BranchID,
	}
	if spec.DateFilter != nil {
		snapshot["dateFilter"] = map[string]interface{}{
			"startDate": spec.DateFilter.StartDate,
			"endDate":   spec.DateFilter.EndDate,
		}
	}
	return snapshot
}

// runFanout attempts delivery to every recipient sequentially. A
// per-recipient failure is counted and never aborts the remaining sends.
func runFanout(recipients []Recipient, tmpl *models.MarketingTemplate, operatorParams map[string]interface{}, gateway NotificationGateway) (success, failed int) {
	for _, recipient := range recipients {
		orderedParams := BuildOrderedParameters(tmpl, operatorParams, recipient.Customer, recipient.Branch)

		phone := utils.NormalizeIndianPhone(recipient.Phone)
		if phone == "" {
			failed++
			continue
		}

		result := gateway.SendTemplate(phone, tmpl.WhatsappTemplateName, tmpl.LanguageCode, orderedParams)
		if result.Success {
			success++
		} else {
			logSendFailure("marketing", recipient.Phone, result.Detail)
			failed++
		}
	}
	return success, failed
}

// SendMarketingMessage runs one broadcast end to end: validates the
// template, settings gate and required parameters, records the job, resolves
// the audience, fans out sequentially and finalizes the job stats.
func (s *MarketingService) SendMarketingMessage(templateID uuid.UUID, spec AudienceSpec, operatorParams map[string]interface{}, triggeredBy uuid.UUID) (*models.MarketingSend, error) {
	var tmpl models.MarketingTemplate
	if err := s.db.First(&tmpl, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Template not found")
		}
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, ErrValidation("Template is not active")
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if !settings.WhatsappEnabled {
		return nil, ErrValidation("WhatsApp is disabled")
	}

	for _, slot := range tmpl.Parameters {
		if slot.Required {
			if _, ok := operatorParams[slot.Key]; !ok {
				return nil, ErrValidation(fmt.Sprintf("Required parameter '%s' is missing", slot.Key))
			}
		}
	}

	job := models.MarketingSend{
		TemplateID:     tmpl.ID,
		TriggeredBy:    triggeredBy,
		AudienceType:   spec.Type,
		AudienceFilter: audienceSnapshot(spec),
		Parameters:     models.JSONB(operatorParams),
		Status:         models.SendStatusPending,
	}
	if err := s.db.Create(&job).Error; err != nil {
		return nil, err
	}

	recipients, err := s.resolveAudience(spec)
	if err != nil {
		// The spec was invalid after the job row was written; close the job
		// out as failed so it does not linger in pending.
		now := time.Now()
		s.db.Model(&job).Updates(map[string]interface{}{
			"status":       models.SendStatusFailed,
			"completed_at": now,
		})
		return nil, err
	}

	job.Stats.Total = len(recipients)
	job.Status = models.SendStatusRunning
	if err := s.db.Model(&job).Updates(map[string]interface{}{
		"stats_total": job.Stats.Total,
		"status":      job.Status,
	}).Error; err != nil {
		return nil, err
	}

	success, failed := runFanout(recipients, &tmpl, operatorParams, s.gateway)

	now := time.Now()
	job.Stats.Success = success
	job.Stats.Failed = failed
	job.Status = terminalStatus(job.Stats.Total, failed)
	job.CompletedAt = &now
	if err := s.db.Model(&job).Updates(map[string]interface{}{
		"stats_success": success,
		"stats_failed":  failed,
		"status":        job.Status,
		"completed_at":  now,
	}).Error; err != nil {
		return nil, err
	}

	return &job, nil
}

type TemplatePreview struct {
	RenderedText         string   `json:"renderedText"`
	WhatsappTemplateName string   `json:"whatsappTemplateName"`
	LanguageCode         string   `json:"languageCode"`
	MappedParameters     []string `json:"mappedParameters"`
}

// PreviewTemplate renders the stored example body with the operator's
// parameters for review before sending. Without a recipient context,
// dynamic-field tokens resolve to empty strings.
func (s *MarketingService) PreviewTemplate(templateID uuid.UUID, operatorParams map[string]interface{}) (*TemplatePreview, error) {
	var tmpl models.MarketingTemplate
	if err := s.db.First(&tmpl, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Template not found")
		}
		return nil, err
	}

	ordered := BuildOrderedParameters(&tmpl, operatorParams, nil, nil)
	return &TemplatePreview{
		RenderedText:         RenderPreview(tmpl.BodyExample, &tmpl, ordered),
		WhatsappTemplateName: tmpl.WhatsappTemplateName,
		LanguageCode:         tmpl.LanguageCode,
		MappedParameters:     ordered,
	}, nil
}

// RenderPreview substitutes each {{position}} placeholder in the example
// body with its ordered value.
func RenderPreview(body string, tmpl *models.MarketingTemplate, ordered []string) string {
	slots := make([]models.TemplateParameter, len(tmpl.Parameters))
	copy(slots, tmpl.Parameters)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })

	for i, slot := range slots {
		value := ""
		if i < len(ordered) {
			value = ordered[i]
		}
		placeholder := regexp.MustCompile(`\{\{` + strconv.Itoa(slot.Position) + `\}\}`)
		body = placeholder.ReplaceAllString(body, value)
	}
	return body
}

type SendJobFilters struct {
	Page  int
	Limit int
}

// ListSendJobs returns one page of send jobs, newest first.
func (s *MarketingService) ListSendJobs(filters SendJobFilters) ([]models.MarketingSend, int64, error) {
	page, limit := utils.ClampPagination(filters.Page, filters.Limit)

	var total int64
	if err := s.db.Model(&models.MarketingSend{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.MarketingSend
	err := s.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// FindSendJob loads one send job.
func (s *MarketingService) FindSendJob(id uuid.UUID) (*models.MarketingSend, error) {
	var job models.MarketingSend
	if err := s.db.First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Send job not found")
		}
		return nil, err
	}
	return &job, nil
}
