// controllers/marketing.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"blackbird-backend/config"
	"blackbird-backend/models"
	"blackbird-backend/services"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MarketingController struct {
	marketing *services.MarketingService
}

func NewMarketingController(marketing *services.MarketingService) *MarketingController {
	return &MarketingController{marketing: marketing}
}

type CreateTemplateInput struct {
	Name                 string                    `json:"name" binding:"required"`
	DisplayName          string                    `json:"displayName" binding:"required"`
	Channel              string                    `json:"channel"`
	WhatsappTemplateName string                    `json:"whatsappTemplateName" binding:"required"`
	LanguageCode         string                    `json:"languageCode"`
	BodyExample          string                    `json:"bodyExample"`
	Parameters           models.TemplateParameters `json:"parameters"`
}

type UpdateTemplateInput struct {
	DisplayName          *string                    `json:"displayName"`
	WhatsappTemplateName *string                    `json:"whatsappTemplateName"`
	LanguageCode         *string                    `json:"languageCode"`
	BodyExample          *string                    `json:"bodyExample"`
	Parameters           *models.TemplateParameters `json:"parameters"`
	IsActive             *bool                      `json:"isActive"`
}

// CreateTemplate registers a template. Names are upper-cased so the
// unique index is case-insensitive in effect.
func (mc *MarketingController) CreateTemplate(c *gin.Context) {
	var input CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Channel == "" {
		input.Channel = models.ChannelWhatsApp
	}
	if input.Channel != models.ChannelWhatsApp {
		utils.RespondWithError(c, http.StatusBadRequest, "Unsupported channel")
		return
	}
	if input.LanguageCode == "" {
		input.LanguageCode = services.DefaultLanguageCode
	}

	if err := services.ValidateParameterPositions(input.Parameters); err != nil {
		respondServiceError(c, err)
		return
	}

	name := strings.ToUpper(strings.TrimSpace(input.Name))

	var existing models.MarketingTemplate
	if err := config.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Template with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	userID, _, _, ok := callerContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	template := models.MarketingTemplate{
		Name:                 name,
		DisplayName:          input.DisplayName,
		Channel:              input.Channel,
		WhatsappTemplateName: input.WhatsappTemplateName,
		LanguageCode:         input.LanguageCode,
		BodyExample:          input.BodyExample,
		Parameters:           input.Parameters,
		IsActive:             true,
		CreatedBy:            userID,
	}
	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetTemplates lists templates with optional channel and isActive filters.
func (mc *MarketingController) GetTemplates(c *gin.Context) {
	page, limit := parsePagination(c)

	query := config.DB.Model(&models.MarketingTemplate{})
	if channel := c.Query("channel"); channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if active := c.Query("isActive"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	var templates []models.MarketingTemplate
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

func (mc *MarketingController) GetTemplate(c *gin.Context) {
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var template models.MarketingTemplate
	if err := config.DB.First(&template, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateTemplate edits a template. The name and channel are immutable;
// parameter edits are revalidated for contiguous positions.
func (mc *MarketingController) UpdateTemplate(c *gin.Context) {
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.MarketingTemplate
	if err := config.DB.First(&template, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Parameters != nil {
		if err := services.ValidateParameterPositions(*input.Parameters); err != nil {
			respondServiceError(c, err)
			return
		}
		template.Parameters = *input.Parameters
	}
	if input.DisplayName != nil {
		template.DisplayName = *input.DisplayName
	}
	if input.WhatsappTemplateName != nil {
		template.WhatsappTemplateName = *input.WhatsappTemplateName
	}
	if input.LanguageCode != nil {
		template.LanguageCode = *input.LanguageCode
	}
	if input.BodyExample != nil {
		template.BodyExample = *input.BodyExample
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template from the catalog. Past send jobs keep
// their template id but no longer resolve it.
func (mc *MarketingController) DeleteTemplate(c *gin.Context) {
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var template models.MarketingTemplate
	if err := config.DB.First(&template, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Template deleted successfully",
		"deletedTemplate": gin.H{
			"id":          template.ID,
			"name":        template.Name,
			"displayName": template.DisplayName,
		},
	})
}

// GetDynamicFields lists the per-recipient placeholder tokens a template
// parameter value may carry.
func (mc *MarketingController) GetDynamicFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": services.DynamicFieldOptions()})
}

type PreviewInput struct {
	Parameters map[string]interface{} `json:"parameters"`
}

// PreviewTemplate renders the body example with the operator's parameter
// values, without contacting anyone.
func (mc *MarketingController) PreviewTemplate(c *gin.Context) {
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input PreviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	preview, err := mc.marketing.PreviewTemplate(templateID, input.Parameters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

type SendInput struct {
	Audience   services.AudienceSpec  `json:"audience" binding:"required"`
	Parameters map[string]interface{} `json:"parameters"`
}

// SendMessage triggers a broadcast of the template to the requested
// audience and returns the finished job record.
func (mc *MarketingController) SendMessage(c *gin.Context) {
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input SendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	userID, _, _, okCaller := callerContext(c)
	if !okCaller {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	job, err := mc.marketing.SendMarketingMessage(templateID, input.Audience, input.Parameters, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetSendJobs lists past broadcast jobs, newest first.
func (mc *MarketingController) GetSendJobs(c *gin.Context) {
	page, limit := parsePagination(c)

	jobs, total, err := mc.marketing.ListSendJobs(services.SendJobFilters{Page: page, Limit: limit})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (mc *MarketingController) GetSendJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	job, err := mc.marketing.FindSendJob(jobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
