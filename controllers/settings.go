// controllers/settings.go
package controllers

import (
	"net/http"

	"blackbird-backend/services"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.settings.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var input services.UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	settings, err := sc.settings.Update(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
