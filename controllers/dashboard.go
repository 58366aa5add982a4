// controllers/dashboard.go
package controllers

import (
	"net/http"

	"blackbird-backend/services"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardController struct {
	dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// GetDashboard serves the rollup for a date range. Admins get the
// all-branch view unless they scope by branchId; employees are always
// pinned to their own branch.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	_, role, ownBranchID, ok := callerContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	start, end, err := utils.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	branchFilter := utils.EffectiveBranchFilter(role, ownBranchID, c.Query("branchId"))
	if branchFilter == "" {
		data, err := dc.dashboard.GetDashboardData(start, end)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
		return
	}

	branchID, parseErr := uuid.Parse(branchFilter)
	if parseErr != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid branch ID")
		return
	}

	data, err := dc.dashboard.GetBranchDashboardData(start, end, branchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
