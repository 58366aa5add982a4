// controllers/customer.go
package controllers

import (
	"errors"
	"net/http"

	"blackbird-backend/config"
	"blackbird-backend/models"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCustomers returns a paginated customer list. An optional branchId
// filter narrows the list to customers who have booked at that branch.
func GetCustomers(c *gin.Context) {
	page, limit := parsePagination(c)

	query := config.DB.Model(&models.Customer{})

	if branchParam := c.Query("branchId"); branchParam != "" {
		branchID, err := uuid.Parse(branchParam)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid branch ID")
			return
		}
		var customerIDs []uuid.UUID
		if err := config.DB.Model(&models.Booking{}).
			Where("branch_id = ?", branchID).
			Distinct("user_id").
			Pluck("user_id", &customerIDs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
			return
		}
		if len(customerIDs) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"customers": []models.Customer{},
				"total":     0,
				"page":      page,
				"limit":     limit,
			})
			return
		}
		query = query.Where("id IN ?", customerIDs)
	}

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR phone ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	var customers []models.Customer
	if err := query.Order("total_amount DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

func GetCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, customer)
}
