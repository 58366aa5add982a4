// controllers/auth.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"blackbird-backend/config"
	"blackbird-backend/models"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an admin or an employee by email and issues a token
// carrying the caller's role and branch scope.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var admin models.Admin
	err := config.DB.Where("email = ?", input.Email).First(&admin).Error
	if err == nil {
		if !utils.CheckPasswordHash(input.Password, admin.Password) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		token, err := utils.GenerateToken(admin.ID.String(), models.RoleAdmin, "")
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		now := time.Now()
		config.DB.Model(&admin).Update("last_login", now)

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":    admin.ID,
				"name":  admin.Name,
				"email": admin.Email,
				"role":  models.RoleAdmin,
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var employee models.Employee
	if err := config.DB.Where("email = ?", input.Email).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !utils.CheckPasswordHash(input.Password, employee.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(employee.ID.String(), models.RoleEmployee, employee.BranchID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":             employee.ID,
			"fullName":       employee.FullName,
			"email":          employee.Email,
			"role":           models.RoleEmployee,
			"branchId":       employee.BranchID,
			"employeeNumber": employee.EmployeeNumber,
		},
	})
}

// Me returns the authenticated caller's profile.
func Me(c *gin.Context) {
	userID, role, _, ok := callerContext(c)
	if !ok {
		return
	}

	if role == models.RoleAdmin {
		var admin models.Admin
		if err := config.DB.First(&admin, "id = ?", userID).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Admin not found")
			return
		}
		c.JSON(http.StatusOK, admin)
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, employee)
}
