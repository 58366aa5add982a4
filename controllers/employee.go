// controllers/employee.go
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

type CreateEmployeeInput struct {
	FullName    string    `json:"fullName" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	PhoneNumber string    `json:"phoneNumber" binding:"required"`
	Password    string    `json:"password" binding:"required,min=6"`
	BranchID    uuid.UUID `json:"branchId" binding:"required"`
}

type UpdateEmployeeInput struct {
	FullName    *string    `json:"fullName"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	PhoneNumber *string    `json:"phoneNumber"`
	Password    *string    `json:"password" binding:"omitempty,min=6"`
	BranchID    *uuid.UUID `json:"branchId"`
}

// AddEmployee creates an employee with the next sequential employee number
// and bumps the branch's employee count.
func AddEmployee(c *gin.Context) {
	var input CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Please provide a valid phone number")
		return
	}

	var existing models.Employee
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Employee with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", input.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	employee := models.Employee{
		FullName:    input.FullName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Password:    hashed,
		Role:        models.RoleEmployee,
		BranchID:    input.BranchID,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := models.NextSequence(tx, models.CounterEmployee)
		if err != nil {
			return err
		}
		employee.EmployeeNumber = models.FormatSequence(models.EmployeeNumberPrefix, seq)

		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
		return tx.Model(&models.Branch{}).Where("id = ?", input.BranchID).
			Update("employee_count", gorm.Expr("employee_count + ?", 1)).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// GetEmployees lists all employees, newest first.
func GetEmployees(c *gin.Context) {
	var employees []models.Employee
	if err := config.DB.Order("created_at DESC").Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

// SearchEmployees matches the query against name, email and employee number.
func SearchEmployees(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Search term is required")
		return
	}

	like := "%" + q + "%"
	var employees []models.Employee
	err := config.DB.
		Where("full_name ILIKE ? OR email ILIKE ? OR employee_number ILIKE ?", like, like, like).
		Order("created_at DESC").
		Find(&employees).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to search employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetEmployee retrieves one employee by ID.
func GetEmployee(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee updates mutable fields; a branch move adjusts both
// branches' employee counts.
func UpdateEmployee(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Email != nil && *input.Email != employee.Email {
		var existing models.Employee
		if err := config.DB.Where("email = ? AND id <> ?", *input.Email, employeeID).First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Email already in use by another employee")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		employee.Email = *input.Email
	}

	if input.FullName != nil {
		employee.FullName = *input.FullName
	}
	if input.PhoneNumber != nil {
		if !utils.ValidatePhone(*input.PhoneNumber) {
			utils.RespondWithError(c, http.StatusBadRequest, "Please provide a valid phone number")
			return
		}
		employee.PhoneNumber = *input.PhoneNumber
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		employee.Password = hashed
	}

	oldBranchID := employee.BranchID
	branchChanged := input.BranchID != nil && *input.BranchID != oldBranchID
	if branchChanged {
		var branch models.Branch
		if err := config.DB.First(&branch, "id = ?", *input.BranchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		employee.BranchID = *input.BranchID
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&employee).Error; err != nil {
			return err
		}
		if branchChanged {
			if err := tx.Model(&models.Branch{}).Where("id = ?", oldBranchID).
				Update("employee_count", gorm.Expr("employee_count - ?", 1)).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Branch{}).Where("id = ?", employee.BranchID).
				Update("employee_count", gorm.Expr("employee_count + ?", 1)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee and decrements the branch count.
func DeleteEmployee(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&employee).Error; err != nil {
			return err
		}
		return tx.Model(&models.Branch{}).Where("id = ?", employee.BranchID).
			Update("employee_count", gorm.Expr("employee_count - ?", 1)).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
