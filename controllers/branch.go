// controllers/branch.go
package controllers

import (
	"errors"
	"net/http"

	"blackbird-backend/config"
	"blackbird-backend/models"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateBranchInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type UpdateBranchInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// CreateBranch creates a branch with the next sequential branch number.
func CreateBranch(c *gin.Context) {
	var input CreateBranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Branch
	if err := config.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Branch with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	branch := models.Branch{
		Name:    input.Name,
		Address: input.Address,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := models.NextSequence(tx, models.CounterBranch)
		if err != nil {
			return err
		}
		branch.BranchNumber = models.FormatSequence(models.BranchNumberPrefix, seq)
		return tx.Create(&branch).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create branch")
		return
	}

	c.JSON(http.StatusCreated, branch)
}

// GetBranches lists all branches, newest first.
func GetBranches(c *gin.Context) {
	var branches []models.Branch
	if err := config.DB.Order("created_at DESC").Find(&branches).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve branches")
		return
	}
	c.JSON(http.StatusOK, branches)
}

// GetBranch retrieves one branch by ID.
func GetBranch(c *gin.Context) {
	branchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, branch)
}

// UpdateBranch updates name/address. The branch number and employee count
// are not updatable through the API.
func UpdateBranch(c *gin.Context) {
	branchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateBranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil && *input.Name != branch.Name {
		var existing models.Branch
		if err := config.DB.Where("name = ? AND id <> ?", *input.Name, branchID).First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Branch with this name already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		branch.Name = *input.Name
	}
	if input.Address != nil {
		branch.Address = *input.Address
	}

	if err := config.DB.Save(&branch).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update branch")
		return
	}
	c.JSON(http.StatusOK, branch)
}
