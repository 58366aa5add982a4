// controllers/product.go
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

type CreateProductInput struct {
	Name      string   `json:"name" binding:"required"`
	BasePrice *float64 `json:"basePrice" binding:"required"`
}

type UpdateProductInput struct {
	Name      *string  `json:"name"`
	BasePrice *float64 `json:"basePrice"`
	IsActive  *bool    `json:"isActive"`
}

func CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if *input.BasePrice < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Base price must be non-negative")
		return
	}

	var existing models.Product
	if err := config.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Product with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	product := models.Product{
		Name:      input.Name,
		BasePrice: *input.BasePrice,
		IsActive:  true,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts lists products. Pass ?active=true to filter to active only.
func GetProducts(c *gin.Context) {
	query := config.DB.Order("is_default DESC, created_at DESC")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct edits name, base price and active state. The default
// product can never be deactivated.
func UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.IsActive != nil && !*input.IsActive && product.IsDefault {
		utils.RespondWithError(c, http.StatusBadRequest, "Default product cannot be deactivated")
		return
	}

	if input.Name != nil && *input.Name != product.Name {
		var existing models.Product
		if err := config.DB.Where("name = ? AND id <> ?", *input.Name, productID).First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Product with this name already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		product.Name = *input.Name
	}
	if input.BasePrice != nil {
		if *input.BasePrice < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Base price must be non-negative")
			return
		}
		product.BasePrice = *input.BasePrice
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProductStatus toggles a product's active flag.
func UpdateProductStatus(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !*input.IsActive && product.IsDefault {
		utils.RespondWithError(c, http.StatusBadRequest, "Default product cannot be deactivated")
		return
	}

	product.IsActive = *input.IsActive
	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product status")
		return
	}

	c.JSON(http.StatusOK, product)
}
