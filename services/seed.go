package services

import (
	"errors"
	"log"
	"os"

	"blackbird-backend/models"
	"blackbird-backend/utils"

	"gorm.io/gorm"
)

// Startup seeding, invoked explicitly by the process entry point with the
// store handle. Each routine is idempotent.

// SeedAdmin creates the bootstrap admin from ADMIN_EMAIL / ADMIN_PASSWORD if
// no admin exists yet.
func SeedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Admin seed skipped: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	var existing models.Admin
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Name:     "Admin",
		Email:    email,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Admin user created")
	return nil
}

// SeedDefaultProduct guarantees the single freeform-priced catalog entry.
func SeedDefaultProduct(db *gorm.DB) error {
	var existing models.Product
	err := db.Where("is_default = ?", true).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	product := models.Product{
		Name:      models.DefaultProductName,
		BasePrice: 0,
		IsDefault: true,
		IsActive:  true,
	}
	if err := db.Create(&product).Error; err != nil {
		return err
	}
	log.Println("Default product created")
	return nil
}

// SeedSettings materializes the settings singleton so the first request does
// not pay for the lazy create.
func SeedSettings(db *gorm.DB) error {
	_, err := NewSettingsService(db).Get()
	return err
}
