package main

import (
	"fmt"
	"log"
	"os"

	"blackbird-backend/config"
	"blackbird-backend/models"
	"blackbird-backend/routes"
	"blackbird-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	if err := config.DB.AutoMigrate(
		&models.Admin{},
		&models.Branch{},
		&models.Employee{},
		&models.Customer{},
		&models.Product{},
		&models.Booking{},
		&models.BookingItem{},
		&models.Counter{},
		&models.MarketingTemplate{},
		&models.MarketingSend{},
		&models.Settings{},
	); err != nil {
		log.Fatalf("Auto-migration failed: %v", err)
	}

	if err := services.SeedAdmin(config.DB); err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}
	if err := services.SeedDefaultProduct(config.DB); err != nil {
		log.Fatalf("Default product seeding failed: %v", err)
	}
	if err := services.SeedSettings(config.DB); err != nil {
		log.Fatalf("Settings seeding failed: %v", err)
	}
}

func main() {
	gateway := services.NewGatewayFromEnv()
	settingsService := services.NewSettingsService(config.DB)
	reminder := services.NewReminderService(config.DB, gateway, settingsService)
	reminder.StartScheduler()
	defer reminder.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(gateway, settingsService)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
