package routes

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"blackbird-backend/cache"
	"blackbird-backend/config"
	"blackbird-backend/controllers"
	"blackbird-backend/services"
	"blackbird-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(gateway services.NotificationGateway, settingsService *services.SettingsService) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	bookingService := services.NewBookingService(config.DB, gateway, settingsService)
	dashboardService := services.NewDashboardService(config.DB, dashboardCache(), dashboardCacheTTL())
	marketingService := services.NewMarketingService(config.DB, gateway, settingsService)

	bookingController := controllers.NewBookingController(bookingService)
	dashboardController := controllers.NewDashboardController(dashboardService)
	marketingController := controllers.NewMarketingController(marketingService)
	settingsController := controllers.NewSettingsController(settingsService)

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Branch routes
		branches := api.Group("/branches")
		{
			branches.GET("", controllers.GetBranches)
			branches.GET("/:id", controllers.GetBranch)

			branches.POST("", utils.AdminOnly(), controllers.CreateBranch)
			branches.PUT("/:id", utils.AdminOnly(), controllers.UpdateBranch)
		}

		// Employee routes
		employees := api.Group("/employees", utils.AdminOnly())
		{
			employees.GET("", controllers.GetEmployees)
			employees.POST("", controllers.AddEmployee)
			employees.GET("/search", controllers.SearchEmployees)
			employees.GET("/:id", controllers.GetEmployee)
			employees.PUT("/:id", controllers.UpdateEmployee)
			employees.DELETE("/:id", controllers.DeleteEmployee)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)

			products.POST("", utils.AdminOnly(), controllers.CreateProduct)
			products.PUT("/:id", utils.AdminOnly(), controllers.UpdateProduct)
			products.PATCH("/:id/status", utils.AdminOnly(), controllers.UpdateProductStatus)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingController.CreateBooking)
			bookings.GET("", bookingController.GetBookings)
			bookings.GET("/:id", bookingController.GetBooking)
		}

		// Dashboard routes
		api.GET("/dashboard", dashboardController.GetDashboard)

		// Marketing routes
		marketing := api.Group("/marketing", utils.AdminOnly())
		{
			marketing.POST("/templates", marketingController.CreateTemplate)
			marketing.GET("/templates", marketingController.GetTemplates)
			marketing.GET("/templates/:id", marketingController.GetTemplate)
			marketing.PUT("/templates/:id", marketingController.UpdateTemplate)
			marketing.DELETE("/templates/:id", marketingController.DeleteTemplate)
			marketing.POST("/templates/:id/preview", marketingController.PreviewTemplate)
			marketing.POST("/templates/:id/send", marketingController.SendMessage)

			marketing.GET("/dynamic-fields", marketingController.GetDynamicFields)

			marketing.GET("/sends", marketingController.GetSendJobs)
			marketing.GET("/sends/:id", marketingController.GetSendJob)
		}

		// Settings routes
		settings := api.Group("/settings", utils.AdminOnly())
		{
			settings.GET("", settingsController.GetSettings)
			settings.PUT("", settingsController.UpdateSettings)
		}
	}

	return r
}

// dashboardCache wires Redis when REDIS_ADDR is set, otherwise a no-op
// store so the dashboard always works without one.
func dashboardCache() cache.Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return cache.Noop{}
	}

	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			db = parsed
		}
	}

	redisCache := cache.NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), db)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("[CACHE] Redis unreachable at %s, falling back to no-op cache: %v", addr, err)
		return cache.Noop{}
	}
	log.Printf("[CACHE] Dashboard cache connected to Redis at %s", addr)
	return redisCache
}

func dashboardCacheTTL() time.Duration {
	if raw := os.Getenv("DASHBOARD_CACHE_TTL_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 60 * time.Second
}
