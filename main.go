package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/controllers"
	"github.com/vrindacare/pharmacy-api/middleware"
	"github.com/vrindacare/pharmacy-api/models"
	"github.com/vrindacare/pharmacy-api/services"
	"github.com/vrindacare/pharmacy-api/utils"
)

func main() {
	// Basic logging
	log.Println("Starting VrindaCare Pharmacy API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Product{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
		&models.Prescription{},
		&models.Inquiry{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Seed the catalog with the default product set when empty
	if cfg.SeedCatalog {
		catalog := services.NewCatalogService(db)
		if err := catalog.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	// Cart cache is optional; without REDIS_URL all cart reads hit the database
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse REDIS_URL: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		services.InitCartCache(services.NewRedisCartCache(client))
		log.Println("Cart cache connected to Redis")
	}

	// Prescription images go to S3 when a bucket is configured, otherwise to
	// the local upload directory
	utils.UploadDir = cfg.UploadDir
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Printf("Prescription images stored in S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		services.InitLocalImageService(cfg.UploadDir)
		log.Printf("Prescription images stored locally in %s", cfg.UploadDir)
	}

	// Initialize Gin router
	router := gin.Default()

	// The storefront runs in a browser on a different origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.AllowedOrigins}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "Idempotency-Key")
	router.Use(cors.New(corsConfig))

	registerRoutes(router)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerRoutes wires all API v1 routes
func registerRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Auth
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		// Catalog: reads are public, writes are back-office
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/:id", controllers.GetProduct)
		v1.POST("/products", middleware.RequireSession(), middleware.RequireAdmin(), controllers.CreateProduct)
		v1.PUT("/products/:id", middleware.RequireSession(), middleware.RequireAdmin(), controllers.UpdateProduct)
		v1.DELETE("/products/:id", middleware.RequireSession(), middleware.RequireAdmin(), controllers.DeleteProduct)

		// Contact form
		v1.POST("/inquiries", controllers.CreateInquiry)

		// Locally stored prescription images
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		// Customer routes
		authed := v1.Group("", middleware.RequireSession())
		{
			authed.GET("/users/me", controllers.GetProfile)

			authed.GET("/cart", controllers.GetCart)
			authed.POST("/cart/items", controllers.AddCartItem)
			authed.PATCH("/cart/items/:id", controllers.UpdateCartItem)
			authed.DELETE("/cart/items/:id", controllers.RemoveCartItem)
			authed.DELETE("/cart", controllers.ClearCart)

			authed.POST("/checkout", controllers.Checkout)

			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/:id", controllers.GetOrder)

			authed.POST("/prescriptions", controllers.UploadPrescription)
			authed.GET("/prescriptions", controllers.ListPrescriptions)
		}

		// Back-office routes
		admin := v1.Group("", middleware.RequireSession(), middleware.RequireAdmin())
		{
			admin.PATCH("/orders", controllers.UpdateOrderStatus)
			admin.PATCH("/prescriptions", controllers.UpdatePrescriptionStatus)
			admin.DELETE("/prescriptions/:id", controllers.DeletePrescription)
			admin.GET("/inquiries", controllers.ListInquiries)
			admin.PATCH("/inquiries", controllers.UpdateInquiryStatus)
			admin.DELETE("/inquiries/:id", controllers.DeleteInquiry)
			admin.GET("/users", controllers.ListUsers)
			admin.DELETE("/users/:id", controllers.DeleteUser)
			admin.GET("/admin/dashboard", controllers.GetDashboardStats)
		}
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "VrindaCare Pharmacy API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
