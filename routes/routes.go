package routes

import (
	"net/http"

	"github.com/ecovilla/exchange-api/cache"
	"github.com/ecovilla/exchange-api/controllers"
	"github.com/ecovilla/exchange-api/middleware"
	"github.com/ecovilla/exchange-api/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	notifier := services.LogNotifier{}
	listingService := services.NewListingService(db, notifier)
	transactionService := services.NewTransactionService(db, notifier)
	moderationService := services.NewModerationService(db, listingService, notifier)
	listingCache := cache.NewListingCache(rdb)

	listingController := controllers.NewListingController(listingService, listingCache)
	transactionController := controllers.NewTransactionController(transactionService)
	moderationController := controllers.NewModerationController(moderationService, listingCache)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		SetupListingRoutes(protected, listingController, moderationController, transactionController)
		SetupTransactionRoutes(protected, transactionController)

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminRequired())
		SetupModerationRoutes(admin, moderationController)
	}
}
