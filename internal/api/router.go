package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbdurRehmanbaig1/paktravel/internal/api/handlers"
	"github.com/AbdurRehmanbaig1/paktravel/internal/api/middleware"
	"github.com/AbdurRehmanbaig1/paktravel/internal/config"
	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, client *mongo.Client, db *mongo.Database, rdb *redis.Client, taskClient handlers.IAsynqClient) *gin.Engine {
	// Initialize services needed by API handlers
	clientService := services.NewClientService(client, db, cfg)
	ledgerService := services.NewLedgerService(client, db, cfg, rdb)
	tourService := services.NewTourService(client, db, cfg)
	statementService := services.NewStatementService(clientService, ledgerService)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Global middleware (order matters)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(clientService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, statementService, taskClient)
	tourHandler := handlers.NewTourHandler(tourService)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Travel Agency Management API")
	})
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	clientsGroup := r.Group("/clients")
	{
		clientsGroup.POST("", clientHandler.Create)
		clientsGroup.GET("", clientHandler.List)
		clientsGroup.GET("/:phone", clientHandler.GetByPhone)
		clientsGroup.DELETE("/:phone", clientHandler.Delete)

		// Ledger routes
		clientsGroup.POST("/:phone/ledger", ledgerHandler.AddTransaction)
		clientsGroup.GET("/:phone/ledger", ledgerHandler.ListTransactions)
		clientsGroup.GET("/:phone/ledger/summary", ledgerHandler.GetSummary)
		clientsGroup.GET("/:phone/ledger/statement", ledgerHandler.GetStatement)
	}

	toursGroup := r.Group("/tours")
	{
		toursGroup.POST("", tourHandler.Create)
		toursGroup.GET("", tourHandler.List)
		toursGroup.GET("/:clientPhone/:tourId", tourHandler.GetByID)
		toursGroup.DELETE("/:clientPhone/:tourId", tourHandler.Delete)
	}

	return r
}
