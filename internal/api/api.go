package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ksr-21/smartstock/internal/api/handlers"
	"github.com/ksr-21/smartstock/internal/api/middleware"
	"github.com/ksr-21/smartstock/internal/service"
)

type Services struct {
	Forecasts *service.ForecastService
	Explain   *service.ExplainService
	Anomalies *service.AnomalyService
	Overview  *service.OverviewService
	Orders    *service.OrderService
	Inventory *service.InventoryService
	// Batch serves the scheduled refresh results; nil when no schedule runs.
	Batch handlers.BatchSource

	// Now is the clock used for detection dates and order timestamps.
	Now func() time.Time
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.NoRoute(func(c *gin.Context) {
		errorResponse(c, http.StatusNotFound, "route not found")
	})

	apiGroup := router.Group("/api/v1")
	ownerGroup := apiGroup.Group("/owners/:owner")

	if services == nil {
		return router
	}

	if services.Forecasts != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecasts, services.Explain)
		apiGroup.GET("/events", forecastHandler.GetEvents)
		ownerGroup.GET("/forecasts", forecastHandler.GetForecasts)
		ownerGroup.POST("/simulations", forecastHandler.Simulate)
		if services.Explain != nil {
			ownerGroup.POST("/products/:product/explanation", forecastHandler.ExplainProduct)
			ownerGroup.POST("/chat", forecastHandler.Chat)
		}
	}

	if services.Anomalies != nil {
		anomalyHandler := handlers.NewAnomalyHandler(services.Anomalies, services.Overview, services.Now)
		ownerGroup.GET("/anomalies", anomalyHandler.GetAnomalies)
		ownerGroup.GET("/notifications", anomalyHandler.GetNotifications)
		if services.Overview != nil {
			ownerGroup.GET("/overview", anomalyHandler.GetOverview)
		}
	}

	if services.Orders != nil {
		orderHandler := handlers.NewOrderHandler(services.Orders, services.Now)
		ownerGroup.GET("/orders", orderHandler.ListOrders)
		ownerGroup.POST("/orders", orderHandler.PlaceOrder)
		ownerGroup.GET("/products/:product/contact", orderHandler.GetContactLink)
		apiGroup.GET("/suppliers", orderHandler.SearchSuppliers)
		apiGroup.PATCH("/orders/:order/status", orderHandler.UpdateStatus)
	}

	if services.Inventory != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory, services.Now)
		ownerGroup.POST("/products/:product/restock", inventoryHandler.Restock)
		ownerGroup.POST("/sales", inventoryHandler.Checkout)
	}

	if services.Batch != nil {
		batchHandler := handlers.NewBatchHandler(services.Batch)
		apiGroup.GET("/batch/latest", batchHandler.GetLatest)
		ownerGroup.GET("/batch/latest", batchHandler.GetOwnerLatest)
	}

	return router
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Warn().Str("path", c.Request.URL.Path).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
