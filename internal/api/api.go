package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/smartstockx/backend-go/internal/api/handlers"
	"github.com/andresuchdata/smartstockx/backend-go/internal/api/middleware"
)

type Services struct {
	Analytics handlers.AnalyticsReader
	Runs      handlers.RunExecutor
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
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

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Runs != nil {
			runHandler := handlers.NewRunHandler(services.Runs)
			apiGroup.POST("/run", runHandler.CreateRun)
		}

		if services.Analytics != nil {
			h := handlers.NewAnalyticsHandler(services.Analytics)
			apiGroup.GET("/inventory", h.GetInventory)
			apiGroup.GET("/inventory/stats", h.GetInventoryStats)
			apiGroup.GET("/transfers", h.GetTransfers)
			apiGroup.GET("/transfers/summary", h.GetTransferSummary)

			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/portfolio", h.GetPortfolio)
				analyticsGroup.GET("/stores", h.GetStores)
			}
		}
	}

	return router
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
