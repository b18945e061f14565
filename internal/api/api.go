// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/logistiq/vvp-backend/internal/admin"
	"github.com/logistiq/vvp-backend/internal/api/handlers"
	"github.com/logistiq/vvp-backend/internal/api/middleware"
	"github.com/logistiq/vvp-backend/internal/catalog"
)

type Services struct {
	Store           *catalog.Store
	Admin           *admin.Service
	DataDir         string
	UploadDir       string
	FranceRatesPath string
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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

	apiGroup := router.Group("/api/v1")

	if services != nil && services.Store != nil {
		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":       "ok",
				"last_warning": services.Store.LastWarning(),
			})
		})

		calcHandler := handlers.NewCalcHandler(services.Store, services.DataDir, services.FranceRatesPath)
		calcGroup := apiGroup.Group("/calc")
		{
			calcGroup.POST("/vvp", calcHandler.CalculateVVP)
			calcGroup.POST("/second-leg", calcHandler.CalculateSecondLeg)
			calcGroup.POST("/pnl", calcHandler.CalculateProfitLoss)
			calcGroup.POST("/france-delivery", calcHandler.CalculateFranceDelivery)
		}

		catalogHandler := handlers.NewCatalogHandler(services.Store, services.Admin)
		apiGroup.GET("/catalog", catalogHandler.GetCatalog)

		warehouseGroup := apiGroup.Group("/warehouses")
		{
			warehouseGroup.GET("", catalogHandler.ListWarehouses)
			warehouseGroup.GET("/:id", catalogHandler.GetWarehouse)
			warehouseGroup.POST("", catalogHandler.CreateWarehouse)
			warehouseGroup.PUT("/:id", catalogHandler.UpdateWarehouse)
			warehouseGroup.DELETE("/:id", catalogHandler.DeleteWarehouse)
		}

		customerGroup := apiGroup.Group("/customers")
		{
			customerGroup.GET("", catalogHandler.ListCustomers)
			customerGroup.GET("/:id", catalogHandler.GetCustomer)
			customerGroup.POST("", catalogHandler.CreateCustomer)
			customerGroup.PUT("/:id", catalogHandler.UpdateCustomer)
			customerGroup.DELETE("/:id", catalogHandler.DeleteCustomer)
		}

		convertHandler := handlers.NewConvertHandler(services.UploadDir)
		apiGroup.POST("/ratetables/convert", convertHandler.ConvertRateTable)
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
