// Package api assembles the HTTP surface of the converter.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Conversly/notion-converter/internal/api/conversion"
	"github.com/Conversly/notion-converter/internal/config"
	"github.com/Conversly/notion-converter/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func NewRouter(cfg *config.Config, service *conversion.Service, version string) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(), Recovery())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.HealthResponse{
			Status:      "ok",
			Service:     cfg.ServiceName,
			Version:     version,
			Environment: cfg.Environment,
			Timestamp:   time.Now().UTC(),
		})
	})

	conversion.RegisterRoutes(router, service, cfg.StrictIDValidation)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return router
}

// NewHandler wraps the router with CORS handling for the configured origins.
func NewHandler(cfg *config.Config, router http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		Debug:          strings.EqualFold(cfg.LogLevel, "debug"),
	})
	return c.Handler(router)
}
