// Package api exposes single runs and Monte Carlo batches over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine with all routes and wraps it in CORS handling.
// allowedOrigins empty means any origin.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	router := gin.New()
	router.Use(requestLogger())
	router.Use(errorHandler())

	router.GET("/health", h.Health)

	v1 := router.Group("/v1")
	{
		v1.GET("/presets", h.ListPresets)
		v1.POST("/simulations", h.RunSimulation)
		v1.POST("/batches", h.RunBatch)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorBody{Error: ErrorDetail{Code: "NOT_FOUND", Message: "no route for " + c.Request.URL.Path}})
	})

	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}
	if len(allowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.New(opts).Handler(router)
}

// requestLogger logs one line per request through logrus.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("request")
	}
}

// errorHandler recovers from panics with a JSON 500.
func errorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.Errorf("panic serving %s: %v", c.Request.URL.Path, recovered)
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Error: ErrorDetail{Code: CodeInternal, Message: message}})
	})
}
