package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/article-api/internal/config"
	"github.com/article-api/internal/metrics"
	"github.com/article-api/internal/service"
)

const (
	serviceName     = "article-api"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PoolStatter exposes connection pool statistics
type PoolStatter interface {
	Stats() sql.DBStats
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, db HealthChecker, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	if cfg != nil && cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware())

	articleHandler := NewArticleHandler(services, log)
	importHandler := NewImportHandler(services, cfg, log)
	exportHandler := NewExportHandler(services, log)

	router.GET("/health", healthCheck(db))
	router.GET("/stats", statsHandler(services, db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	articles := router.Group("/article")
	{
		articles.POST("/create", articleHandler.Create)
		articles.GET("/all", articleHandler.ListAll)
		articles.GET("/:id", articleHandler.GetByID)
		articles.GET("/search/title/:fragment", articleHandler.SearchByTitle)
		articles.PUT("/update/:id", articleHandler.Update)
		articles.DELETE("/delete/:id", articleHandler.Delete)

		articles.POST("/import", importHandler.ImportArticles)
		articles.GET("/export", exportHandler.StreamExport)
	}

	return router
}

// healthCheck returns the health status, pinging the database when one is wired
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"error":     "database unreachable",
					"timestamp": time.Now().Format(time.RFC3339),
					"service":   serviceName,
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// statsHandler returns stored article counts and, when db exposes them,
// connection pool statistics
func statsHandler(services *service.Services, db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := services.Article.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count articles"})
			return
		}

		dbStats := gin.H{"articles": count}
		if ps, ok := db.(PoolStatter); ok {
			s := ps.Stats()
			dbStats["pool"] = gin.H{
				"max_open_connections": s.MaxOpenConnections,
				"open_connections":     s.OpenConnections,
				"in_use":               s.InUse,
				"idle":                 s.Idle,
				"wait_count":           s.WaitCount,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"database":  dbStats,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware propagates X-Request-ID or assigns a fresh UUID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request completed")
	}
}

// metricsMiddleware records request counts and latency per route template
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
