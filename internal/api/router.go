package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ducminhle1904/ta-engine/internal/monitoring"
)

// NewRouter builds the gin engine with the API, /healthz and /metrics
func NewRouter(h *Handler) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), requestLogger())

	h.RegisterRoutes(e)
	e.GET("/healthz", gin.WrapH(h.health))
	e.GET("/metrics", gin.WrapH(monitoring.NewMetricsHandler()))
	return e
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.RequestURI(), c.Writer.Status(), time.Since(start))
	}
}
