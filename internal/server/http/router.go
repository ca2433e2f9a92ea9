// Package http exposes configured agents over a small HTTP surface: per-agent
// run, stream and info endpoints plus service-level health, directory and
// metrics routes.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmad2b/cogniserve/internal/logging"
	"github.com/ahmad2b/cogniserve/internal/observability"
	"github.com/ahmad2b/cogniserve/internal/runtime"
	"github.com/ahmad2b/cogniserve/internal/session"
)

const serviceVersion = "1.0.0"

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Runner executes agent requests. Required.
	Runner runtime.Runner
	// Sessions stores transcripts; nil disables the session endpoints.
	Sessions *session.Store
	// Metrics receives endpoint counters; nil disables collection.
	Metrics *observability.Metrics
	// Environment selects the gin mode; "production" switches to release.
	Environment string
	// ServiceName appears in the health and directory payloads.
	ServiceName string
}

// NewRouter builds the gin engine with all agents mounted. Each bound agent
// gets the standard endpoint set under its prefix.
func NewRouter(agents []*AgentHandler, opts RouterOptions) *gin.Engine {
	if opts.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "cogniserve"
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	for _, h := range agents {
		h.Register(engine)
	}

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": opts.ServiceName,
			"version": serviceVersion,
			"agents":  directory(agents),
		})
	})
	engine.GET("/health", func(c *gin.Context) {
		names := make([]string, 0, len(agents))
		for _, h := range agents {
			names = append(names, h.Name())
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"service":      opts.ServiceName,
			"version":      serviceVersion,
			"agents":       names,
			"total_agents": len(agents),
		})
	})
	engine.GET("/agents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"agents": directory(agents)})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

func directory(agents []*AgentHandler) []gin.H {
	out := make([]gin.H, 0, len(agents))
	for _, h := range agents {
		out = append(out, gin.H{
			"name":      h.Name(),
			"endpoints": h.Endpoints(),
		})
	}
	return out
}

func requestLogger() gin.HandlerFunc {
	logger := logging.NewComponentLogger("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		elapsed := time.Since(start)
		if status >= http.StatusInternalServerError {
			logger.Error("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		logger.Info("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
