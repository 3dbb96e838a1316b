// Package httpapi is the thin HTTP surface over FleetRuntime: the
// "external collaborator" spec.md §1 treats as out of scope for the
// core's own semantics, given a concrete body here so the module is
// runnable end to end (SPEC_FULL.md §4.7). It exposes two dialects —
// reference (spec.md §6 field names verbatim) and device-compat (the
// nested vendor-style shape real firmware clients in this pack expect) —
// both calling only the 8 core operations. No simulation logic lives here.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/asicfleet/simulator/internal/httpapi/docs"

	"github.com/asicfleet/simulator/internal/fleet"
	"github.com/asicfleet/simulator/internal/history"
	"github.com/asicfleet/simulator/internal/hostmetrics"
)

// Server wires the gin engine to a FleetRuntime.
type Server struct {
	engine  *gin.Engine
	rt      *fleet.Runtime
	host    *hostmetrics.Reporter
	history *history.Store // nil if history recording is disabled
	log     *slog.Logger
}

// New constructs a Server with every route registered.
func New(rt *fleet.Runtime, host *hostmetrics.Reporter, hist *history.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(requestID(), slogLogger(logger.With("component", "http")), gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:    []string{"Origin", "Content-Type", requestIDHeader},
	}))

	s := &Server{engine: engine, rt: rt, host: host, history: hist, log: logger.With("component", "http")}
	s.routes()
	return s
}

// Handler exposes the configured gin engine for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/miners", s.handleListMiners)
		v1.POST("/miners", s.handleCreateMiner)
		v1.DELETE("/miners/:id", s.handleDeleteMiner)
		v1.GET("/miners/:id/telemetry", s.handleGetTelemetry)
		v1.GET("/miners/:id/stream", s.handleStream)
		v1.PATCH("/miners/:id/config", s.handlePatchConfig)
		v1.POST("/miners/:id/restart", s.handleRestart)
		v1.GET("/models", s.handleListModels)
		v1.GET("/scenarios", s.handleListScenarios)
		v1.GET("/version", s.handleVersion)
		if s.history != nil {
			v1.GET("/miners/:id/history", s.handleHistory)
		}
	}

	compat := s.engine.Group("/api/compat")
	{
		compat.GET("/miners/:id/status", s.handleCompatStatus)
		compat.GET("/miners/:id/summary", s.handleCompatSummary)
		compat.POST("/miners/:id/settings", s.handleCompatSettings)
		compat.POST("/miners/:id/restart", s.handleRestart)
	}
}
