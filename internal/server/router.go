package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/plumbline/plumbline-backend/internal/handlers"
  "github.com/plumbline/plumbline-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware       *middleware.AuthMiddleware
  ScopeHandler         *handlers.ScopeHandler
  SubmissionHandler    *handlers.SubmissionHandler
  LevelingHandler      *handlers.LevelingHandler
  ClarificationHandler *handlers.ClarificationHandler
  EstimateHandler      *handlers.EstimateHandler
  RealtimeHandler      *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // SSE
  protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
  protected.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
  protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)

  api := protected.Group("/api")
  // Scope
  api.POST("/projects", cfg.ScopeHandler.CreateProject)
  api.GET("/projects", cfg.ScopeHandler.ListProjects)
  api.GET("/projects/:id/scope", cfg.ScopeHandler.GetProjectScope)
  api.POST("/subcontractors", cfg.ScopeHandler.CreateSubcontractor)
  api.POST("/divisions", cfg.ScopeHandler.CreateDivisions)
  api.GET("/divisions", cfg.ScopeHandler.ListDivisions)
  api.POST("/scope-items", cfg.ScopeHandler.CreateScopeItems)
  api.POST("/packages", cfg.ScopeHandler.CreateScopePackage)
  api.POST("/packages/:id/items", cfg.ScopeHandler.AssignItemsToPackage)
  api.POST("/projects/:id/invitations", cfg.ScopeHandler.InviteBids)
  // Intake
  api.POST("/submissions/freeform", cfg.SubmissionHandler.RecordFreeform)
  api.POST("/submissions/freeform/:id/process", cfg.SubmissionHandler.ProcessFreeform)
  // Leveling
  api.GET("/projects/:id/leveling", cfg.LevelingHandler.LevelProject)
  api.GET("/packages/:id/coverage", cfg.LevelingHandler.LevelPackage)
  // Clarifications
  api.GET("/projects/:id/clarifications", cfg.ClarificationHandler.ListForProject)
  api.POST("/clarifications/:id/resolve", cfg.ClarificationHandler.Resolve)
  // Estimate
  api.GET("/projects/:id/estimate", cfg.EstimateHandler.BuildEstimate)
  api.GET("/projects/:id/estimate-settings", cfg.EstimateHandler.GetSettings)
  api.PUT("/projects/:id/estimate-settings", cfg.EstimateHandler.UpsertSettings)

  return router
}
