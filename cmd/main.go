package main

import (
  "context"
  "errors"
  "fmt"
  "net/http"
  "os"
  "os/signal"
  "syscall"
  "time"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/utils"
  "github.com/plumbline/plumbline-backend/internal/db"
  "github.com/plumbline/plumbline-backend/internal/repos"
  "github.com/plumbline/plumbline-backend/internal/services"
  "github.com/plumbline/plumbline-backend/internal/handlers"
  "github.com/plumbline/plumbline-backend/internal/middleware"
  "github.com/plumbline/plumbline-backend/internal/server"
  "github.com/plumbline/plumbline-backend/internal/sse"
  "github.com/plumbline/plumbline-backend/internal/clients/redis"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  projectRepo := repos.NewProjectRepo(thePG, log)
  subcontractorRepo := repos.NewSubcontractorRepo(thePG, log)
  divisionRepo := repos.NewDivisionRepo(thePG, log)
  scopeItemRepo := repos.NewScopeItemRepo(thePG, log)
  scopePackageRepo := repos.NewScopePackageRepo(thePG, log)
  itemBidRepo := repos.NewItemBidRepo(thePG, log)
  packageBidRepo := repos.NewPackageBidRepo(thePG, log)
  freeformRepo := repos.NewFreeformSubmissionRepo(thePG, log)
  clarificationRepo := repos.NewClarificationRequestRepo(thePG, log)
  estimateSettingRepo := repos.NewEstimateSettingRepo(thePG, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)
  sseBus, err := redis.NewSSEBus(log)
  if err != nil {
    log.Warn("Redis SSE bus unavailable; events stay in-process", "error", err)
    sseBus = nil
  }
  ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
  defer stop()
  if sseBus != nil {
    if err := sseBus.StartForwarder(ctx, func(m sse.SSEMessage) {
      sseHub.Broadcast(m)
    }); err != nil {
      log.Warn("Could not start SSE forwarder", "error", err)
    }
    defer sseBus.Close()
  }

  // Services
  log.Info("Setting up Services from main...")
  notifier := services.NewLevelingNotifier(log, sseHub, sseBus)
  tokenService := services.NewTokenService(log, jwtSecretKey)
  scopeService := services.NewScopeService(thePG, log, projectRepo, subcontractorRepo, divisionRepo, scopeItemRepo, scopePackageRepo, itemBidRepo)
  levelingService := services.NewLevelingService(thePG, log, scopePackageRepo, scopeItemRepo, itemBidRepo, packageBidRepo)
  intakeService := services.NewIntakeService(thePG, log, freeformRepo, scopeItemRepo, scopePackageRepo, itemBidRepo, packageBidRepo, clarificationRepo, subcontractorRepo, notifier)
  estimateService := services.NewEstimateService(log, scopeItemRepo, estimateSettingRepo, levelingService, notifier)

  // Handlers
  log.Info("Setting up handlers from main...")
  scopeHandler := handlers.NewScopeHandler(scopeService)
  submissionHandler := handlers.NewSubmissionHandler(intakeService)
  levelingHandler := handlers.NewLevelingHandler(levelingService)
  clarificationHandler := handlers.NewClarificationHandler(intakeService)
  estimateHandler := handlers.NewEstimateHandler(estimateService)
  realtimeHandler := handlers.NewRealtimeHandler(log, sseHub)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, tokenService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:       authMiddleware,
    ScopeHandler:         scopeHandler,
    SubmissionHandler:    submissionHandler,
    LevelingHandler:      levelingHandler,
    ClarificationHandler: clarificationHandler,
    EstimateHandler:      estimateHandler,
    RealtimeHandler:      realtimeHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  srv := &http.Server{
    Addr:    ":" + port,
    Handler: router,
  }
  go func() {
    log.Info("Server listening", "port", port)
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
      log.Error("Server failed", "error", err)
      stop()
    }
  }()

  <-ctx.Done()
  log.Info("Shutting down...")
  shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
  defer cancel()
  if err := srv.Shutdown(shutdownCtx); err != nil {
    log.Warn("Forced shutdown", "error", err)
  }
}
