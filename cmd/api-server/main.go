package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glycora-ai/platform/pkg/common/config"
	"github.com/glycora-ai/platform/pkg/common/database"
	"github.com/glycora-ai/platform/pkg/common/kafka"
	"github.com/glycora-ai/platform/pkg/common/logger"
	"github.com/glycora-ai/platform/pkg/gateway/auth"
	"github.com/glycora-ai/platform/pkg/gateway/middleware"
	"github.com/glycora-ai/platform/pkg/identity"
	"github.com/glycora-ai/platform/pkg/inference"
	"github.com/glycora-ai/platform/pkg/observability/metrics"
	"github.com/glycora-ai/platform/pkg/serving"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// Artifacts must load before any traffic; a failure here aborts startup.
	thresholds, err := inference.LoadThresholds(cfg.RiskThresholdPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load risk thresholds")
	}
	artifacts, err := inference.LoadArtifacts(cfg.ArtifactDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load model artifacts")
	}
	inferenceService, err := inference.NewServiceFromArtifacts(artifacts, thresholds)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to build inference service")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}

	identityRepo := identity.NewRepository(db)
	if err := identityRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate users table")
	}
	identityService := identity.NewService(identityRepo)

	historyRepo := serving.NewRepository(db)
	if err := historyRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate daily_reports table")
	}

	redisClient := database.GetRedis()
	resultCache := serving.NewResultCache(redisClient, cfg.ResultCacheTTL)

	producer := kafka.NewProducer("prediction-events")
	defer producer.Close()

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to configure JWT manager")
	}

	handler := serving.NewHandler(inferenceService, historyRepo, resultCache, identityService, jwtManager, producer)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Authenticate(jwtManager))
	handler.Register(api, protected)

	if cfg.SSOIssuer != "" {
		sso, err := auth.NewSSOAuthenticator(cfg.SSOIssuer, cfg.SSOClientID, cfg.SSOClientSecret, "")
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to configure clinic SSO")
		}
		api.HandleFunc("/auth/sso", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, sso.AuthCodeURL(uuid.NewString()), http.StatusFound)
		}).Methods(http.MethodGet)
		logger.Log.WithField("issuer", sso.Issuer()).Info("Clinic SSO enabled")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("API server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("API server stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
