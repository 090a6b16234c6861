package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/docs"
	"github.com/demirdoven/fluxa-analytics-service/internal/assistant"
	"github.com/demirdoven/fluxa-analytics-service/internal/catalog"
	"github.com/demirdoven/fluxa-analytics-service/internal/config"
	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
	"github.com/demirdoven/fluxa-analytics-service/internal/handler"
	"github.com/demirdoven/fluxa-analytics-service/internal/identity"
	"github.com/demirdoven/fluxa-analytics-service/internal/identity/redisstore"
	"github.com/demirdoven/fluxa-analytics-service/internal/logger"
	"github.com/demirdoven/fluxa-analytics-service/internal/queue/sqs"
	"github.com/demirdoven/fluxa-analytics-service/internal/redisx"
	"github.com/demirdoven/fluxa-analytics-service/internal/repository/clickhouse"
	"github.com/demirdoven/fluxa-analytics-service/internal/security"
	"github.com/demirdoven/fluxa-analytics-service/internal/service"
)

// @title Fluxa Visitor Analytics API
// @version 1.0
// @description API for visitor identity resolution, event tracking, and chat analytics
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Initialize Redis client (sessions, account links, price cache)
	redisClient, err := redisx.Open(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", zap.Error(err))
		}
	}()

	// Initialize assistant API client (identity provisioning, transcripts)
	assistantClient := assistant.NewClient(cfg.Assistant, log)

	// Initialize identity resolver
	codec := identity.NewCookieCodec(cfg.Identity.CookiePrefix, cfg.Identity.CookieSecret, cfg.Identity.CookieTTLDays)
	var provisioner identity.Provisioner
	if assistantClient.Configured() {
		provisioner = assistantClient
	}
	resolver := identity.NewResolver(
		redisstore.NewAccountStore(redisClient),
		redisstore.NewSessionStore(redisClient),
		provisioner,
		codec,
		log,
	)

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize ClickHouse client
	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	// Initialize repository
	repo := clickhouse.NewRepository(clickhouseClient, log)

	// Initialize services
	policy := domain.TrackingPolicy{
		Enabled:      cfg.Tracking.Enabled,
		EnabledTypes: cfg.Tracking.EnabledTypeSet(),
		Audience:     cfg.Tracking.Audience,
	}
	ingestService := service.NewIngestService(sqsClient, resolver, catalog.NewRedisLookup(redisClient), policy, log)
	analyticsService := service.NewAnalyticsService(repo, assistantClient, log)

	// Initialize handler
	tokens := security.NewTokenIssuer(cfg.Identity.TokenSecret)
	h := handler.NewHandler(ingestService, analyticsService, resolver, tokens, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
