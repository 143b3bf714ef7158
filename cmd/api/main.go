package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"dawah-crm/internal/application"
	"dawah-crm/internal/config"
	"dawah-crm/internal/infrastructure/api"
	"dawah-crm/internal/infrastructure/cache"
	"dawah-crm/internal/infrastructure/hubspot"
	"dawah-crm/internal/infrastructure/metrics"
	"dawah-crm/internal/infrastructure/repository"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// webhookDedupeTTL bounds how long an event id blocks redeliveries.
const webhookDedupeTTL = 24 * time.Hour

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg := config.Load()

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	// Redis backs webhook dedupe only; the app stays up without it.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	deduper := cache.NewEventDeduper(redisClient, webhookDedupeTTL, logger)

	syncMetrics := metrics.New()

	// Initialize repositories
	contacts := repository.NewMongoContactRepository(db)
	pledges := repository.NewMongoPledgeRepository(db)
	activities := repository.NewMongoActivityRepository(db)
	projects := repository.NewMongoProjectRepository(db)
	organizations := repository.NewMongoOrganizationRepository(db)
	callLogs := repository.NewMongoCallLogRepository(db)
	schedules := repository.NewMongoScheduleRepository(db)
	comments := repository.NewMongoCommentRepository(db)
	emails := repository.NewMongoEmailRepository(db)
	users := repository.NewMongoUserRepository(db)
	tokens := repository.NewMongoTokenRepository(db)

	// Initialize application services
	authService := application.NewAuthService(users, tokens, cfg.AuthTokenTTL, logger)
	syncService := application.NewSyncService(contacts, pledges, activities, syncMetrics, logger)

	// Register enabled integrations. A misconfigured integration is logged
	// and skipped; the rest of the app keeps running.
	for name, integration := range cfg.Integrations() {
		if !integration.Enabled {
			continue
		}
		switch name {
		case "hubspot":
			adapter, err := hubspot.New(integration.APIKey, logger)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to initialize HubSpot integration")
				continue
			}
			syncService.Register(name, adapter)
		default:
			logger.Warn().Str("integration", name).Msg("Unknown integration in configuration")
		}
	}

	autoSync := cfg.SyncOnCreate()

	router := api.NewRouter(api.Handlers{
		Auth:         api.NewAuthHandlers(authService, logger),
		Contacts:     api.NewContactHandlers(contacts, syncService, autoSync.Contacts, logger),
		Pledges:      api.NewPledgeHandlers(pledges, syncService, autoSync.Pledges, logger),
		Activities:   api.NewActivityHandlers(activities, syncService, autoSync.Activities, logger),
		Projects:     api.NewProjectHandlers(projects, logger),
		Orgs:         api.NewOrganizationHandlers(organizations, logger),
		Engagement:   api.NewEngagementHandlers(callLogs, schedules, comments, logger),
		Emails:       api.NewEmailHandlers(emails, logger),
		Integrations: api.NewIntegrationHandlers(syncService, deduper, syncMetrics, logger),

		Authenticator:  authService,
		MetricsHandler: syncMetrics.Handler(),
		ClientURL:      cfg.ClientURL,
	})

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
