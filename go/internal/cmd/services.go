package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/admin"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/games"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gateway"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/livegame"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/presence"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/stream"
)

// Services bundles the wired application services.
type Services struct {
	AdminController *admin.Controller
	AdminHandler    *admin.Handler
	GamesHandler    *games.Handler
	Gateway         *gateway.Service
	Publisher       *stream.Publisher
}

// setupServices wires the dependency chain: stores, publisher, controller,
// gateway.
func setupServices(ctx context.Context, config *Config, mongoClient *mongo.Client, pool *pgxpool.Pool, redisClient *redis.Client, clock clockwork.Clock) (*Services, error) {
	// Live games in Mongo
	collection := mongoClient.Database(config.Mongo.Database).Collection(config.Mongo.Collection)
	liveRepo := livegame.NewRepository(collection)

	// Finalized records in Postgres
	gamesRepo := games.NewRepository(pool)
	if err := gamesRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	gamesHandler := games.NewHandler(gamesRepo)

	// Event publisher on NATS JetStream
	publisherConfig := stream.DefaultPublisherConfig()
	publisherConfig.URL = config.NATS.URL
	publisher, err := stream.NewPublisher(publisherConfig)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}

	// Admin controller and handler
	controller := admin.NewController(liveRepo, gamesRepo, publisher, clock)
	adminHandler := admin.NewHandler(controller, clock)

	// Viewer gateway with Redis-backed presence
	registry := presence.NewRegistry(redisClient, config.presenceTTL())
	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.Consumer.URL = config.NATS.URL
	gatewayService, err := gateway.NewService(gatewayConfig, liveRepo, registry, clock)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	return &Services{
		AdminController: controller,
		AdminHandler:    adminHandler,
		GamesHandler:    gamesHandler,
		Gateway:         gatewayService,
		Publisher:       publisher,
	}, nil
}

// Close releases everything setupServices opened.
func (s *Services) Close() {
	s.AdminController.Close()
	s.Publisher.Close()
}
