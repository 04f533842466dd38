package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Config bundles the gateway settings.
type Config struct {
	Connection ConnectionConfig
	Consumer   ConsumerConfig
}

// DefaultConfig returns gateway settings for local development.
func DefaultConfig() Config {
	return Config{
		Connection: DefaultConnectionConfig(),
		Consumer:   DefaultConsumerConfig(),
	}
}

// Service wires the connection manager, viewer hub, event consumer and attach
// handler into one read-only gateway.
type Service struct {
	manager  *ConnectionManager
	hub      *ViewerHub
	consumer *EventConsumer
	handler  *WebSocketHandler
}

// NewService builds the gateway. presence may be nil when the presence
// registry is disabled.
func NewService(config Config, state StateProvider, presence PresenceRegistry, clock clockwork.Clock) (*Service, error) {
	manager := NewConnectionManager(config.Connection)
	hub := NewViewerHub(clock, manager)
	manager.SetOnGameEmpty(hub.Stop)

	consumer, err := NewEventConsumer(manager, hub, clock, config.Consumer)
	if err != nil {
		return nil, fmt.Errorf("create event consumer: %w", err)
	}

	handler := NewWebSocketHandler(manager, hub, state, presence, clock)

	return &Service{
		manager:  manager,
		hub:      hub,
		consumer: consumer,
		handler:  handler,
	}, nil
}

// RegisterRoutes registers the viewer routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.handler.RegisterRoutes(mux)
}

// Start runs the broadcast loop and event consumer until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	go s.manager.Start(ctx)

	if err := s.consumer.Start(ctx); err != nil {
		return fmt.Errorf("run event consumer: %w", err)
	}

	s.hub.StopAll()
	s.consumer.Stop()
	log.Info().Msg("gateway service stopped")
	return nil
}
