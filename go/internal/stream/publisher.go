package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// PublisherConfig holds connection and stream settings for the publisher.
type PublisherConfig struct {
	URL           string
	StreamName    string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultPublisherConfig returns publisher settings for local development.
func DefaultPublisherConfig() PublisherConfig {
	return PublisherConfig{
		URL:           nats.DefaultURL,
		StreamName:    "LIVEGAME_EVENTS",
		SubjectPrefix: "livegame.events",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// Publisher pushes live game events into JetStream. One subject per game
// keeps per-document ordering for every subscriber.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config PublisherConfig
	clock  func() time.Time
}

// NewPublisher connects to NATS and ensures the event stream exists.
func NewPublisher(config PublisherConfig) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     config.StreamName,
		Subjects: []string{config.SubjectPrefix + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return &Publisher{
		nc:     nc,
		js:     js,
		config: config,
		clock:  time.Now,
	}, nil
}

// PublishGameUpdated pushes the full post-write snapshot for a game.
func (p *Publisher) PublishGameUpdated(ctx context.Context, game *models.LiveGame) error {
	payload, err := json.Marshal(GameUpdatedPayload{Game: *game})
	if err != nil {
		return fmt.Errorf("marshal GameUpdated payload: %w", err)
	}
	return p.publish(ctx, game.ID, EventTypeGameUpdated, payload)
}

// PublishGameEnded signals finalization of a game.
func (p *Publisher) PublishGameEnded(ctx context.Context, payload GameEndedPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal GameEnded payload: %w", err)
	}
	return p.publish(ctx, payload.GameID, EventTypeGameEnded, data)
}

func (p *Publisher) publish(ctx context.Context, gameID string, eventType EventType, payload json.RawMessage) error {
	event := Event{
		ID:        uuid.New().String(),
		GameID:    gameID,
		Type:      eventType,
		Timestamp: p.clock(),
		Payload:   payload,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.config.SubjectPrefix, gameID)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish %s for game %s: %w", eventType, gameID, err)
	}

	log.Debug().
		Str("game_id", gameID).
		Str("event_type", string(eventType)).
		Str("subject", subject).
		Msg("event published")
	return nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
