package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/stream"
)

// ConsumerConfig holds configuration for the JetStream consumer.
type ConsumerConfig struct {
	URL           string
	StreamName    string
	ConsumerName  string
	SubjectFilter string
	MaxDeliver    int
	AckWait       time.Duration
	MaxAckPending int
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConsumerConfig returns consumer settings for local development.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		URL:           nats.DefaultURL,
		StreamName:    "LIVEGAME_EVENTS",
		ConsumerName:  "live-gateway",
		SubjectFilter: "livegame.events.>",
		MaxDeliver:    5,
		AckWait:       30 * time.Second,
		MaxAckPending: 100,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// EventConsumer consumes live game events from JetStream and relays them to
// WebSocket viewers: snapshots update the projection sessions, endings tear
// them down.
type EventConsumer struct {
	manager  *ConnectionManager
	hub      *ViewerHub
	clock    clockwork.Clock
	nc       *nats.Conn
	js       jetstream.JetStream
	consumer jetstream.Consumer
	config   ConsumerConfig
}

// NewEventConsumer connects to NATS and binds the gateway consumer to the
// live game event stream.
func NewEventConsumer(manager *ConnectionManager, hub *ViewerHub, clock clockwork.Clock, config ConsumerConfig) (*EventConsumer, error) {
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

	ec := &EventConsumer{
		manager: manager,
		hub:     hub,
		clock:   clock,
		nc:      nc,
		js:      js,
		config:  config,
	}

	if err := ec.ensureConsumer(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure consumer: %w", err)
	}

	return ec, nil
}

func (ec *EventConsumer) ensureConsumer(ctx context.Context) error {
	s, err := ec.js.Stream(ctx, ec.config.StreamName)
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}

	consumer, err := s.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          ec.config.ConsumerName,
		Durable:       ec.config.ConsumerName,
		Description:   "live game WebSocket gateway consumer",
		FilterSubject: ec.config.SubjectFilter,
		DeliverPolicy: jetstream.DeliverLastPerSubjectPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    ec.config.MaxDeliver,
		AckWait:       ec.config.AckWait,
		MaxAckPending: ec.config.MaxAckPending,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	ec.consumer = consumer
	return nil
}

// Start consumes events until ctx is cancelled.
func (ec *EventConsumer) Start(ctx context.Context) error {
	log.Info().
		Str("consumer", ec.config.ConsumerName).
		Str("stream", ec.config.StreamName).
		Msg("starting event consumer")

	messageCh := make(chan jetstream.Msg, 100)
	consumeCtx, err := ec.consumer.Consume(func(msg jetstream.Msg) {
		select {
		case messageCh <- msg:
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	defer consumeCtx.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("event consumer shutting down")
			return nil
		case msg := <-messageCh:
			if err := ec.processMessage(msg); err != nil {
				log.Error().
					Err(err).
					Str("subject", msg.Subject()).
					Msg("failed to process event")
				if nakErr := msg.Nak(); nakErr != nil {
					log.Error().Err(nakErr).Msg("failed to NAK message")
				}
			} else if ackErr := msg.Ack(); ackErr != nil {
				log.Error().Err(ackErr).Msg("failed to ACK message")
			}
		}
	}
}

func (ec *EventConsumer) processMessage(msg jetstream.Msg) error {
	var event stream.Event
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		return fmt.Errorf("unmarshal event envelope: %w", err)
	}

	log.Debug().
		Str("event_id", event.ID).
		Str("game_id", event.GameID).
		Str("event_type", string(event.Type)).
		Msg("processing event")

	switch event.Type {
	case stream.EventTypeGameUpdated:
		var payload stream.GameUpdatedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal GameUpdated payload: %w", err)
		}
		ec.hub.UpdateCheckpoint(event.GameID, payload.Game.ClockCheckpoint)
		p := gameclock.Project(payload.Game.ClockCheckpoint, ec.clock.Now())
		ec.manager.BroadcastToGame(event.GameID, snapshotFrame(&payload.Game, p))
		return nil

	case stream.EventTypeGameEnded:
		// The live document is gone; viewers see the ending, late joiners
		// get not_found from the attach path.
		ec.hub.Stop(event.GameID)
		ec.manager.BroadcastToGame(event.GameID, &Frame{
			Type:   FrameTypeGameEnded,
			GameID: event.GameID,
			Data:   event.Payload,
		})
		return nil

	default:
		log.Warn().
			Str("event_type", string(event.Type)).
			Str("game_id", event.GameID).
			Msg("unknown event type - ignoring")
		return nil
	}
}

// Stop closes the NATS connection.
func (ec *EventConsumer) Stop() {
	if ec.nc != nil {
		ec.nc.Close()
	}
}
