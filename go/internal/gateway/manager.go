package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager fans live game frames out to WebSocket viewers. Viewers
// are read-only: inbound messages are logged and dropped.
type ConnectionManager struct {
	gameConnections map[string]map[*Connection]bool
	mu              sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan broadcastMessage

	// onGameEmpty fires when the last viewer of a game disconnects, so the
	// per-game projection session can be torn down.
	onGameEmpty func(gameID string)

	// onDisconnect fires once per closed connection.
	onDisconnect func(conn *Connection)
}

// Connection is one WebSocket viewer.
type Connection struct {
	ID      string
	UserID  string
	GameID  string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds WebSocket tuning knobs.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

type broadcastMessage struct {
	GameID string
	Frame  *Frame
}

// DefaultConnectionConfig returns WebSocket settings for development.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a WebSocket connection manager.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		gameConnections: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcastMessage, 1000),
	}
}

// SetOnGameEmpty installs the last-viewer-gone callback. Call before Start.
func (cm *ConnectionManager) SetOnGameEmpty(fn func(gameID string)) {
	cm.onGameEmpty = fn
}

// SetOnDisconnect installs the per-connection close callback. Call before
// Start.
func (cm *ConnectionManager) SetOnDisconnect(fn func(conn *Connection)) {
	cm.onDisconnect = fn
}

// Start processes broadcast messages until ctx is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a viewer WebSocket and starts
// its pumps. Returns the registered connection.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, userID, gameID string) (*Connection, error) {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		GameID:      gameID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("user_id", userID).
		Str("game_id", gameID).
		Msg("viewer connected")

	return connection, nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.gameConnections[conn.GameID] == nil {
		cm.gameConnections[conn.GameID] = make(map[*Connection]bool)
	}
	cm.gameConnections[conn.GameID][conn] = true
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	var removed, empty bool
	if connections, exists := cm.gameConnections[conn.GameID]; exists {
		if _, exists := connections[conn]; exists {
			delete(connections, conn)
			close(conn.Send)
			removed = true
			if len(connections) == 0 {
				delete(cm.gameConnections, conn.GameID)
				empty = true
			}
			log.Info().
				Str("connection_id", conn.ID).
				Str("game_id", conn.GameID).
				Msg("viewer disconnected")
		}
	}
	cm.mu.Unlock()

	if removed && cm.onDisconnect != nil {
		cm.onDisconnect(conn)
	}
	if empty && cm.onGameEmpty != nil {
		cm.onGameEmpty(conn.GameID)
	}
}

// BroadcastToGame queues a frame for every viewer of a game.
func (cm *ConnectionManager) BroadcastToGame(gameID string, frame *Frame) {
	select {
	case cm.broadcastCh <- broadcastMessage{GameID: gameID, Frame: frame}:
	default:
		log.Warn().Str("game_id", gameID).Msg("broadcast channel full, dropping frame")
	}
}

func (cm *ConnectionManager) handleBroadcast(message broadcastMessage) {
	data, err := json.Marshal(message.Frame)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal frame for broadcast")
		return
	}

	// Send while holding the read lock: Send channels are only closed under
	// the write lock, so a racing disconnect cannot close one mid-send.
	var slow []*Connection
	cm.mu.RLock()
	for conn := range cm.gameConnections[message.GameID] {
		select {
		case conn.Send <- data:
		default:
			slow = append(slow, conn)
		}
	}
	cm.mu.RUnlock()

	for _, conn := range slow {
		// Slow or dead viewer; drop it.
		log.Warn().
			Str("connection_id", conn.ID).
			Msg("send buffer full, closing connection")
		cm.unregisterConnection(conn)
		conn.Conn.Close()
	}
}

// ViewerCount reports active viewers for a game.
func (cm *ConnectionManager) ViewerCount(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.gameConnections[gameID])
}

// Stats summarizes active connections across games.
func (cm *ConnectionManager) Stats() map[string]int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	total := 0
	for _, connections := range cm.gameConnections {
		total += len(connections)
	}
	return map[string]int{
		"total_connections": total,
		"active_games":      len(cm.gameConnections),
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write frame")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected close")
			}
			break
		}

		// Viewers have no commands; log and ignore.
		log.Debug().
			Str("connection_id", c.ID).
			RawJSON("message", message).
			Msg("ignoring client message")
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
