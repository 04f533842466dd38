package gateway

import (
	"fmt"
	"testing"
)

func newTestConnection(cm *ConnectionManager, id, gameID string) *Connection {
	return &Connection{
		ID:      id,
		UserID:  "u-" + id,
		GameID:  gameID,
		Send:    make(chan []byte, 1024),
		Manager: cm,
	}
}

func TestViewerCountTracksRegistration(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())

	a := newTestConnection(cm, "a", "g1")
	b := newTestConnection(cm, "b", "g1")
	cm.registerConnection(a)
	cm.registerConnection(b)
	if got := cm.ViewerCount("g1"); got != 2 {
		t.Fatalf("ViewerCount = %d, want 2", got)
	}

	var emptied []string
	cm.SetOnGameEmpty(func(gameID string) { emptied = append(emptied, gameID) })

	cm.unregisterConnection(a)
	if got := cm.ViewerCount("g1"); got != 1 {
		t.Fatalf("ViewerCount after one leave = %d, want 1", got)
	}
	if len(emptied) != 0 {
		t.Fatal("onGameEmpty fired with a viewer still attached")
	}

	cm.unregisterConnection(b)
	if got := cm.ViewerCount("g1"); got != 0 {
		t.Fatalf("ViewerCount after all leave = %d, want 0", got)
	}
	if len(emptied) != 1 || emptied[0] != "g1" {
		t.Fatalf("onGameEmpty calls = %v, want [g1]", emptied)
	}

	// Unregistering twice is a no-op.
	cm.unregisterConnection(b)
}

func TestBroadcastRacingDisconnect(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	frame := newFrame(FrameTypeClockTick, "g1", ClockTickData{ClockDisplay: "0.0"})

	// Viewers churning while frames broadcast must never send on a closed
	// channel.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			conn := newTestConnection(cm, fmt.Sprintf("c%d", i), "g1")
			cm.registerConnection(conn)
			cm.handleBroadcast(broadcastMessage{GameID: "g1", Frame: frame})
			cm.unregisterConnection(conn)
		}
	}()
	for i := 0; i < 200; i++ {
		cm.handleBroadcast(broadcastMessage{GameID: "g1", Frame: frame})
	}
	<-done

	if got := cm.ViewerCount("g1"); got != 0 {
		t.Fatalf("ViewerCount after churn = %d, want 0", got)
	}
}
