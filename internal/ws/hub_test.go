package ws

import (
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub)
	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.clients[client] {
		t.Fatal("client not registered")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[client] {
		t.Fatal("client still registered after unregister")
	}

	// The hub closes the send channel on unregister
	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected closed send channel")
		}
	default:
		t.Fatal("send channel not closed")
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub)
	client2 := mockClient(hub)
	client3 := mockClient(hub)

	hub.register <- client1
	hub.register <- client2
	hub.register <- client3
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast("order.created", map[string]string{"order_id": "test-123"})

	clients := []*Client{client1, client2, client3}
	for i, client := range clients {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client%d: failed to unmarshal: %v", i+1, err)
			}
			if received.Type != "order.created" {
				t.Errorf("client%d: expected type 'order.created', got '%s'", i+1, received.Type)
			}
			var payload map[string]string
			if err := json.Unmarshal(received.Payload, &payload); err != nil {
				t.Fatalf("client%d: failed to unmarshal payload: %v", i+1, err)
			}
			if payload["order_id"] != "test-123" {
				t.Errorf("client%d: unexpected payload: %s", i+1, received.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestBroadcastAfterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stays := mockClient(hub)
	leaves := mockClient(hub)

	hub.register <- stays
	hub.register <- leaves
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- leaves
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast("order.cancelled", map[string]string{"order_id": "test-456"})

	select {
	case msg := <-stays.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if received.Type != "order.cancelled" {
			t.Errorf("expected type 'order.cancelled', got '%s'", received.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("remaining client did not receive message")
	}

	select {
	case msg, ok := <-leaves.send:
		if ok {
			t.Fatalf("unregistered client received message: %s", msg)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastWithNoClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Must not block or panic
	hub.Broadcast("order.created", map[string]string{"order_id": "test-789"})
	time.Sleep(10 * time.Millisecond)
}
