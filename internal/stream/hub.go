package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans live runner telemetry out to dashboard websocket clients,
// keyed by session id. When Redis is configured it also relays frames
// published by out-of-process writers (the runner simulator).
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	SessionID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(sessionID string) *Client {
	client := &Client{
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessionClients, ok := h.clients[client.SessionID]; ok {
		delete(sessionClients, client)
		if len(sessionClients) == 0 {
			delete(h.clients, client.SessionID)
		}
	}
	close(client.Send)
}

// Broadcast delivers a frame to local clients and mirrors it to Redis so
// other dashboard instances see it too. Slow clients drop frames rather
// than block the sender.
func (h *Hub) Broadcast(sessionID string, payload []byte) {
	h.deliver(sessionID, payload)

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), TelemetryChannel(sessionID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

// deliver holds the read lock across the sends so Unregister cannot close a
// Send channel mid-loop. Sends are non-blocking, so the lock stays brief.
func (h *Hub) deliver(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "runners:*:telemetry")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		if sessionID := sessionIDFromChannel(msg.Channel); sessionID != "" {
			h.deliver(sessionID, []byte(msg.Payload))
		}
	}
}

// TelemetryChannel names the Redis channel carrying one session's live frames.
func TelemetryChannel(sessionID string) string {
	return "runners:" + sessionID + ":telemetry"
}

func sessionIDFromChannel(ch string) string {
	// runners:{session}:telemetry
	const prefix = "runners:"
	const suffix = ":telemetry"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
