package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"ai-notes-bot/internal/channel"
	"ai-notes-bot/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ConversationPrefix = "web:"
	clusterChannel     = "chat_replies"
)

var ErrNoClient = errors.New("websocket: no connected client for conversation")

// OutboundMessage is the JSON frame written to the browser.
type OutboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// clusterEnvelope carries a reply to the instance holding the user's socket.
type clusterEnvelope struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance delivery, may be nil
	rdb      *redis.Client
	instance string

	dispatcher *channel.Dispatcher
	logger     logger.ILogger
}

func NewHub(rdb *redis.Client, dispatcher *channel.Dispatcher, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instance:   uuid.NewString(),
		dispatcher: dispatcher,
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

// Send implements channel.Sender for "web:<user id>" conversations. Every device
// of the user gets the reply, on this instance and through Redis on the others.
func (h *Hub) Send(ctx context.Context, conversationID, text string) error {
	userID, ok := strings.CutPrefix(conversationID, ConversationPrefix)
	if !ok {
		return errors.New("websocket: not a web conversation: " + conversationID)
	}

	data, err := json.Marshal(OutboundMessage{Type: "reply", Text: text})
	if err != nil {
		return err
	}

	delivered := h.deliver(userID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEnvelope{Origin: h.instance, TargetUserID: userID, Message: data})
		if err := h.rdb.Publish(ctx, clusterChannel, envelope).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish reply to cluster", map[string]interface{}{"error": err.Error()})
		} else {
			delivered = true
		}
	}

	if !delivered {
		return ErrNoClient
	}
	return nil
}

func (h *Hub) deliver(userID string, data []byte) bool {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	delivered := false
	for _, client := range clients {
		select {
		case client.Send <- data:
			delivered = true
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
	return delivered
}

// receive hands a frame read from a socket to the dialogue.
func (h *Hub) receive(ctx context.Context, userID, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	h.dispatcher.Go(ctx, h, channel.InboundMessage{ConversationID: ConversationPrefix + userID, Text: text})
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var envelope clusterEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if envelope.Origin == h.instance {
				continue
			}
			h.deliver(envelope.TargetUserID, envelope.Message)
		}
	}
}
