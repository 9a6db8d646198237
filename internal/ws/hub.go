package ws

import (
	"context"
	"encoding/json"
	"sync"

	"threadline/internal/domain/chat"
	"threadline/internal/events"
	"threadline/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParticipantLister resolves a chat to its current members; satisfied by the
// participant repository.
type ParticipantLister interface {
	List(ctx context.Context, chatID uuid.UUID) ([]chat.Participant, error)
}

// hubCommand is a register or unregister for one client. Both flow through a
// single channel so the unregister of a short-lived connection can never be
// processed ahead of its own register.
type hubCommand struct {
	client   *Client
	register bool
}

// Hub tracks connected clients by user and pushes message events to every
// connection belonging to a participant of the event's chat.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}

	commands chan hubCommand

	participants ParticipantLister
	log          *logger.Logger
}

func NewHub(participants ParticipantLister, log *logger.Logger) *Hub {
	return &Hub{
		clients:      make(map[uuid.UUID]map[*Client]struct{}),
		commands:     make(chan hubCommand, 512),
		participants: participants,
		log:          log,
	}
}

// Run owns the client maps until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-h.commands:
			if cmd.register {
				h.addClient(cmd.client)
			} else {
				h.removeClient(cmd.client)
			}
		}
	}
}

func (h *Hub) Register(client *Client)   { h.commands <- hubCommand{client: client, register: true} }
func (h *Hub) Unregister(client *Client) { h.commands <- hubCommand{client: client} }

// HandleEvent is the bus subscriber. Fan-out failures only cost delivery;
// the message itself is already persisted.
func (h *Hub) HandleEvent(ctx context.Context, event events.MessageEvent) {
	members, err := h.participants.List(ctx, event.ChatID)
	if err != nil {
		h.log.With(ctx).Warn("event fan-out skipped",
			zap.String("chat_id", event.ChatID.String()),
			zap.Error(err))
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.log.With(ctx).Error("event marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, member := range members {
		for client := range h.clients[member.UserID] {
			client.Deliver(payload)
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]struct{})
	}
	h.clients[client.UserID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.send)
}
