package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Chat message lifecycle events fanned out to connected participants.
const (
	TypeMessageSent    = "message.sent"
	TypeMessageEdited  = "message.edited"
	TypeMessageUnsent  = "message.unsent"
	TypeMessageDeleted = "message.deleted"
)

type MessageEvent struct {
	Type      string    `json:"type"`
	ChatID    uuid.UUID `json:"chat_id"`
	MessageID uuid.UUID `json:"message_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Handler func(ctx context.Context, event MessageEvent)

// Bus carries message events between the chat manager and the websocket hub.
// Delivery is best effort; persistence already happened by publish time.
type Bus interface {
	Publish(ctx context.Context, event MessageEvent) error
	Subscribe(ctx context.Context, handler Handler) error
}
