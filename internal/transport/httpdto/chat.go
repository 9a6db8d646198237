package httpdto

import "time"

type CreateChatRequest struct {
	Name           string   `json:"name"`
	IsGroup        bool     `json:"is_group"`
	ParticipantIDs []string `json:"participant_ids" binding:"required"`
}

type ParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type SendMessageRequest struct {
	Content          string  `json:"content" binding:"required"`
	ReplyToMessageID *string `json:"reply_to_message_id"`
}

type ChatResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	IsGroup   bool      `json:"is_group"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ParticipantResponse struct {
	ChatID   string    `json:"chat_id"`
	UserID   string    `json:"user_id"`
	IsAdmin  bool      `json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`
}

type MessageResponse struct {
	ID               string     `json:"id"`
	ChatID           string     `json:"chat_id"`
	SenderID         string     `json:"sender_id"`
	Content          string     `json:"content"`
	ReplyToMessageID *string    `json:"reply_to_message_id,omitempty"`
	SentAt           time.Time  `json:"sent_at"`
	EditedAt         *time.Time `json:"edited_at,omitempty"`
	Unsent           bool       `json:"unsent"`
}
