package chat

import (
	"time"

	"github.com/google/uuid"
)

// Chat represents the chats table. The creator's membership carries permanent
// protection: no other actor may remove them.
type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:chat_id"`
	Name      string    `gorm:"type:varchar(100)"`
	IsGroup   bool      `gorm:"default:false;not null"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Participant represents the participants table; (chat_id, user_id) is the
// uniqueness guard for idempotent adds.
type Participant struct {
	ChatID   uuid.UUID `gorm:"type:uuid;primaryKey;column:chat_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
	IsAdmin  bool      `gorm:"default:false;not null"`
}

// Message represents the messages table. The three deletion flags are
// independent; the mutating operations keep at most one meaningfully true,
// with DeletedForSender -> DeletedForAll as the only permitted escalation.
type Message struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;column:message_id"`
	ChatID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	SenderID         uuid.UUID  `gorm:"type:uuid;not null"`
	Content          string     `gorm:"type:text"`
	ReplyToMessageID *uuid.UUID `gorm:"type:uuid"`
	SentAt           time.Time  `gorm:"autoCreateTime;column:sent_at"`
	EditedAt         *time.Time `gorm:"column:edited_at"`
	Unsent           bool       `gorm:"default:false;not null"`
	UnsentAt         *time.Time `gorm:"column:unsent_at"`
	DeletedForSender bool       `gorm:"default:false;not null"`
	DeletedForAll    bool       `gorm:"default:false;not null"`
}

// DeletedChat marks a chat as deleted for a single user. It is a view filter:
// the chat and its messages are untouched for everyone else.
type DeletedChat struct {
	ChatID    uuid.UUID `gorm:"type:uuid;primaryKey;column:chat_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	DeletedAt time.Time `gorm:"column:deleted_at"`
}

// ReadReceipt represents the read_receipts table backing idempotent
// mark-as-read.
type ReadReceipt struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey;column:message_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	ReadAt    time.Time `gorm:"column:read_at"`
}

func (Chat) TableName() string {
	return "chats"
}

func (Participant) TableName() string {
	return "participants"
}

func (Message) TableName() string {
	return "messages"
}

func (DeletedChat) TableName() string {
	return "deleted_chats"
}

func (ReadReceipt) TableName() string {
	return "read_receipts"
}

// Terminal reports whether the message can no longer be edited or unsent.
func (m *Message) Terminal() bool {
	return m.Unsent || m.DeletedForAll
}
