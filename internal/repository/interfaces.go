package repository

import (
	"context"

	"threadline/internal/domain/chat"
	"threadline/internal/domain/interaction"
	"threadline/internal/domain/thread"

	"github.com/google/uuid"
)

// Entity Store contracts. One authoritative interface per entity type; every
// conditional write (interaction add, participant add, read receipt) is a
// single upsert against a uniqueness key, never a check-then-act sequence.

type ThreadRepository interface {
	Create(ctx context.Context, t *thread.Thread) error
	// FindByID returns tombstoned rows too; callers decide how to render them.
	FindByID(ctx context.Context, id uuid.UUID) (*thread.Thread, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]thread.Thread, int64, error)
	Update(ctx context.Context, t *thread.Thread) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// HardDelete removes the row and tags the thread's replies orphaned in
	// the same transaction; a failure leaves both untouched.
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type ReplyRepository interface {
	Create(ctx context.Context, r *thread.Reply) error
	FindByID(ctx context.Context, id uuid.UUID) (*thread.Reply, error)
	ListByThread(ctx context.Context, threadID uuid.UUID, page, limit int) ([]thread.Reply, int64, error)
	Update(ctx context.Context, r *thread.Reply) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	// PinExclusive pins the reply and unpins any previously pinned sibling in
	// the same statement batch, keeping the single-slot invariant atomic.
	PinExclusive(ctx context.Context, threadID, replyID uuid.UUID) error
	Unpin(ctx context.Context, replyID uuid.UUID) error
}

type InteractionRepository interface {
	// Upsert inserts the interaction unless the (actor, target, kind) row
	// already exists; inserted reports which happened.
	Upsert(ctx context.Context, in *interaction.Interaction) (inserted bool, err error)
	// Delete removes the row when present; removed reports whether it existed.
	Delete(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (removed bool, err error)
	Find(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (*interaction.Interaction, error)
	Exists(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (bool, error)
	Count(ctx context.Context, targetType string, targetID uuid.UUID, kind string) (int64, error)
	ListTargetIDsByActor(ctx context.Context, actorID uuid.UUID, targetType, kind string, page, limit int) ([]uuid.UUID, error)
}

type ChatRepository interface {
	// CreateWithParticipants inserts the chat row and its initial membership
	// in one transaction, so a failed member insert leaves no half-built chat.
	CreateWithParticipants(ctx context.Context, c *chat.Chat, members []chat.Participant) error
	FindByID(ctx context.Context, id uuid.UUID) (*chat.Chat, error)
	// ListForUser excludes chats the user has marked deleted for themself.
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]chat.Chat, int64, error)
	MarkDeletedForUser(ctx context.Context, chatID, userID uuid.UUID) error
}

type ParticipantRepository interface {
	Add(ctx context.Context, p *chat.Participant) (inserted bool, err error)
	Remove(ctx context.Context, chatID, userID uuid.UUID) (removed bool, err error)
	Find(ctx context.Context, chatID, userID uuid.UUID) (*chat.Participant, error)
	List(ctx context.Context, chatID uuid.UUID) ([]chat.Participant, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *chat.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*chat.Message, error)
	// ListByChat filters out globally deleted rows for everyone and
	// sender-hidden rows for the sender's own view.
	ListByChat(ctx context.Context, chatID, viewerID uuid.UUID, page, limit int) ([]chat.Message, int64, error)
	Update(ctx context.Context, m *chat.Message) error
	MarkRead(ctx context.Context, messageID, userID uuid.UUID) (inserted bool, err error)
}

type SocialGraphRepository interface {
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	IsVerified(ctx context.Context, userID uuid.UUID) (bool, error)
	IsModerator(ctx context.Context, userID uuid.UUID) (bool, error)
}
