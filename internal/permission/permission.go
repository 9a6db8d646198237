package permission

import (
	"context"

	"threadline/internal/domain/chat"
	"threadline/internal/domain/thread"

	"github.com/google/uuid"
)

// Actor is the caller of an operation. IsModerator is an external platform
// role resolved fresh per request; it is never cached across calls.
type Actor struct {
	ID          uuid.UUID
	IsModerator bool
}

// SocialGraph is the identity/social-graph collaborator. Every decision
// function treats a graph failure as deny: an upstream outage must never
// widen access.
type SocialGraph interface {
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	IsVerified(ctx context.Context, userID uuid.UUID) (bool, error)
	IsModerator(ctx context.Context, userID uuid.UUID) (bool, error)
}

// CanReply decides whether actor may reply to t under its who-can-reply
// policy. The author may always reply to their own thread. Unknown policies
// deny.
func CanReply(ctx context.Context, t *thread.Thread, actor Actor, graph SocialGraph) bool {
	if actor.ID == t.AuthorID {
		return true
	}
	switch t.WhoCanReply {
	case thread.ReplyPolicyEveryone:
		return true
	case thread.ReplyPolicyFollowing:
		if graph == nil {
			return false
		}
		follows, err := graph.IsFollowing(ctx, actor.ID, t.AuthorID)
		if err != nil {
			return false
		}
		return follows
	case thread.ReplyPolicyVerified:
		if graph == nil {
			return false
		}
		verified, err := graph.IsVerified(ctx, actor.ID)
		if err != nil {
			return false
		}
		return verified
	}
	return false
}

// CanModifyThread covers delete and moderation. Content edits and pinning are
// stricter (author only) and checked by the thread manager directly.
func CanModifyThread(t *thread.Thread, actor Actor) bool {
	return actor.ID == t.AuthorID || actor.IsModerator
}

// CanModifyMessage is sender-only; there is no moderator override for chat
// messages.
func CanModifyMessage(m *chat.Message, actor Actor) bool {
	return actor.ID == m.SenderID
}

// CanManageParticipant decides membership changes. actor is the caller's
// current participant row, nil when the caller is not in the chat. removing
// distinguishes removals from adds so that creator protection only guards
// removals.
func CanManageParticipant(c *chat.Chat, actor *chat.Participant, targetUserID uuid.UUID, removing bool) bool {
	if actor == nil {
		return false
	}
	self := actor.UserID == targetUserID
	if self {
		// Any participant may leave; re-adding oneself is a no-op upstream.
		return true
	}
	if removing && targetUserID == c.CreatorID {
		return false
	}
	if !c.IsGroup {
		// Direct chats have fixed membership after creation.
		return false
	}
	return actor.IsAdmin
}
