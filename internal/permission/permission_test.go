package permission

import (
	"context"
	"errors"
	"testing"

	"threadline/internal/domain/chat"
	"threadline/internal/domain/thread"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubGraph struct {
	following bool
	verified  bool
	err       error
}

func (g *stubGraph) IsFollowing(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return g.following, g.err
}

func (g *stubGraph) IsVerified(context.Context, uuid.UUID) (bool, error) {
	return g.verified, g.err
}

func (g *stubGraph) IsModerator(context.Context, uuid.UUID) (bool, error) {
	return false, g.err
}

func TestCanReply(t *testing.T) {
	author := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		policy string
		actor  uuid.UUID
		graph  *stubGraph
		want   bool
	}{
		{"everyone allows stranger", thread.ReplyPolicyEveryone, other, &stubGraph{}, true},
		{"author always allowed", thread.ReplyPolicyFollowing, author, &stubGraph{}, true},
		{"following requires follow edge", thread.ReplyPolicyFollowing, other, &stubGraph{following: false}, false},
		{"following allows follower", thread.ReplyPolicyFollowing, other, &stubGraph{following: true}, true},
		{"verified requires badge", thread.ReplyPolicyVerified, other, &stubGraph{verified: false}, false},
		{"verified allows verified actor", thread.ReplyPolicyVerified, other, &stubGraph{verified: true}, true},
		{"graph outage denies following", thread.ReplyPolicyFollowing, other, &stubGraph{following: true, err: errors.New("down")}, false},
		{"graph outage denies verified", thread.ReplyPolicyVerified, other, &stubGraph{verified: true, err: errors.New("down")}, false},
		{"unknown policy denies", "FRIENDS", other, &stubGraph{following: true, verified: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &thread.Thread{ID: uuid.New(), AuthorID: author, WhoCanReply: tt.policy}
			got := CanReply(context.Background(), tr, Actor{ID: tt.actor}, tt.graph)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanReplyNilGraphDenies(t *testing.T) {
	tr := &thread.Thread{ID: uuid.New(), AuthorID: uuid.New(), WhoCanReply: thread.ReplyPolicyFollowing}
	assert.False(t, CanReply(context.Background(), tr, Actor{ID: uuid.New()}, nil))
}

func TestCanModifyThread(t *testing.T) {
	author := uuid.New()
	tr := &thread.Thread{ID: uuid.New(), AuthorID: author}

	assert.True(t, CanModifyThread(tr, Actor{ID: author}))
	assert.False(t, CanModifyThread(tr, Actor{ID: uuid.New()}))
	assert.True(t, CanModifyThread(tr, Actor{ID: uuid.New(), IsModerator: true}))
}

func TestCanModifyMessageSenderOnly(t *testing.T) {
	sender := uuid.New()
	m := &chat.Message{ID: uuid.New(), SenderID: sender}

	assert.True(t, CanModifyMessage(m, Actor{ID: sender}))
	assert.False(t, CanModifyMessage(m, Actor{ID: uuid.New()}))
	// No moderator override for chat messages.
	assert.False(t, CanModifyMessage(m, Actor{ID: uuid.New(), IsModerator: true}))
}

func TestCanManageParticipant(t *testing.T) {
	creator := uuid.New()
	admin := uuid.New()
	member := uuid.New()
	target := uuid.New()

	group := &chat.Chat{ID: uuid.New(), IsGroup: true, CreatorID: creator}
	direct := &chat.Chat{ID: uuid.New(), IsGroup: false, CreatorID: creator}

	adminRow := &chat.Participant{ChatID: group.ID, UserID: admin, IsAdmin: true}
	memberRow := &chat.Participant{ChatID: group.ID, UserID: member}
	creatorRow := &chat.Participant{ChatID: group.ID, UserID: creator, IsAdmin: true}

	tests := []struct {
		name     string
		c        *chat.Chat
		actor    *chat.Participant
		target   uuid.UUID
		removing bool
		want     bool
	}{
		{"non-participant denied", group, nil, target, false, false},
		{"self removal allowed", group, memberRow, member, true, true},
		{"admin adds others", group, adminRow, target, false, true},
		{"admin removes others", group, adminRow, target, true, true},
		{"plain member cannot add", group, memberRow, target, false, false},
		{"plain member cannot remove", group, memberRow, target, true, false},
		{"admin cannot remove creator", group, adminRow, creator, true, false},
		{"creator removes self", group, creatorRow, creator, true, true},
		{"direct chat membership fixed", direct, &chat.Participant{ChatID: direct.ID, UserID: member}, target, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanManageParticipant(tt.c, tt.actor, tt.target, tt.removing)
			assert.Equal(t, tt.want, got)
		})
	}
}
