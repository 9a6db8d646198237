package services

import (
	"context"
	"testing"

	"threadline/internal/domain/interaction"
	"threadline/internal/domain/thread"
	taxonomy "threadline/pkg/errors"
	"threadline/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInteractionFixture(t *testing.T) (*InteractionService, *store) {
	t.Helper()
	s := newStore()
	svc := NewInteractionService(
		&memInteractions{s: s},
		&memThreads{s: s},
		&memReplies{s: s},
		nil,
		logger.New(logger.DevelopmentMode),
	)
	return svc, s
}

func seedThread(s *store, authorID uuid.UUID) *thread.Thread {
	t := &thread.Thread{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Content:     "hello",
		WhoCanReply: thread.ReplyPolicyEveryone,
	}
	s.threads[t.ID] = t
	return t
}

func TestAddInteractionIsIdempotent(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	target := seedThread(s, uuid.New())

	_, err := svc.AddInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindLike, nil)
	require.NoError(t, err)
	_, err = svc.AddInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindLike, nil)
	require.NoError(t, err)

	count, err := svc.CountInteractions(ctx, interaction.TargetThread, target.ID, interaction.KindLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepeatAddReturnsStoredInteraction(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	target := seedThread(s, uuid.New())
	quote := "still agree"

	first, err := svc.AddInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindRepost, &quote)
	require.NoError(t, err)
	require.False(t, first.CreatedAt.IsZero())

	repeat, err := svc.AddInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindRepost, &quote)
	require.NoError(t, err)

	// The repeat carries the stored row, not a freshly built one.
	assert.Equal(t, first.CreatedAt, repeat.CreatedAt)
	require.NotNil(t, repeat.AddedContent)
	assert.Equal(t, quote, *repeat.AddedContent)
}

func TestRemoveInteractionNeverAddedIsNoOp(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	target := seedThread(s, uuid.New())

	err := svc.RemoveInteraction(ctx, uuid.New(), interaction.TargetThread, target.ID, interaction.KindLike)
	require.NoError(t, err)

	count, err := svc.CountInteractions(ctx, interaction.TargetThread, target.ID, interaction.KindLike)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddInteractionMissingTarget(t *testing.T) {
	svc, _ := newInteractionFixture(t)

	_, err := svc.AddInteraction(context.Background(), uuid.New(), interaction.TargetThread, uuid.New(), interaction.KindLike, nil)
	assert.ErrorIs(t, err, taxonomy.ErrNotFound)
}

func TestAddInteractionTombstonedTargetStillSucceeds(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	target := seedThread(s, uuid.New())
	require.NoError(t, (&memThreads{s: s}).SoftDelete(ctx, target.ID))

	_, err := svc.AddInteraction(ctx, uuid.New(), interaction.TargetThread, target.ID, interaction.KindLike, nil)
	require.NoError(t, err)

	count, err := svc.CountInteractions(ctx, interaction.TargetThread, target.ID, interaction.KindLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddInteractionValidation(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	target := seedThread(s, uuid.New())
	quote := "take a look at this"

	tests := []struct {
		name       string
		targetType string
		kind       string
		added      *string
	}{
		{"unknown kind", interaction.TargetThread, "WAVE", nil},
		{"unknown target type", "USER", interaction.KindLike, nil},
		{"added content on like", interaction.TargetThread, interaction.KindLike, &quote},
		{"added content on bookmark", interaction.TargetThread, interaction.KindBookmark, &quote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddInteraction(ctx, uuid.New(), tt.targetType, target.ID, tt.kind, tt.added)
			assert.ErrorIs(t, err, taxonomy.ErrInvalidArgument)
		})
	}
}

func TestQuoteRepostKeepsAddedContent(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	target := seedThread(s, uuid.New())
	quote := "worth reading"

	in, err := svc.AddInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindRepost, &quote)
	require.NoError(t, err)
	require.NotNil(t, in.AddedContent)
	assert.Equal(t, quote, *in.AddedContent)
}

func TestHasInteractionReflectsAddRemove(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	target := seedThread(s, uuid.New())

	exists, err := svc.HasInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindBookmark)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.AddInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindBookmark, nil)
	require.NoError(t, err)

	exists, err = svc.HasInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindBookmark)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.RemoveInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindBookmark))

	exists, err = svc.HasInteraction(ctx, actor, interaction.TargetThread, target.ID, interaction.KindBookmark)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCountsAreIndependentPerKind(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	target := seedThread(s, uuid.New())

	for i := 0; i < 3; i++ {
		_, err := svc.AddInteraction(ctx, uuid.New(), interaction.TargetThread, target.ID, interaction.KindLike, nil)
		require.NoError(t, err)
	}
	_, err := svc.AddInteraction(ctx, uuid.New(), interaction.TargetThread, target.ID, interaction.KindRepost, nil)
	require.NoError(t, err)

	likes, err := svc.CountInteractions(ctx, interaction.TargetThread, target.ID, interaction.KindLike)
	require.NoError(t, err)
	reposts, err2 := svc.CountInteractions(ctx, interaction.TargetThread, target.ID, interaction.KindRepost)
	require.NoError(t, err2)
	bookmarks, err3 := svc.CountInteractions(ctx, interaction.TargetThread, target.ID, interaction.KindBookmark)
	require.NoError(t, err3)

	assert.Equal(t, int64(3), likes)
	assert.Equal(t, int64(1), reposts)
	assert.Zero(t, bookmarks)
}

func TestListActorTargets(t *testing.T) {
	svc, s := newInteractionFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	first := seedThread(s, uuid.New())
	second := seedThread(s, uuid.New())

	_, err := svc.AddInteraction(ctx, actor, interaction.TargetThread, first.ID, interaction.KindBookmark, nil)
	require.NoError(t, err)
	_, err = svc.AddInteraction(ctx, actor, interaction.TargetThread, second.ID, interaction.KindBookmark, nil)
	require.NoError(t, err)

	ids, err := svc.ListActorTargets(ctx, actor, interaction.TargetThread, interaction.KindBookmark, 1, 20)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)
}
