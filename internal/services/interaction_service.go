package services

import (
	"context"
	"errors"

	"threadline/internal/cache"
	"threadline/internal/domain/interaction"
	"threadline/internal/repository"
	taxonomy "threadline/pkg/errors"
	"threadline/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InteractionService enforces at-most-one interaction per
// (actor, target, kind). Adds and removes are idempotent: a redundant call is
// a success that changed nothing.
type InteractionService struct {
	interactions repository.InteractionRepository
	threads      repository.ThreadRepository
	replies      repository.ReplyRepository
	counts       *cache.CountCache
	log          *logger.Logger
}

func NewInteractionService(
	interactions repository.InteractionRepository,
	threads repository.ThreadRepository,
	replies repository.ReplyRepository,
	counts *cache.CountCache,
	log *logger.Logger,
) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		threads:      threads,
		replies:      replies,
		counts:       counts,
		log:          log,
	}
}

// AddInteraction records the interaction unless it already exists.
// addedContent is quote-repost text and is only valid for reposts. The target
// must exist; a tombstoned target still accepts interactions.
func (s *InteractionService) AddInteraction(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string, addedContent *string) (*interaction.Interaction, error) {
	if !interaction.ValidKind(kind) || !interaction.ValidTarget(targetType) {
		return nil, taxonomy.ErrInvalidArgument
	}
	if addedContent != nil && kind != interaction.KindRepost {
		return nil, taxonomy.ErrInvalidArgument
	}
	if err := s.targetExists(ctx, targetType, targetID); err != nil {
		return nil, err
	}

	in := &interaction.Interaction{
		ActorID:      actorID,
		TargetType:   targetType,
		TargetID:     targetID,
		Kind:         kind,
		AddedContent: addedContent,
	}
	inserted, err := s.interactions.Upsert(ctx, in)
	if err != nil {
		return nil, err
	}
	if !inserted {
		s.log.With(ctx).Debug("interaction already present",
			zap.String("kind", kind),
			zap.String("target_id", targetID.String()))
		// Return the stored row so repeat calls carry the original timestamp
		// and repost metadata, not a freshly built zero-valued struct.
		return s.interactions.Find(ctx, actorID, targetType, targetID, kind)
	}
	s.counts.Invalidate(ctx, targetType, targetID, kind)
	return in, nil
}

// RemoveInteraction deletes the actor's own interaction row. Removing a pair
// that was never added succeeds and changes nothing.
func (s *InteractionService) RemoveInteraction(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) error {
	if !interaction.ValidKind(kind) || !interaction.ValidTarget(targetType) {
		return taxonomy.ErrInvalidArgument
	}
	removed, err := s.interactions.Delete(ctx, actorID, targetType, targetID, kind)
	if err != nil {
		return err
	}
	if removed {
		s.counts.Invalidate(ctx, targetType, targetID, kind)
	}
	return nil
}

func (s *InteractionService) HasInteraction(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (bool, error) {
	if !interaction.ValidKind(kind) || !interaction.ValidTarget(targetType) {
		return false, taxonomy.ErrInvalidArgument
	}
	return s.interactions.Exists(ctx, actorID, targetType, targetID, kind)
}

// CountInteractions counts rows, with a short-TTL cache in front. Rows remain
// authoritative: a cache failure only costs the shortcut.
func (s *InteractionService) CountInteractions(ctx context.Context, targetType string, targetID uuid.UUID, kind string) (int64, error) {
	if !interaction.ValidKind(kind) || !interaction.ValidTarget(targetType) {
		return 0, taxonomy.ErrInvalidArgument
	}
	if count, ok := s.counts.Get(ctx, targetType, targetID, kind); ok {
		return count, nil
	}
	count, err := s.interactions.Count(ctx, targetType, targetID, kind)
	if err != nil {
		return 0, err
	}
	s.counts.Set(ctx, targetType, targetID, kind, count)
	return count, nil
}

// ListActorTargets pages through the target IDs an actor has interacted with,
// newest first. Backs the liked/bookmarked listings.
func (s *InteractionService) ListActorTargets(ctx context.Context, actorID uuid.UUID, targetType, kind string, page, limit int) ([]uuid.UUID, error) {
	if !interaction.ValidKind(kind) || !interaction.ValidTarget(targetType) {
		return nil, taxonomy.ErrInvalidArgument
	}
	return s.interactions.ListTargetIDsByActor(ctx, actorID, targetType, kind, page, limit)
}

// targetExists resolves the target row. Hard-deleted and never-existing
// targets are NotFound; a tombstone still counts as existing.
func (s *InteractionService) targetExists(ctx context.Context, targetType string, targetID uuid.UUID) error {
	var err error
	switch targetType {
	case interaction.TargetThread:
		_, err = s.threads.FindByID(ctx, targetID)
	case interaction.TargetReply:
		_, err = s.replies.FindByID(ctx, targetID)
	default:
		return taxonomy.ErrInvalidArgument
	}
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			return taxonomy.ErrNotFound
		}
		return err
	}
	return nil
}
