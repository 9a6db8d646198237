package services

import (
	"context"
	"time"

	"threadline/internal/domain/thread"
	"threadline/internal/permission"
	"threadline/internal/repository"
	taxonomy "threadline/pkg/errors"
	"threadline/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ThreadService owns the thread and reply lifecycle: Active -> Edited ->
// SoftDeleted (tombstone) or HardDeleted. Every mutation consults the
// permission engine first and re-reads entity state fresh per call.
type ThreadService struct {
	threads repository.ThreadRepository
	replies repository.ReplyRepository
	graph   permission.SocialGraph
	log     *logger.Logger
}

func NewThreadService(
	threads repository.ThreadRepository,
	replies repository.ReplyRepository,
	graph permission.SocialGraph,
	log *logger.Logger,
) *ThreadService {
	return &ThreadService{threads: threads, replies: replies, graph: graph, log: log}
}

type CreateThreadInput struct {
	AuthorID        uuid.UUID
	Content         string
	WhoCanReply     string
	CommunityID     *uuid.UUID
	ScheduledAt     *time.Time
	IsAdvertisement bool
}

func (s *ThreadService) CreateThread(ctx context.Context, in CreateThreadInput) (*thread.Thread, error) {
	if in.WhoCanReply == "" {
		in.WhoCanReply = thread.ReplyPolicyEveryone
	}
	if !thread.ValidReplyPolicy(in.WhoCanReply) {
		return nil, taxonomy.ErrInvalidArgument
	}

	t := &thread.Thread{
		ID:              uuid.New(),
		AuthorID:        in.AuthorID,
		Content:         in.Content,
		WhoCanReply:     in.WhoCanReply,
		CommunityID:     in.CommunityID,
		ScheduledAt:     in.ScheduledAt,
		IsAdvertisement: in.IsAdvertisement,
	}
	if err := s.threads.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.With(ctx).Info("thread created", zap.String("thread_id", t.ID.String()))
	return t, nil
}

// GetThread returns tombstoned threads too; their content is already the
// deletion marker.
func (s *ThreadService) GetThread(ctx context.Context, id uuid.UUID) (*thread.Thread, error) {
	return s.threads.FindByID(ctx, id)
}

func (s *ThreadService) ListThreadsByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]thread.Thread, int64, error) {
	return s.threads.ListByAuthor(ctx, authorID, page, limit)
}

// EditThread is author-only; moderators may delete but not rewrite content.
func (s *ThreadService) EditThread(ctx context.Context, threadID uuid.UUID, actor permission.Actor, content string) (*thread.Thread, error) {
	t, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if actor.ID != t.AuthorID {
		return nil, taxonomy.ErrPermissionDenied
	}
	if t.Tombstoned() {
		return nil, taxonomy.ErrAlreadyInTerminalState
	}
	t.Content = content
	if err := s.threads.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ThreadService) PinThread(ctx context.Context, threadID uuid.UUID, actor permission.Actor) (*thread.Thread, error) {
	return s.setThreadPin(ctx, threadID, actor, true)
}

func (s *ThreadService) UnpinThread(ctx context.Context, threadID uuid.UUID, actor permission.Actor) (*thread.Thread, error) {
	return s.setThreadPin(ctx, threadID, actor, false)
}

// setThreadPin toggles the thread's own pin. Unlike reply pins there is no
// sibling slot to clear.
func (s *ThreadService) setThreadPin(ctx context.Context, threadID uuid.UUID, actor permission.Actor, pinned bool) (*thread.Thread, error) {
	t, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if actor.ID != t.AuthorID {
		return nil, taxonomy.ErrPermissionDenied
	}
	if t.Tombstoned() {
		return nil, taxonomy.ErrAlreadyInTerminalState
	}
	if t.IsPinned == pinned {
		return t, nil
	}
	t.IsPinned = pinned
	if err := s.threads.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteThread soft-deletes into a tombstone or hard-deletes the row. A hard
// delete tags the thread's replies orphaned; they stay addressable by ID but
// drop out of thread listings.
func (s *ThreadService) DeleteThread(ctx context.Context, threadID uuid.UUID, actor permission.Actor, hard bool) error {
	t, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		return err
	}
	if !permission.CanModifyThread(t, actor) {
		return taxonomy.ErrPermissionDenied
	}

	if hard {
		// One repository call: row removal and reply orphan-tagging commit
		// together or not at all.
		if err := s.threads.HardDelete(ctx, threadID); err != nil {
			return err
		}
		s.log.With(ctx).Info("thread hard-deleted", zap.String("thread_id", threadID.String()))
		return nil
	}

	if t.Tombstoned() {
		return taxonomy.ErrAlreadyInTerminalState
	}
	return s.threads.SoftDelete(ctx, threadID)
}

type CreateReplyInput struct {
	ThreadID      uuid.UUID
	ParentReplyID *uuid.UUID
	AuthorID      uuid.UUID
	Content       string
}

// CreateReply checks the thread's who-can-reply policy and rejects
// cross-thread nesting. Replying to a tombstoned thread is refused; the
// thread's conversation is closed.
func (s *ThreadService) CreateReply(ctx context.Context, in CreateReplyInput, actor permission.Actor) (*thread.Reply, error) {
	t, err := s.threads.FindByID(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}
	if t.Tombstoned() {
		return nil, taxonomy.ErrAlreadyInTerminalState
	}
	if !permission.CanReply(ctx, t, actor, s.graph) {
		return nil, taxonomy.ErrPermissionDenied
	}

	if in.ParentReplyID != nil {
		parent, err := s.replies.FindByID(ctx, *in.ParentReplyID)
		if err != nil {
			return nil, err
		}
		if parent.ThreadID != in.ThreadID {
			return nil, taxonomy.ErrInvalidArgument
		}
	}

	r := &thread.Reply{
		ID:            uuid.New(),
		ThreadID:      in.ThreadID,
		ParentReplyID: in.ParentReplyID,
		AuthorID:      in.AuthorID,
		Content:       in.Content,
	}
	if err := s.replies.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ThreadService) GetReply(ctx context.Context, id uuid.UUID) (*thread.Reply, error) {
	return s.replies.FindByID(ctx, id)
}

func (s *ThreadService) ListReplies(ctx context.Context, threadID uuid.UUID, page, limit int) ([]thread.Reply, int64, error) {
	return s.replies.ListByThread(ctx, threadID, page, limit)
}

func (s *ThreadService) EditReply(ctx context.Context, replyID uuid.UUID, actor permission.Actor, content string) (*thread.Reply, error) {
	r, err := s.replies.FindByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if actor.ID != r.AuthorID {
		return nil, taxonomy.ErrPermissionDenied
	}
	if r.Tombstoned() {
		return nil, taxonomy.ErrAlreadyInTerminalState
	}
	r.Content = content
	if err := s.replies.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// PinReply pins the reply and clears any previously pinned sibling in one
// storage round-trip, so two concurrent pins cannot leave two slots filled.
func (s *ThreadService) PinReply(ctx context.Context, replyID uuid.UUID, actor permission.Actor) (*thread.Reply, error) {
	r, err := s.replies.FindByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if actor.ID != r.AuthorID {
		return nil, taxonomy.ErrPermissionDenied
	}
	if r.Tombstoned() {
		return nil, taxonomy.ErrAlreadyInTerminalState
	}
	if err := s.replies.PinExclusive(ctx, r.ThreadID, replyID); err != nil {
		return nil, err
	}
	r.IsPinned = true
	return r, nil
}

func (s *ThreadService) UnpinReply(ctx context.Context, replyID uuid.UUID, actor permission.Actor) (*thread.Reply, error) {
	r, err := s.replies.FindByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if actor.ID != r.AuthorID {
		return nil, taxonomy.ErrPermissionDenied
	}
	if !r.IsPinned {
		return r, nil
	}
	if err := s.replies.Unpin(ctx, replyID); err != nil {
		return nil, err
	}
	r.IsPinned = false
	return r, nil
}

func (s *ThreadService) DeleteReply(ctx context.Context, replyID uuid.UUID, actor permission.Actor, hard bool) error {
	r, err := s.replies.FindByID(ctx, replyID)
	if err != nil {
		return err
	}
	if r.AuthorID != actor.ID && !actor.IsModerator {
		return taxonomy.ErrPermissionDenied
	}

	if hard {
		return s.replies.HardDelete(ctx, replyID)
	}
	if r.Tombstoned() {
		return taxonomy.ErrAlreadyInTerminalState
	}
	return s.replies.SoftDelete(ctx, replyID)
}
