package services

import (
	"context"
	"errors"
	"time"

	"threadline/internal/domain/chat"
	"threadline/internal/events"
	"threadline/internal/permission"
	"threadline/internal/repository"
	taxonomy "threadline/pkg/errors"
	"threadline/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService manages chats, membership, and the message lifecycle:
// Sent -> Edited -> {Unsent | DeletedForSender | DeletedForAll}, where the
// only permitted escalation is DeletedForSender -> DeletedForAll.
type ChatService struct {
	chats        repository.ChatRepository
	participants repository.ParticipantRepository
	messages     repository.MessageRepository
	bus          events.Bus
	log          *logger.Logger
}

func NewChatService(
	chats repository.ChatRepository,
	participants repository.ParticipantRepository,
	messages repository.MessageRepository,
	bus events.Bus,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		chats:        chats,
		participants: participants,
		messages:     messages,
		bus:          bus,
		log:          log,
	}
}

// CreateChat adds the creator as a participant whether or not they appear in
// participantIDs, deduplicates the rest, and requires exactly two distinct
// members for a direct chat. On group chats the creator joins as admin.
func (s *ChatService) CreateChat(ctx context.Context, creatorID uuid.UUID, participantIDs []uuid.UUID, isGroup bool, name string) (*chat.Chat, error) {
	members := dedupeWithCreator(creatorID, participantIDs)
	if !isGroup && len(members) != 2 {
		return nil, taxonomy.ErrInvalidArgument
	}

	c := &chat.Chat{
		ID:        uuid.New(),
		Name:      name,
		IsGroup:   isGroup,
		CreatorID: creatorID,
	}
	rows := make([]chat.Participant, 0, len(members))
	for _, userID := range members {
		rows = append(rows, chat.Participant{
			ChatID:  c.ID,
			UserID:  userID,
			IsAdmin: isGroup && userID == creatorID,
		})
	}
	if err := s.chats.CreateWithParticipants(ctx, c, rows); err != nil {
		return nil, err
	}

	s.log.With(ctx).Info("chat created",
		zap.String("chat_id", c.ID.String()),
		zap.Bool("is_group", isGroup),
		zap.Int("members", len(members)))
	return c, nil
}

func (s *ChatService) GetChat(ctx context.Context, chatID uuid.UUID) (*chat.Chat, error) {
	return s.chats.FindByID(ctx, chatID)
}

// ListChats returns the caller's chats, omitting the ones they have deleted
// for themself.
func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID, page, limit int) ([]chat.Chat, int64, error) {
	return s.chats.ListForUser(ctx, userID, page, limit)
}

func (s *ChatService) ListParticipants(ctx context.Context, chatID, actorID uuid.UUID) ([]chat.Participant, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return nil, err
	}
	if _, err := s.memberOf(ctx, chatID, actorID); err != nil {
		return nil, err
	}
	return s.participants.List(ctx, chatID)
}

// AddParticipant is idempotent: adding a user who is already in the chat is a
// success that changed nothing.
func (s *ChatService) AddParticipant(ctx context.Context, chatID, userID, actorID uuid.UUID) error {
	c, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	actor, err := s.findParticipant(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !permission.CanManageParticipant(c, actor, userID, false) {
		return taxonomy.ErrPermissionDenied
	}

	inserted, err := s.participants.Add(ctx, &chat.Participant{ChatID: chatID, UserID: userID})
	if err != nil {
		return err
	}
	if !inserted {
		s.log.With(ctx).Debug("participant already present",
			zap.String("chat_id", chatID.String()),
			zap.String("user_id", userID.String()))
	}
	return nil
}

// RemoveParticipant enforces creator protection: only the creator themself
// may remove the creator. Removing a non-member is a no-op success.
func (s *ChatService) RemoveParticipant(ctx context.Context, chatID, userID, actorID uuid.UUID) error {
	c, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	actor, err := s.findParticipant(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !permission.CanManageParticipant(c, actor, userID, true) {
		return taxonomy.ErrPermissionDenied
	}

	_, err = s.participants.Remove(ctx, chatID, userID)
	return err
}

// SendMessage requires live membership, checked at send time. replyTo, when
// set, must reference a message in the same chat.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, content string, replyTo *uuid.UUID) (*chat.Message, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return nil, err
	}
	if _, err := s.memberOf(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	if replyTo != nil {
		target, err := s.messages.FindByID(ctx, *replyTo)
		if err != nil {
			return nil, err
		}
		if target.ChatID != chatID {
			return nil, taxonomy.ErrInvalidArgument
		}
	}

	m := &chat.Message{
		ID:               uuid.New(),
		ChatID:           chatID,
		SenderID:         senderID,
		Content:          content,
		ReplyToMessageID: replyTo,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeMessageSent, m, m.Content)
	return m, nil
}

// EditMessage is sender-only and only valid while the message is still in the
// Sent/Edited states.
func (s *ChatService) EditMessage(ctx context.Context, messageID, actorID uuid.UUID, content string) (*chat.Message, error) {
	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModifyMessage(m, permission.Actor{ID: actorID}) {
		return nil, taxonomy.ErrPermissionDenied
	}
	if m.Terminal() || m.DeletedForSender {
		return nil, taxonomy.ErrAlreadyInTerminalState
	}

	now := time.Now()
	m.Content = content
	m.EditedAt = &now
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeMessageEdited, m, m.Content)
	return m, nil
}

// UnsendMessage withdraws the message from every view; the row stays so the
// chat timeline keeps its slot. Only reachable from Sent/Edited.
func (s *ChatService) UnsendMessage(ctx context.Context, messageID, actorID uuid.UUID) (*chat.Message, error) {
	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModifyMessage(m, permission.Actor{ID: actorID}) {
		return nil, taxonomy.ErrPermissionDenied
	}
	if m.Terminal() || m.DeletedForSender {
		return nil, taxonomy.ErrAlreadyInTerminalState
	}

	now := time.Now()
	m.Unsent = true
	m.UnsentAt = &now
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeMessageUnsent, m, "")
	return m, nil
}

// DeleteMessage with hard=false hides the message from the sender's own view;
// hard=true removes it from every view. DeletedForSender may still escalate
// to DeletedForAll; any other repeat transition is AlreadyInTerminalState.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, actorID uuid.UUID, hard bool) error {
	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if !permission.CanModifyMessage(m, permission.Actor{ID: actorID}) {
		return taxonomy.ErrPermissionDenied
	}
	if m.Terminal() {
		return taxonomy.ErrAlreadyInTerminalState
	}

	if hard {
		m.DeletedForAll = true
	} else {
		if m.DeletedForSender {
			return taxonomy.ErrAlreadyInTerminalState
		}
		m.DeletedForSender = true
	}
	if err := s.messages.Update(ctx, m); err != nil {
		return err
	}
	if hard {
		s.publish(ctx, events.TypeMessageDeleted, m, "")
	}
	return nil
}

// MarkMessageRead records a read receipt; repeat reads by the same user are
// no-op successes.
func (s *ChatService) MarkMessageRead(ctx context.Context, messageID, userID uuid.UUID) error {
	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := s.memberOf(ctx, m.ChatID, userID); err != nil {
		return err
	}
	_, err = s.messages.MarkRead(ctx, messageID, userID)
	return err
}

// DeleteChatForUser writes the caller's view-filter marker. The chat, its
// messages, and every other participant's view are untouched.
func (s *ChatService) DeleteChatForUser(ctx context.Context, chatID, userID uuid.UUID) error {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return err
	}
	if _, err := s.participants.Find(ctx, chatID, userID); err != nil {
		return err
	}
	return s.chats.MarkDeletedForUser(ctx, chatID, userID)
}

// ListMessages pages the viewer's visible messages. Unsent rows keep their
// slot but their content is blanked for everyone.
func (s *ChatService) ListMessages(ctx context.Context, chatID, viewerID uuid.UUID, page, limit int) ([]chat.Message, int64, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return nil, 0, err
	}
	if _, err := s.memberOf(ctx, chatID, viewerID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.messages.ListByChat(ctx, chatID, viewerID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range messages {
		if messages[i].Unsent {
			messages[i].Content = ""
		}
	}
	return messages, total, nil
}

// memberOf resolves the user's participant row, mapping absence to
// PermissionDenied: non-members cannot act inside the chat.
func (s *ChatService) memberOf(ctx context.Context, chatID, userID uuid.UUID) (*chat.Participant, error) {
	p, err := s.participants.Find(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			return nil, taxonomy.ErrPermissionDenied
		}
		return nil, err
	}
	return p, nil
}

// findParticipant returns nil (not an error) when the actor is not in the
// chat, so the permission engine can make the deny decision itself.
func (s *ChatService) findParticipant(ctx context.Context, chatID, userID uuid.UUID) (*chat.Participant, error) {
	p, err := s.participants.Find(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// publish is best effort; the mutation is already durable when we get here.
func (s *ChatService) publish(ctx context.Context, eventType string, m *chat.Message, content string) {
	if s.bus == nil {
		return
	}
	err := s.bus.Publish(ctx, events.MessageEvent{
		Type:      eventType,
		ChatID:    m.ChatID,
		MessageID: m.ID,
		SenderID:  m.SenderID,
		Content:   content,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.log.With(ctx).Warn("message event publish failed",
			zap.String("type", eventType),
			zap.Error(err))
	}
}

func dedupeWithCreator(creatorID uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{creatorID: {}}
	members := []uuid.UUID{creatorID}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	return members
}
