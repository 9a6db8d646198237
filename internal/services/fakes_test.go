package services

import (
	"context"
	"sort"
	"time"

	"threadline/internal/domain/chat"
	"threadline/internal/domain/interaction"
	"threadline/internal/domain/thread"
	"threadline/internal/events"
	taxonomy "threadline/pkg/errors"

	"github.com/google/uuid"
)

// In-memory entity store used across the service tests. Each fake mirrors the
// contract of its Postgres counterpart, including the conditional-upsert
// semantics the services depend on.

type store struct {
	threads      map[uuid.UUID]*thread.Thread
	replies      map[uuid.UUID]*thread.Reply
	interactions map[string]*interaction.Interaction
	chats        map[uuid.UUID]*chat.Chat
	participants map[string]*chat.Participant
	messages     map[uuid.UUID]*chat.Message
	deletedChats map[string]time.Time
	receipts     map[string]time.Time
}

func newStore() *store {
	return &store{
		threads:      make(map[uuid.UUID]*thread.Thread),
		replies:      make(map[uuid.UUID]*thread.Reply),
		interactions: make(map[string]*interaction.Interaction),
		chats:        make(map[uuid.UUID]*chat.Chat),
		participants: make(map[string]*chat.Participant),
		messages:     make(map[uuid.UUID]*chat.Message),
		deletedChats: make(map[string]time.Time),
		receipts:     make(map[string]time.Time),
	}
}

func pairKey(a, b uuid.UUID) string {
	return a.String() + "|" + b.String()
}

func interactionKey(actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) string {
	return actorID.String() + "|" + targetType + "|" + targetID.String() + "|" + kind
}

type memThreads struct{ s *store }

func (m *memThreads) Create(_ context.Context, t *thread.Thread) error {
	cp := *t
	m.s.threads[t.ID] = &cp
	return nil
}

func (m *memThreads) FindByID(_ context.Context, id uuid.UUID) (*thread.Thread, error) {
	t, ok := m.s.threads[id]
	if !ok {
		return nil, taxonomy.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memThreads) ListByAuthor(_ context.Context, authorID uuid.UUID, page, limit int) ([]thread.Thread, int64, error) {
	var out []thread.Thread
	for _, t := range m.s.threads {
		if t.AuthorID == authorID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memThreads) Update(_ context.Context, t *thread.Thread) error {
	if _, ok := m.s.threads[t.ID]; !ok {
		return taxonomy.ErrNotFound
	}
	cp := *t
	cp.UpdatedAt = time.Now()
	m.s.threads[t.ID] = &cp
	return nil
}

func (m *memThreads) SoftDelete(_ context.Context, id uuid.UUID) error {
	t, ok := m.s.threads[id]
	if !ok || t.DeletedAt != nil {
		return taxonomy.ErrNotFound
	}
	now := time.Now()
	t.DeletedAt = &now
	t.Content = thread.TombstoneContent
	return nil
}

func (m *memThreads) HardDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.s.threads[id]; !ok {
		return taxonomy.ErrNotFound
	}
	delete(m.s.threads, id)
	for _, r := range m.s.replies {
		if r.ThreadID == id {
			r.Orphaned = true
		}
	}
	return nil
}

type memReplies struct{ s *store }

func (m *memReplies) Create(_ context.Context, r *thread.Reply) error {
	cp := *r
	m.s.replies[r.ID] = &cp
	return nil
}

func (m *memReplies) FindByID(_ context.Context, id uuid.UUID) (*thread.Reply, error) {
	r, ok := m.s.replies[id]
	if !ok {
		return nil, taxonomy.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReplies) ListByThread(_ context.Context, threadID uuid.UUID, page, limit int) ([]thread.Reply, int64, error) {
	var out []thread.Reply
	for _, r := range m.s.replies {
		if r.ThreadID == threadID && !r.Orphaned {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, int64(len(out)), nil
}

func (m *memReplies) Update(_ context.Context, r *thread.Reply) error {
	if _, ok := m.s.replies[r.ID]; !ok {
		return taxonomy.ErrNotFound
	}
	cp := *r
	m.s.replies[r.ID] = &cp
	return nil
}

func (m *memReplies) SoftDelete(_ context.Context, id uuid.UUID) error {
	r, ok := m.s.replies[id]
	if !ok || r.DeletedAt != nil {
		return taxonomy.ErrNotFound
	}
	now := time.Now()
	r.DeletedAt = &now
	r.Content = thread.TombstoneContent
	return nil
}

func (m *memReplies) HardDelete(_ context.Context, id uuid.UUID) error {
	delete(m.s.replies, id)
	return nil
}

func (m *memReplies) PinExclusive(_ context.Context, threadID, replyID uuid.UUID) error {
	target, ok := m.s.replies[replyID]
	if !ok {
		return taxonomy.ErrNotFound
	}
	for _, r := range m.s.replies {
		if r.ThreadID == threadID {
			r.IsPinned = false
		}
	}
	target.IsPinned = true
	return nil
}

func (m *memReplies) Unpin(_ context.Context, replyID uuid.UUID) error {
	r, ok := m.s.replies[replyID]
	if !ok {
		return taxonomy.ErrNotFound
	}
	r.IsPinned = false
	return nil
}

type memInteractions struct{ s *store }

func (m *memInteractions) Upsert(_ context.Context, in *interaction.Interaction) (bool, error) {
	key := interactionKey(in.ActorID, in.TargetType, in.TargetID, in.Kind)
	if _, ok := m.s.interactions[key]; ok {
		return false, nil
	}
	in.CreatedAt = time.Now()
	cp := *in
	m.s.interactions[key] = &cp
	return true, nil
}

func (m *memInteractions) Delete(_ context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (bool, error) {
	key := interactionKey(actorID, targetType, targetID, kind)
	if _, ok := m.s.interactions[key]; !ok {
		return false, nil
	}
	delete(m.s.interactions, key)
	return true, nil
}

func (m *memInteractions) Find(_ context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (*interaction.Interaction, error) {
	in, ok := m.s.interactions[interactionKey(actorID, targetType, targetID, kind)]
	if !ok {
		return nil, taxonomy.ErrNotFound
	}
	cp := *in
	return &cp, nil
}

func (m *memInteractions) Exists(_ context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (bool, error) {
	_, ok := m.s.interactions[interactionKey(actorID, targetType, targetID, kind)]
	return ok, nil
}

func (m *memInteractions) Count(_ context.Context, targetType string, targetID uuid.UUID, kind string) (int64, error) {
	var count int64
	for _, in := range m.s.interactions {
		if in.TargetType == targetType && in.TargetID == targetID && in.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (m *memInteractions) ListTargetIDsByActor(_ context.Context, actorID uuid.UUID, targetType, kind string, page, limit int) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, in := range m.s.interactions {
		if in.ActorID == actorID && in.TargetType == targetType && in.Kind == kind {
			out = append(out, in.TargetID)
		}
	}
	return out, nil
}

type memChats struct{ s *store }

// CreateWithParticipants mirrors the transactional contract: all rows land or
// none do.
func (m *memChats) CreateWithParticipants(_ context.Context, c *chat.Chat, members []chat.Participant) error {
	cp := *c
	m.s.chats[c.ID] = &cp
	for _, p := range members {
		row := p
		row.JoinedAt = time.Now()
		m.s.participants[pairKey(p.ChatID, p.UserID)] = &row
	}
	return nil
}

func (m *memChats) FindByID(_ context.Context, id uuid.UUID) (*chat.Chat, error) {
	c, ok := m.s.chats[id]
	if !ok {
		return nil, taxonomy.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memChats) ListForUser(_ context.Context, userID uuid.UUID, page, limit int) ([]chat.Chat, int64, error) {
	var out []chat.Chat
	for id, c := range m.s.chats {
		if _, member := m.s.participants[pairKey(id, userID)]; !member {
			continue
		}
		if _, hidden := m.s.deletedChats[pairKey(id, userID)]; hidden {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *memChats) MarkDeletedForUser(_ context.Context, chatID, userID uuid.UUID) error {
	m.s.deletedChats[pairKey(chatID, userID)] = time.Now()
	return nil
}

type memParticipants struct{ s *store }

func (m *memParticipants) Add(_ context.Context, p *chat.Participant) (bool, error) {
	key := pairKey(p.ChatID, p.UserID)
	if _, ok := m.s.participants[key]; ok {
		return false, nil
	}
	cp := *p
	cp.JoinedAt = time.Now()
	m.s.participants[key] = &cp
	return true, nil
}

func (m *memParticipants) Remove(_ context.Context, chatID, userID uuid.UUID) (bool, error) {
	key := pairKey(chatID, userID)
	if _, ok := m.s.participants[key]; !ok {
		return false, nil
	}
	delete(m.s.participants, key)
	return true, nil
}

func (m *memParticipants) Find(_ context.Context, chatID, userID uuid.UUID) (*chat.Participant, error) {
	p, ok := m.s.participants[pairKey(chatID, userID)]
	if !ok {
		return nil, taxonomy.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memParticipants) List(_ context.Context, chatID uuid.UUID) ([]chat.Participant, error) {
	var out []chat.Participant
	for _, p := range m.s.participants {
		if p.ChatID == chatID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memMessages struct{ s *store }

func (m *memMessages) Create(_ context.Context, msg *chat.Message) error {
	cp := *msg
	cp.SentAt = time.Now()
	m.s.messages[msg.ID] = &cp
	return nil
}

func (m *memMessages) FindByID(_ context.Context, id uuid.UUID) (*chat.Message, error) {
	msg, ok := m.s.messages[id]
	if !ok {
		return nil, taxonomy.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (m *memMessages) ListByChat(_ context.Context, chatID, viewerID uuid.UUID, page, limit int) ([]chat.Message, int64, error) {
	var out []chat.Message
	for _, msg := range m.s.messages {
		if msg.ChatID != chatID || msg.DeletedForAll {
			continue
		}
		if msg.DeletedForSender && msg.SenderID == viewerID {
			continue
		}
		out = append(out, *msg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out, int64(len(out)), nil
}

func (m *memMessages) Update(_ context.Context, msg *chat.Message) error {
	if _, ok := m.s.messages[msg.ID]; !ok {
		return taxonomy.ErrNotFound
	}
	cp := *msg
	m.s.messages[msg.ID] = &cp
	return nil
}

func (m *memMessages) MarkRead(_ context.Context, messageID, userID uuid.UUID) (bool, error) {
	key := pairKey(messageID, userID)
	if _, ok := m.s.receipts[key]; ok {
		return false, nil
	}
	m.s.receipts[key] = time.Now()
	return true, nil
}

// fakeGraph is the identity/social-graph collaborator. Setting err simulates
// an upstream outage, which the permission engine must treat as deny.
type fakeGraph struct {
	follows    map[string]bool
	verified   map[uuid.UUID]bool
	moderators map[uuid.UUID]bool
	err        error
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		follows:    make(map[string]bool),
		verified:   make(map[uuid.UUID]bool),
		moderators: make(map[uuid.UUID]bool),
	}
}

func (g *fakeGraph) IsFollowing(_ context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return g.follows[pairKey(followerID, followeeID)], nil
}

func (g *fakeGraph) IsVerified(_ context.Context, userID uuid.UUID) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return g.verified[userID], nil
}

func (g *fakeGraph) IsModerator(_ context.Context, userID uuid.UUID) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return g.moderators[userID], nil
}

// recordingBus captures published events in order.
type recordingBus struct {
	published []events.MessageEvent
}

func (b *recordingBus) Publish(_ context.Context, event events.MessageEvent) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(_ context.Context, _ events.Handler) error {
	return nil
}
