package repository

import (
	"context"
	"time"

	"threadline/internal/domain/chat"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &PostgresChatRepository{db: db}
}

// CreateWithParticipants writes the chat and its initial membership as one
// transaction: either the full chat exists or none of it does, so a failed
// member insert never leaves a half-built chat in anyone's listing.
func (r *PostgresChatRepository) CreateWithParticipants(ctx context.Context, c *chat.Chat, members []chat.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return translate(err)
		}
		if len(members) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&members).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (r *PostgresChatRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
	var c chat.Chat
	err := r.db.WithContext(ctx).Where("chat_id = ?", id).First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListForUser returns the chats the user participates in, minus any chat the
// user has marked deleted for themself. Other participants' views are
// untouched by such markers.
func (r *PostgresChatRepository) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]chat.Chat, int64, error) {
	page, limit = clampPage(page, limit, 0)

	member := r.db.Model(&chat.Participant{}).
		Select("chat_id").
		Where("user_id = ?", userID)
	hidden := r.db.Model(&chat.DeletedChat{}).
		Select("chat_id").
		Where("user_id = ?", userID)

	q := r.db.WithContext(ctx).Model(&chat.Chat{}).
		Where("chat_id IN (?) AND chat_id NOT IN (?)", member, hidden)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var chats []chat.Chat
	err := q.Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&chats).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return chats, total, nil
}

// MarkDeletedForUser writes the per-user marker; repeating the call refreshes
// the timestamp rather than failing.
func (r *PostgresChatRepository) MarkDeletedForUser(ctx context.Context, chatID, userID uuid.UUID) error {
	marker := &chat.DeletedChat{
		ChatID:    chatID,
		UserID:    userID,
		DeletedAt: time.Now(),
	}
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"deleted_at"}),
		}).
		Create(marker).Error)
}

type PostgresParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &PostgresParticipantRepository{db: db}
}

// Add is conditional on the (chat_id, user_id) key; a concurrent duplicate
// add resolves at the constraint and reports inserted=false.
func (r *PostgresParticipantRepository) Add(ctx context.Context, p *chat.Participant) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresParticipantRepository) Remove(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&chat.Participant{}, "chat_id = ? AND user_id = ?", chatID, userID)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresParticipantRepository) Find(ctx context.Context, chatID, userID uuid.UUID) (*chat.Participant, error) {
	var p chat.Participant
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PostgresParticipantRepository) List(ctx context.Context, chatID uuid.UUID) ([]chat.Participant, error) {
	var participants []chat.Participant
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, translate(err)
	}
	return participants, nil
}
