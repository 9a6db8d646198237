package repository

import (
	"context"
	"time"

	"threadline/internal/domain/chat"
	taxonomy "threadline/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *chat.Message) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *PostgresMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	var m chat.Message
	err := r.db.WithContext(ctx).Where("message_id = ?", id).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// ListByChat applies the view rules: globally deleted rows are hidden from
// everyone, sender-hidden rows only from the sender. Unsent rows are returned
// (the service blanks their content for rendering).
func (r *PostgresMessageRepository) ListByChat(ctx context.Context, chatID, viewerID uuid.UUID, page, limit int) ([]chat.Message, int64, error) {
	page, limit = clampPage(page, limit, 0)

	q := r.db.WithContext(ctx).Model(&chat.Message{}).
		Where("chat_id = ? AND deleted_for_all = false", chatID).
		Where("NOT (deleted_for_sender = true AND sender_id = ?)", viewerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var messages []chat.Message
	err := q.Order("sent_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return messages, total, nil
}

func (r *PostgresMessageRepository) Update(ctx context.Context, m *chat.Message) error {
	res := r.db.WithContext(ctx).Save(m)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return taxonomy.ErrNotFound
	}
	return nil
}

// MarkRead upserts the receipt; repeated reads by the same user are absorbed
// by the (message_id, user_id) key.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, messageID, userID uuid.UUID) (bool, error) {
	receipt := &chat.ReadReceipt{
		MessageID: messageID,
		UserID:    userID,
		ReadAt:    time.Now(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(receipt)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}
