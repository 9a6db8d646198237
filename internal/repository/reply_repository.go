package repository

import (
	"context"
	"time"

	"threadline/internal/domain/thread"
	taxonomy "threadline/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresReplyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &PostgresReplyRepository{db: db}
}

func (r *PostgresReplyRepository) Create(ctx context.Context, reply *thread.Reply) error {
	return translate(r.db.WithContext(ctx).Create(reply).Error)
}

func (r *PostgresReplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*thread.Reply, error) {
	var reply thread.Reply
	err := r.db.WithContext(ctx).Where("reply_id = ?", id).First(&reply).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reply, nil
}

func (r *PostgresReplyRepository) ListByThread(ctx context.Context, threadID uuid.UUID, page, limit int) ([]thread.Reply, int64, error) {
	page, limit = clampPage(page, limit, 0)

	var total int64
	q := r.db.WithContext(ctx).Model(&thread.Reply{}).
		Where("thread_id = ? AND orphaned = false", threadID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var replies []thread.Reply
	err := q.Order("is_pinned DESC, created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&replies).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return replies, total, nil
}

func (r *PostgresReplyRepository) Update(ctx context.Context, reply *thread.Reply) error {
	res := r.db.WithContext(ctx).Save(reply)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return taxonomy.ErrNotFound
	}
	return nil
}

func (r *PostgresReplyRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&thread.Reply{}).
		Where("reply_id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"content":    thread.TombstoneContent,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return taxonomy.ErrNotFound
	}
	return nil
}

func (r *PostgresReplyRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&thread.Reply{}, "reply_id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return taxonomy.ErrNotFound
	}
	return nil
}

// PinExclusive enforces the single-pinned-reply slot inside one transaction:
// whatever sibling held the slot loses it in the same unit of work.
func (r *PostgresReplyRepository) PinExclusive(ctx context.Context, threadID, replyID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&thread.Reply{}).
			Where("thread_id = ? AND is_pinned = true AND reply_id <> ?", threadID, replyID).
			Update("is_pinned", false).Error; err != nil {
			return translate(err)
		}
		res := tx.Model(&thread.Reply{}).
			Where("reply_id = ? AND thread_id = ?", replyID, threadID).
			Update("is_pinned", true)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return taxonomy.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresReplyRepository) Unpin(ctx context.Context, replyID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&thread.Reply{}).
		Where("reply_id = ?", replyID).
		Update("is_pinned", false)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return taxonomy.ErrNotFound
	}
	return nil
}
