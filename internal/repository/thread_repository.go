package repository

import (
	"context"
	"time"

	"threadline/internal/domain/thread"
	taxonomy "threadline/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &PostgresThreadRepository{db: db}
}

func (r *PostgresThreadRepository) Create(ctx context.Context, t *thread.Thread) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *PostgresThreadRepository) FindByID(ctx context.Context, id uuid.UUID) (*thread.Thread, error) {
	var t thread.Thread
	err := r.db.WithContext(ctx).Where("thread_id = ?", id).First(&t).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *PostgresThreadRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]thread.Thread, int64, error) {
	page, limit = clampPage(page, limit, 0)

	var total int64
	q := r.db.WithContext(ctx).Model(&thread.Thread{}).Where("author_id = ?", authorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var threads []thread.Thread
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return threads, total, nil
}

func (r *PostgresThreadRepository) Update(ctx context.Context, t *thread.Thread) error {
	res := r.db.WithContext(ctx).Save(t)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return taxonomy.ErrNotFound
	}
	return nil
}

// SoftDelete turns the row into a tombstone: deleted_at is set and the
// content replaced by the deletion marker. Interactions and replies stay.
func (r *PostgresThreadRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&thread.Thread{}).
		Where("thread_id = ? AND deleted_at IS NULL", id).
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

// HardDelete removes the thread and tags its replies orphaned in one
// transaction. Without that unit a failure between the two writes would leave
// replies listed under a thread that no longer exists, with no retry path.
func (r *PostgresThreadRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&thread.Thread{}, "thread_id = ?", id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return taxonomy.ErrNotFound
		}
		if err := tx.Model(&thread.Reply{}).
			Where("thread_id = ?", id).
			Update("orphaned", true).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}
