package repository

import (
	"context"

	"threadline/internal/domain/interaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresInteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

// Upsert relies on the composite primary key: concurrent duplicate adds from
// a double-tapping client race at the constraint, not in application code.
func (r *PostgresInteractionRepository) Upsert(ctx context.Context, in *interaction.Interaction) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(in)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresInteractionRepository) Delete(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_type = ? AND target_id = ? AND kind = ?",
			actorID, targetType, targetID, kind).
		Delete(&interaction.Interaction{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresInteractionRepository) Find(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (*interaction.Interaction, error) {
	var in interaction.Interaction
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_type = ? AND target_id = ? AND kind = ?",
			actorID, targetType, targetID, kind).
		First(&in).Error
	if err != nil {
		return nil, translate(err)
	}
	return &in, nil
}

func (r *PostgresInteractionRepository) Exists(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID, kind string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&interaction.Interaction{}).
		Where("actor_id = ? AND target_type = ? AND target_id = ? AND kind = ?",
			actorID, targetType, targetID, kind).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// Count derives the counter from rows every time; there is no separately
// maintained counter column to drift.
func (r *PostgresInteractionRepository) Count(ctx context.Context, targetType string, targetID uuid.UUID, kind string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&interaction.Interaction{}).
		Where("target_type = ? AND target_id = ? AND kind = ?", targetType, targetID, kind).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *PostgresInteractionRepository) ListTargetIDsByActor(ctx context.Context, actorID uuid.UUID, targetType, kind string, page, limit int) ([]uuid.UUID, error) {
	page, limit = clampPage(page, limit, 0)

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&interaction.Interaction{}).
		Where("actor_id = ? AND target_type = ? AND kind = ?", actorID, targetType, kind).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}
