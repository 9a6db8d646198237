package repository

import (
	"context"

	"threadline/internal/domain/social"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresSocialGraphRepository reads the identity service's tables. It is
// consumed only by the permission engine, which treats every error from it as
// deny.
type PostgresSocialGraphRepository struct {
	db *gorm.DB
}

func NewSocialGraphRepository(db *gorm.DB) SocialGraphRepository {
	return &PostgresSocialGraphRepository{db: db}
}

func (r *PostgresSocialGraphRepository) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&social.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *PostgresSocialGraphRepository) IsVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.userFlag(ctx, userID, "is_verified")
}

func (r *PostgresSocialGraphRepository) IsModerator(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.userFlag(ctx, userID, "is_moderator")
}

func (r *PostgresSocialGraphRepository) userFlag(ctx context.Context, userID uuid.UUID, column string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&social.User{}).
		Where("user_id = ? AND "+column+" = true", userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
