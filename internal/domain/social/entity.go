package social

import (
	"time"

	"github.com/google/uuid"
)

// Follow and User mirror the identity service's tables. This layer only reads
// them, and only through the permission engine's SocialGraph interface.

type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey;column:follower_id"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey;column:followee_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	Username    string    `gorm:"type:varchar(50)"`
	IsVerified  bool      `gorm:"default:false;not null"`
	IsModerator bool      `gorm:"default:false;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Follow) TableName() string {
	return "follows"
}

func (User) TableName() string {
	return "users"
}
