package interaction

import (
	"time"

	"github.com/google/uuid"
)

// Interaction kinds. A pin is not an interaction; it is an author-controlled
// flag on the content itself.
const (
	KindLike     = "LIKE"
	KindRepost   = "REPOST"
	KindBookmark = "BOOKMARK"
)

// Interaction targets.
const (
	TargetThread = "THREAD"
	TargetReply  = "REPLY"
)

// Interaction represents the interactions table: at most one row per
// (actor, target type, target, kind). The composite primary key is the
// uniqueness guard that makes adds atomic; there is no surrogate ID.
type Interaction struct {
	ActorID    uuid.UUID `gorm:"type:uuid;primaryKey;column:actor_id"`
	TargetType string    `gorm:"type:varchar(10);primaryKey;column:target_type"`
	TargetID   uuid.UUID `gorm:"type:uuid;primaryKey;column:target_id"`
	Kind       string    `gorm:"type:varchar(10);primaryKey;column:kind"`

	// AddedContent carries quote-repost text. It is repost metadata, never a
	// second thread.
	AddedContent *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// ValidKind reports whether kind is a known interaction kind.
func ValidKind(kind string) bool {
	switch kind {
	case KindLike, KindRepost, KindBookmark:
		return true
	}
	return false
}

// ValidTarget reports whether targetType is a known target type.
func ValidTarget(targetType string) bool {
	return targetType == TargetThread || targetType == TargetReply
}
