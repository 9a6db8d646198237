package thread

import (
	"time"

	"github.com/google/uuid"
)

// Reply-visibility policies. Unknown values deny by default.
const (
	ReplyPolicyEveryone  = "EVERYONE"
	ReplyPolicyFollowing = "FOLLOWING"
	ReplyPolicyVerified  = "VERIFIED"
)

// TombstoneContent replaces the content of a soft-deleted thread or reply.
const TombstoneContent = "[deleted]"

// Thread represents the threads table. DeletedAt marks a tombstone: the row
// stays addressable and listable but its content is replaced.
type Thread struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;column:thread_id"`
	AuthorID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Content         string     `gorm:"type:text;not null"`
	WhoCanReply     string     `gorm:"type:varchar(20);not null;default:'EVERYONE'"`
	IsPinned        bool       `gorm:"default:false;not null"`
	IsAdvertisement bool       `gorm:"default:false;not null"`
	CommunityID     *uuid.UUID `gorm:"type:uuid"`
	ScheduledAt     *time.Time `gorm:"type:timestamp with time zone"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
	DeletedAt       *time.Time `gorm:"index"`
}

// Reply represents the replies table. Orphaned is set when the parent thread
// is hard-deleted; the reply stays addressable by ID but is excluded from
// thread listings.
type Reply struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;column:reply_id"`
	ThreadID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentReplyID *uuid.UUID `gorm:"type:uuid"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Content       string     `gorm:"type:text;not null"`
	IsPinned      bool       `gorm:"default:false;not null"`
	Orphaned      bool       `gorm:"default:false;not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
	DeletedAt     *time.Time `gorm:"index"`
}

func (Thread) TableName() string {
	return "threads"
}

func (Reply) TableName() string {
	return "replies"
}

// Tombstoned reports whether the thread is soft-deleted.
func (t *Thread) Tombstoned() bool {
	return t.DeletedAt != nil
}

// Tombstoned reports whether the reply is soft-deleted.
func (r *Reply) Tombstoned() bool {
	return r.DeletedAt != nil
}

// ValidReplyPolicy reports whether the given who-can-reply value is known.
func ValidReplyPolicy(policy string) bool {
	switch policy {
	case ReplyPolicyEveryone, ReplyPolicyFollowing, ReplyPolicyVerified:
		return true
	}
	return false
}
