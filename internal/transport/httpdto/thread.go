package httpdto

import "time"

type CreateThreadRequest struct {
	Content         string     `json:"content" binding:"required"`
	WhoCanReply     string     `json:"who_can_reply"`
	CommunityID     *string    `json:"community_id"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	IsAdvertisement bool       `json:"is_advertisement"`
}

type EditContentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreateReplyRequest struct {
	ParentReplyID *string `json:"parent_reply_id"`
	Content       string  `json:"content" binding:"required"`
}

type DeleteRequest struct {
	Hard bool `json:"hard"`
}

type ThreadResponse struct {
	ID              string     `json:"id"`
	AuthorID        string     `json:"author_id"`
	Content         string     `json:"content"`
	WhoCanReply     string     `json:"who_can_reply"`
	IsPinned        bool       `json:"is_pinned"`
	IsAdvertisement bool       `json:"is_advertisement"`
	CommunityID     *string    `json:"community_id,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Deleted         bool       `json:"deleted"`
}

type ReplyResponse struct {
	ID            string    `json:"id"`
	ThreadID      string    `json:"thread_id"`
	ParentReplyID *string   `json:"parent_reply_id,omitempty"`
	AuthorID      string    `json:"author_id"`
	Content       string    `json:"content"`
	IsPinned      bool      `json:"is_pinned"`
	Orphaned      bool      `json:"orphaned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Deleted       bool      `json:"deleted"`
}
