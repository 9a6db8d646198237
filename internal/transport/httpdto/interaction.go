package httpdto

import "time"

type AddInteractionRequest struct {
	TargetType   string  `json:"target_type" binding:"required"`
	TargetID     string  `json:"target_id" binding:"required"`
	Kind         string  `json:"kind" binding:"required"`
	AddedContent *string `json:"added_content"`
}

type RemoveInteractionRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
	Kind       string `json:"kind" binding:"required"`
}

type InteractionResponse struct {
	ActorID      string    `json:"actor_id"`
	TargetType   string    `json:"target_type"`
	TargetID     string    `json:"target_id"`
	Kind         string    `json:"kind"`
	AddedContent *string   `json:"added_content,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type CountResponse struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Kind       string `json:"kind"`
	Count      int64  `json:"count"`
}
