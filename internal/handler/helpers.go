package handler

import (
	"strconv"

	"threadline/internal/config"
	"threadline/internal/permission"
	taxonomy "threadline/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorFrom rebuilds the caller's actor from the authenticated context. The
// moderator role is re-resolved against the social graph on every request; a
// graph failure leaves the actor a plain user.
func actorFrom(c *gin.Context, graph permission.SocialGraph) (permission.Actor, error) {
	id, err := uuid.Parse(c.GetString("actor_id"))
	if err != nil {
		return permission.Actor{}, taxonomy.ErrPermissionDenied
	}
	actor := permission.Actor{ID: id}
	if graph != nil && c.GetBool("is_moderator") {
		mod, err := graph.IsModerator(c.Request.Context(), id)
		if err == nil {
			actor.IsModerator = mod
		}
	}
	return actor, nil
}

func actorID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString("actor_id"))
	if err != nil {
		return uuid.Nil, taxonomy.ErrPermissionDenied
	}
	return id, nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, taxonomy.ErrInvalidArgument
	}
	return id, nil
}

func optionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, taxonomy.ErrInvalidArgument
	}
	return &id, nil
}

// pagination reads page/limit from the query string and clamps them to the
// configured bounds. Out-of-range values are clamped, never rejected.
func pagination(c *gin.Context, cfg config.PaginationConfig) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(cfg.DefaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	return page, limit
}
