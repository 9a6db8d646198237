package handler

import (
	"net/http"
	"strings"

	"threadline/internal/config"
	"threadline/internal/services"
	"threadline/internal/transport/httpdto"
	taxonomy "threadline/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InteractionHandler struct {
	service *services.InteractionService
	paging  config.PaginationConfig
}

func NewInteractionHandler(service *services.InteractionService, paging config.PaginationConfig) *InteractionHandler {
	return &InteractionHandler{service: service, paging: paging}
}

func (h *InteractionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interactions", h.AddInteraction)
	rg.DELETE("/interactions", h.RemoveInteraction)
	rg.GET("/interactions/count", h.CountInteractions)
	rg.GET("/interactions/exists", h.HasInteraction)
	rg.GET("/interactions/mine", h.ListMine)
}

func (h *InteractionHandler) AddInteraction(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.AddInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		_ = c.Error(taxonomy.ErrInvalidArgument)
		return
	}

	in, err := h.service.AddInteraction(c.Request.Context(), actor,
		normalize(req.TargetType), targetID, normalize(req.Kind), req.AddedContent)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.InteractionResponse{
		ActorID:      in.ActorID.String(),
		TargetType:   in.TargetType,
		TargetID:     in.TargetID.String(),
		Kind:         in.Kind,
		AddedContent: in.AddedContent,
		CreatedAt:    in.CreatedAt,
	}))
}

func (h *InteractionHandler) RemoveInteraction(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.RemoveInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		_ = c.Error(taxonomy.ErrInvalidArgument)
		return
	}

	err = h.service.RemoveInteraction(c.Request.Context(), actor,
		normalize(req.TargetType), targetID, normalize(req.Kind))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"removed": true}))
}

func (h *InteractionHandler) CountInteractions(c *gin.Context) {
	targetType := normalize(c.Query("target_type"))
	kind := normalize(c.Query("kind"))
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil {
		_ = c.Error(taxonomy.ErrInvalidArgument)
		return
	}

	count, err := h.service.CountInteractions(c.Request.Context(), targetType, targetID, kind)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CountResponse{
		TargetType: targetType,
		TargetID:   targetID.String(),
		Kind:       kind,
		Count:      count,
	}))
}

func (h *InteractionHandler) HasInteraction(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil {
		_ = c.Error(taxonomy.ErrInvalidArgument)
		return
	}

	exists, err := h.service.HasInteraction(c.Request.Context(), actor,
		normalize(c.Query("target_type")), targetID, normalize(c.Query("kind")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"exists": exists}))
}

// ListMine backs the caller's liked/bookmarked/reposted listings.
func (h *InteractionHandler) ListMine(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := pagination(c, h.paging)

	ids, err := h.service.ListActorTargets(c.Request.Context(), actor,
		normalize(c.Query("target_type")), normalize(c.Query("kind")), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"target_ids": out,
		"page":       page,
		"limit":      limit,
	}))
}

func normalize(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
