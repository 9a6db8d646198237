package handler

import (
	"net/http"

	"threadline/internal/config"
	"threadline/internal/domain/thread"
	"threadline/internal/permission"
	"threadline/internal/services"
	"threadline/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ThreadHandler struct {
	service *services.ThreadService
	graph   permission.SocialGraph
	paging  config.PaginationConfig
}

func NewThreadHandler(service *services.ThreadService, graph permission.SocialGraph, paging config.PaginationConfig) *ThreadHandler {
	return &ThreadHandler{service: service, graph: graph, paging: paging}
}

func (h *ThreadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/threads", h.CreateThread)
	rg.GET("/threads/:id", h.GetThread)
	rg.PATCH("/threads/:id", h.EditThread)
	rg.DELETE("/threads/:id", h.DeleteThread)
	rg.POST("/threads/:id/pin", h.PinThread)
	rg.DELETE("/threads/:id/pin", h.UnpinThread)
	rg.GET("/threads/:id/replies", h.ListReplies)
	rg.POST("/threads/:id/replies", h.CreateReply)
	rg.GET("/replies/:id", h.GetReply)
	rg.PATCH("/replies/:id", h.EditReply)
	rg.DELETE("/replies/:id", h.DeleteReply)
	rg.POST("/replies/:id/pin", h.PinReply)
	rg.DELETE("/replies/:id/pin", h.UnpinReply)
	rg.GET("/users/:id/threads", h.ListThreadsByAuthor)
}

func (h *ThreadHandler) CreateThread(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	communityID, err := optionalUUID(req.CommunityID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	t, err := h.service.CreateThread(c.Request.Context(), services.CreateThreadInput{
		AuthorID:        actor,
		Content:         req.Content,
		WhoCanReply:     req.WhoCanReply,
		CommunityID:     communityID,
		ScheduledAt:     req.ScheduledAt,
		IsAdvertisement: req.IsAdvertisement,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toThreadResponse(t)))
}

func (h *ThreadHandler) GetThread(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	t, err := h.service.GetThread(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toThreadResponse(t)))
}

func (h *ThreadHandler) EditThread(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorFrom(c, h.graph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.EditContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	t, err := h.service.EditThread(c.Request.Context(), id, actor, req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toThreadResponse(t)))
}

func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorFrom(c, h.graph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	hard := c.Query("hard") == "true"
	if err := h.service.DeleteThread(c.Request.Context(), id, actor, hard); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true, "hard": hard}))
}

func (h *ThreadHandler) PinThread(c *gin.Context)   { h.setThreadPin(c, true) }
func (h *ThreadHandler) UnpinThread(c *gin.Context) { h.setThreadPin(c, false) }

func (h *ThreadHandler) setThreadPin(c *gin.Context, pinned bool) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorFrom(c, h.graph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var t *thread.Thread
	if pinned {
		t, err = h.service.PinThread(c.Request.Context(), id, actor)
	} else {
		t, err = h.service.UnpinThread(c.Request.Context(), id, actor)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toThreadResponse(t)))
}

func (h *ThreadHandler) ListThreadsByAuthor(c *gin.Context) {
	authorID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := pagination(c, h.paging)
	threads, total, err := h.service.ListThreadsByAuthor(c.Request.Context(), authorID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items := make([]httpdto.ThreadResponse, 0, len(threads))
	for i := range threads {
		items = append(items, toThreadResponse(&threads[i]))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.Page[httpdto.ThreadResponse]{
		Items: items, Total: total, Page: page, Limit: limit,
	}))
}

func (h *ThreadHandler) CreateReply(c *gin.Context) {
	threadID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorFrom(c, h.graph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	parentID, err := optionalUUID(req.ParentReplyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	r, err := h.service.CreateReply(c.Request.Context(), services.CreateReplyInput{
		ThreadID:      threadID,
		ParentReplyID: parentID,
		AuthorID:      actor.ID,
		Content:       req.Content,
	}, actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toReplyResponse(r)))
}

func (h *ThreadHandler) GetReply(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	r, err := h.service.GetReply(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toReplyResponse(r)))
}

func (h *ThreadHandler) ListReplies(c *gin.Context) {
	threadID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := pagination(c, h.paging)
	replies, total, err := h.service.ListReplies(c.Request.Context(), threadID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items := make([]httpdto.ReplyResponse, 0, len(replies))
	for i := range replies {
		items = append(items, toReplyResponse(&replies[i]))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.Page[httpdto.ReplyResponse]{
		Items: items, Total: total, Page: page, Limit: limit,
	}))
}

func (h *ThreadHandler) EditReply(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorFrom(c, h.graph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.EditContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	r, err := h.service.EditReply(c.Request.Context(), id, actor, req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toReplyResponse(r)))
}

func (h *ThreadHandler) DeleteReply(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorFrom(c, h.graph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	hard := c.Query("hard") == "true"
	if err := h.service.DeleteReply(c.Request.Context(), id, actor, hard); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true, "hard": hard}))
}

func (h *ThreadHandler) PinReply(c *gin.Context)   { h.setReplyPin(c, true) }
func (h *ThreadHandler) UnpinReply(c *gin.Context) { h.setReplyPin(c, false) }

func (h *ThreadHandler) setReplyPin(c *gin.Context, pinned bool) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorFrom(c, h.graph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var r *thread.Reply
	if pinned {
		r, err = h.service.PinReply(c.Request.Context(), id, actor)
	} else {
		r, err = h.service.UnpinReply(c.Request.Context(), id, actor)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toReplyResponse(r)))
}

func toThreadResponse(t *thread.Thread) httpdto.ThreadResponse {
	resp := httpdto.ThreadResponse{
		ID:              t.ID.String(),
		AuthorID:        t.AuthorID.String(),
		Content:         t.Content,
		WhoCanReply:     t.WhoCanReply,
		IsPinned:        t.IsPinned,
		IsAdvertisement: t.IsAdvertisement,
		ScheduledAt:     t.ScheduledAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		Deleted:         t.Tombstoned(),
	}
	if t.CommunityID != nil {
		s := t.CommunityID.String()
		resp.CommunityID = &s
	}
	return resp
}

func toReplyResponse(r *thread.Reply) httpdto.ReplyResponse {
	resp := httpdto.ReplyResponse{
		ID:        r.ID.String(),
		ThreadID:  r.ThreadID.String(),
		AuthorID:  r.AuthorID.String(),
		Content:   r.Content,
		IsPinned:  r.IsPinned,
		Orphaned:  r.Orphaned,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Deleted:   r.Tombstoned(),
	}
	if r.ParentReplyID != nil {
		s := r.ParentReplyID.String()
		resp.ParentReplyID = &s
	}
	return resp
}
