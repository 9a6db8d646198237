package handler

import (
	"net/http"

	"threadline/internal/config"
	"threadline/internal/domain/chat"
	"threadline/internal/services"
	"threadline/internal/transport/httpdto"
	taxonomy "threadline/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	service *services.ChatService
	paging  config.PaginationConfig
}

func NewChatHandler(service *services.ChatService, paging config.PaginationConfig) *ChatHandler {
	return &ChatHandler{service: service, paging: paging}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chats", h.CreateChat)
	rg.GET("/chats", h.ListChats)
	rg.GET("/chats/:id", h.GetChat)
	rg.DELETE("/chats/:id", h.DeleteChatForUser)
	rg.GET("/chats/:id/participants", h.ListParticipants)
	rg.POST("/chats/:id/participants", h.AddParticipant)
	rg.DELETE("/chats/:id/participants/:userId", h.RemoveParticipant)
	rg.GET("/chats/:id/messages", h.ListMessages)
	rg.POST("/chats/:id/messages", h.SendMessage)
	rg.PATCH("/messages/:id", h.EditMessage)
	rg.POST("/messages/:id/unsend", h.UnsendMessage)
	rg.DELETE("/messages/:id", h.DeleteMessage)
	rg.POST("/messages/:id/read", h.MarkRead)
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	participantIDs := make([]uuid.UUID, 0, len(req.ParticipantIDs))
	for _, raw := range req.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = c.Error(taxonomy.ErrInvalidArgument)
			return
		}
		participantIDs = append(participantIDs, id)
	}

	created, err := h.service.CreateChat(c.Request.Context(), actor, participantIDs, req.IsGroup, req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toChatResponse(created)))
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	found, err := h.service.GetChat(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toChatResponse(found)))
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := pagination(c, h.paging)
	chats, total, err := h.service.ListChats(c.Request.Context(), actor, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items := make([]httpdto.ChatResponse, 0, len(chats))
	for i := range chats {
		items = append(items, toChatResponse(&chats[i]))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.Page[httpdto.ChatResponse]{
		Items: items, Total: total, Page: page, Limit: limit,
	}))
}

func (h *ChatHandler) ListParticipants(c *gin.Context) {
	chatID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	participants, err := h.service.ListParticipants(c.Request.Context(), chatID, actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items := make([]httpdto.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		items = append(items, httpdto.ParticipantResponse{
			ChatID:   p.ChatID.String(),
			UserID:   p.UserID.String(),
			IsAdmin:  p.IsAdmin,
			JoinedAt: p.JoinedAt,
		})
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(items))
}

func (h *ChatHandler) AddParticipant(c *gin.Context) {
	chatID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		_ = c.Error(taxonomy.ErrInvalidArgument)
		return
	}

	if err := h.service.AddParticipant(c.Request.Context(), chatID, userID, actor); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"added": true}))
}

func (h *ChatHandler) RemoveParticipant(c *gin.Context) {
	chatID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	userID, err := pathUUID(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.RemoveParticipant(c.Request.Context(), chatID, userID, actor); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"removed": true}))
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	chatID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}
	replyTo, err := optionalUUID(req.ReplyToMessageID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	m, err := h.service.SendMessage(c.Request.Context(), chatID, actor, req.Content, replyTo)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toMessageResponse(m)))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	chatID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := pagination(c, h.paging)
	messages, total, err := h.service.ListMessages(c.Request.Context(), chatID, actor, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items := make([]httpdto.MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, toMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.Page[httpdto.MessageResponse]{
		Items: items, Total: total, Page: page, Limit: limit,
	}))
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	messageID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req httpdto.EditContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_ARGUMENT"))
		return
	}

	m, err := h.service.EditMessage(c.Request.Context(), messageID, actor, req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toMessageResponse(m)))
}

func (h *ChatHandler) UnsendMessage(c *gin.Context) {
	messageID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	m, err := h.service.UnsendMessage(c.Request.Context(), messageID, actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toMessageResponse(m)))
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	hard := c.Query("hard") == "true"
	if err := h.service.DeleteMessage(c.Request.Context(), messageID, actor, hard); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true, "hard": hard}))
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	messageID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.MarkMessageRead(c.Request.Context(), messageID, actor); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"read": true}))
}

func (h *ChatHandler) DeleteChatForUser(c *gin.Context) {
	chatID, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.DeleteChatForUser(c.Request.Context(), chatID, actor); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true}))
}

func toChatResponse(c *chat.Chat) httpdto.ChatResponse {
	return httpdto.ChatResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		IsGroup:   c.IsGroup,
		CreatorID: c.CreatorID.String(),
		CreatedAt: c.CreatedAt,
	}
}

func toMessageResponse(m *chat.Message) httpdto.MessageResponse {
	resp := httpdto.MessageResponse{
		ID:       m.ID.String(),
		ChatID:   m.ChatID.String(),
		SenderID: m.SenderID.String(),
		Content:  m.Content,
		SentAt:   m.SentAt,
		EditedAt: m.EditedAt,
		Unsent:   m.Unsent,
	}
	if m.ReplyToMessageID != nil {
		s := m.ReplyToMessageID.String()
		resp.ReplyToMessageID = &s
	}
	return resp
}
