package ws

import (
	"context"
	"net/http"

	"threadline/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades authenticated requests and parks the connection on the hub.
type Handler struct {
	hub *Hub
	log *logger.Logger
}

func NewHandler(hub *Hub, log *logger.Logger) *Handler {
	return &Handler{hub: hub, log: log}
}

// Serve expects the auth middleware to have stored the actor id on the gin
// context under "actor_id".
func (h *Handler) Serve(c *gin.Context) {
	actorID, err := uuid.Parse(c.GetString("actor_id"))
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.With(c.Request.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// The request context dies when this handler returns, so the write loop
	// gets its own lifetime tied to the connection instead.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := NewClient(conn, actorID)
	h.hub.Register(client)
	go client.WriteLoop(ctx)

	client.ReadLoop()
	h.hub.Unregister(client)
}
