package handlers

import (
	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/realtime"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect upgrades GET /ws to a websocket and parks the connection in the hub
// until the client goes away.
func (h *WSHandler) Connect(c *gin.Context) {
	user := middleware.CurrentUser(c)
	h.hub.Serve(c.Writer, c.Request, user.ID)
}
