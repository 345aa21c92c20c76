package handlers

import (
	"net/http"

	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/services"
	"github.com/ifradhos55/Markain/internal/utils"

	"github.com/gin-gonic/gin"
)

type PrivateChatHandler struct {
	chats *services.ChatService
}

func NewPrivateChatHandler(chats *services.ChatService) *PrivateChatHandler {
	return &PrivateChatHandler{chats: chats}
}

// Start handles POST /collaboration/private: finds or creates the chat with
// the target user, then lands on it.
func (h *PrivateChatHandler) Start(c *gin.Context) {
	user := middleware.CurrentUser(c)
	targetID := utils.StringToUint(c.PostForm("user_id"))

	chat, err := h.chats.StartPrivateChat(user, targetID)
	if err != nil {
		redirectServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/collaboration/private/"+utils.UintToString(chat.ID))
}

// Details renders a private chat page.
func (h *PrivateChatHandler) Details(c *gin.Context) {
	user := middleware.CurrentUser(c)
	chatID := utils.StringToUint(c.Param("id"))

	chat, err := h.chats.GetPrivateChat(user, chatID)
	if err != nil {
		redirectServiceError(c, err)
		return
	}

	peer := chat.User1
	if chat.User1ID == user.ID {
		peer = chat.User2
	}

	Render(c, http.StatusOK, "collaboration/private.html", gin.H{
		"Chat": chat,
		"Peer": peer,
	})
}

// PostMessage handles POST /collaboration/private/:id/messages.
func (h *PrivateChatHandler) PostMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	chatID := utils.StringToUint(c.Param("id"))

	var att *services.Attachment
	if fh, err := c.FormFile("attachment"); err == nil {
		var uerr error
		att, uerr = services.SaveUpload(c, fh)
		if uerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
	}

	msg, err := h.chats.PostPrivateMessage(user, chatID, c.PostForm("message"), att)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       msg.ID,
		"message":  msg.Message,
		"sender":   user.Username,
		"sentDate": msg.SentDate,
	})
}

// EditMessage handles POST /collaboration/private/messages/:id/edit.
func (h *PrivateChatHandler) EditMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	messageID := utils.StringToUint(c.Param("id"))

	if err := h.chats.EditPrivateMessage(user, messageID, c.PostForm("message")); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": messageID})
}

// DeleteMessage handles POST /collaboration/private/messages/:id/delete.
func (h *PrivateChatHandler) DeleteMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	messageID := utils.StringToUint(c.Param("id"))

	if err := h.chats.DeletePrivateMessage(user, messageID); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
