package handlers

import (
	"net/http"

	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/services"
	"github.com/ifradhos55/Markain/internal/utils"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groups *services.GroupService
	chats  *services.ChatService
}

func NewGroupHandler(groups *services.GroupService, chats *services.ChatService) *GroupHandler {
	return &GroupHandler{groups: groups, chats: chats}
}

// Create handles POST /collaboration/groups with an optional photo upload.
func (h *GroupHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var photoURL string
	if fh, err := c.FormFile("photo"); err == nil {
		att, err := services.SaveUpload(c, fh)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Upload failed")
			return
		}
		photoURL = att.URL
	}

	group, err := h.groups.Create(user, c.PostForm("name"), c.PostForm("description"), photoURL)
	if err != nil {
		redirectServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/collaboration/groups/"+utils.UintToString(group.ID))
}

// Details renders a group chat page with its members and messages.
func (h *GroupHandler) Details(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))

	group, err := h.groups.Get(user, groupID)
	if err != nil {
		redirectServiceError(c, err)
		return
	}

	var viewMode = "List"
	for _, m := range group.Members {
		if m.UserID == user.ID {
			viewMode = m.ViewMode
			break
		}
	}

	Render(c, http.StatusOK, "collaboration/group.html", gin.H{
		"Group":    group,
		"ViewMode": viewMode,
		"IsOwner":  group.OwnerID == user.ID,
	})
}

// AddMember handles POST /collaboration/groups/:id/members.
func (h *GroupHandler) AddMember(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))

	if err := h.groups.AddMember(user, groupID, c.PostForm("username")); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}

// RemoveMember handles POST /collaboration/groups/:id/members/:memberId/remove.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))
	memberID := utils.StringToUint(c.Param("memberId"))

	if err := h.groups.RemoveMember(user, groupID, memberID); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// Leave handles POST /collaboration/groups/:id/leave.
func (h *GroupHandler) Leave(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))

	if err := h.groups.Leave(user, groupID); err != nil {
		redirectServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/collaboration")
}

// Delete handles POST /collaboration/groups/:id/delete.
func (h *GroupHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))

	if err := h.groups.Delete(user, groupID); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// UpdatePhoto handles POST /collaboration/groups/:id/photo.
func (h *GroupHandler) UpdatePhoto(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))

	fh, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	att, err := services.SaveUpload(c, fh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if err := h.groups.UpdatePhoto(user, groupID, att.URL); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photoUrl": att.URL})
}

// SetViewMode handles POST /collaboration/groups/:id/view-mode.
func (h *GroupHandler) SetViewMode(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))

	if err := h.groups.SetViewMode(user, groupID, c.PostForm("mode")); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": c.PostForm("mode")})
}

// PostMessage handles POST /collaboration/groups/:id/messages with an
// optional attachment.
func (h *GroupHandler) PostMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	groupID := utils.StringToUint(c.Param("id"))

	var att *services.Attachment
	if fh, err := c.FormFile("attachment"); err == nil {
		var uerr error
		att, uerr = services.SaveUpload(c, fh)
		if uerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
	}

	msg, err := h.chats.PostGroupMessage(user, groupID, c.PostForm("message"), att)
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

// EditMessage handles POST /collaboration/messages/:id/edit.
func (h *GroupHandler) EditMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	messageID := utils.StringToUint(c.Param("id"))

	if err := h.chats.EditGroupMessage(user, messageID, c.PostForm("message")); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": messageID})
}

// DeleteMessage handles POST /collaboration/messages/:id/delete.
func (h *GroupHandler) DeleteMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	messageID := utils.StringToUint(c.Param("id"))

	if err := h.chats.DeleteGroupMessage(user, messageID); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
