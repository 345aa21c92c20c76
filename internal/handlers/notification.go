package handlers

import (
	"net/http"

	"github.com/ifradhos55/Markain/internal/db"
	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/models"
	"github.com/ifradhos55/Markain/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List renders the caller's notifications, unread first, newest first.
// Broadcast notifications (nil recipient) are visible to everyone.
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var notifications []models.Notification
	if err := db.DB.Preload("Sender").
		Where("recipient_id = ? OR recipient_id IS NULL", user.ID).
		Order("is_read ASC, sent_date DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load notifications")
		return
	}

	Render(c, http.StatusOK, "notifications.html", gin.H{
		"Notifications": notifications,
	})
}

// Read marks one notification read and follows its action URL.
func (h *NotificationHandler) Read(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var n models.Notification
	if err := db.DB.First(&n, id).Error; err != nil {
		c.Redirect(http.StatusFound, "/notifications")
		return
	}
	if n.RecipientID != nil && *n.RecipientID != user.ID {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	db.DB.Model(&n).Update("is_read", true)

	if n.ActionURL != "" {
		c.Redirect(http.StatusFound, n.ActionURL)
		return
	}
	c.Redirect(http.StatusFound, "/notifications")
}

// ReadAll marks every notification of the caller read.
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user := middleware.CurrentUser(c)

	db.DB.Model(&models.Notification{}).
		Where("(recipient_id = ? OR recipient_id IS NULL) AND is_read = ?", user.ID, false).
		Update("is_read", true)

	c.Redirect(http.StatusFound, "/notifications")
}

// Delete removes one of the caller's own notifications.
func (h *NotificationHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	db.DB.Where("id = ? AND recipient_id = ?", id, user.ID).
		Delete(&models.Notification{})

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
