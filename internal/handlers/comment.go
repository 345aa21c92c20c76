package handlers

import (
	"net/http"

	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/services"
	"github.com/ifradhos55/Markain/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Add handles POST /collaboration/posts/:id/comments. A parent_comment_id
// form value turns the comment into a reply.
func (h *CommentHandler) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))
	content := c.PostForm("content")

	var parentID *uint
	if raw := c.PostForm("parent_comment_id"); raw != "" {
		id := utils.StringToUint(raw)
		if id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent comment id"})
			return
		}
		parentID = &id
	}

	comment, err := h.comments.Add(user, postID, content, parentID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.JSON(http.StatusOK, gin.H{
		"id":       comment.ID,
		"postId":   comment.PostID,
		"content":  comment.Content,
		"user":     user.Username,
		"avatar":   user.ProfilePictureURL,
		"parentId": comment.ParentCommentID,
	})
}

// Edit handles POST /collaboration/comments/:id/edit.
func (h *CommentHandler) Edit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	commentID := utils.StringToUint(c.Param("id"))

	comment, err := h.comments.Edit(user, commentID, c.PostForm("content"))
	if err != nil {
		abortServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.JSON(http.StatusOK, gin.H{"id": comment.ID, "content": comment.Content})
}

// Delete handles POST /collaboration/comments/:id/delete.
func (h *CommentHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	commentID := utils.StringToUint(c.Param("id"))

	if err := h.comments.Delete(user, commentID); err != nil {
		abortServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
