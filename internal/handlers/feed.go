package handlers

import (
	"net/http"
	"time"

	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/models"
	"github.com/ifradhos55/Markain/internal/services"
	"github.com/ifradhos55/Markain/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	feedCacheKey = "collab:feed"
	feedCacheTTL = 30 * time.Second
	feedLimit    = 50
)

type FeedHandler struct {
	posts  *services.PostService
	groups *services.GroupService
	chats  *services.ChatService
}

func NewFeedHandler(posts *services.PostService, groups *services.GroupService, chats *services.ChatService) *FeedHandler {
	return &FeedHandler{posts: posts, groups: groups, chats: chats}
}

// Show renders the collaboration page: the post feed plus the caller's chat
// sidebar. The feed itself is shared across users and cached briefly; vote
// button state is per user and loaded fresh.
func (h *FeedHandler) Show(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var posts []models.Post
	if cached := utils.GetCache().Get(feedCacheKey); cached != nil {
		posts = cached.([]models.Post)
	} else {
		var err error
		posts, err = h.posts.Feed(feedLimit)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Could not load the feed")
			return
		}
		utils.GetCache().Set(feedCacheKey, posts, feedCacheTTL)
	}

	postVotes, commentVotes, err := h.posts.UserVotes(user.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the feed")
		return
	}

	groups, err := h.groups.ListForUser(user.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the feed")
		return
	}
	privateChats, err := h.chats.ListPrivateChats(user.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the feed")
		return
	}

	Render(c, http.StatusOK, "collaboration/feed.html", gin.H{
		"Posts":        posts,
		"PostVotes":    postVotes,
		"CommentVotes": commentVotes,
		"Groups":       groups,
		"PrivateChats": privateChats,
	})
}

// CreatePost handles POST /collaboration/posts with optional image and
// attachment uploads.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	content := c.PostForm("content")

	var imageURL, attachmentURL string
	if fh, err := c.FormFile("image"); err == nil {
		att, err := services.SaveUpload(c, fh)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Upload failed")
			return
		}
		imageURL = att.URL
	}
	if fh, err := c.FormFile("attachment"); err == nil {
		att, err := services.SaveUpload(c, fh)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Upload failed")
			return
		}
		attachmentURL = att.URL
	}

	if _, err := h.posts.Create(user, content, imageURL, attachmentURL); err != nil {
		redirectServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.Redirect(http.StatusFound, "/collaboration")
}

// EditPost handles POST /collaboration/posts/:id/edit.
func (h *FeedHandler) EditPost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))

	if err := h.posts.Edit(user, postID, c.PostForm("content")); err != nil {
		abortServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.JSON(http.StatusOK, gin.H{"id": postID})
}

// DeletePost handles POST /collaboration/posts/:id/delete.
func (h *FeedHandler) DeletePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))

	if err := h.posts.Delete(user, postID); err != nil {
		abortServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
