package handlers

import (
	"net/http"

	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/services"
	"github.com/ifradhos55/Markain/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteRequest struct {
	Value int `json:"value" form:"value"`
}

// VotePost handles POST /collaboration/posts/:id/vote and returns the new
// score with the caller's vote state.
func (h *VoteHandler) VotePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))

	var req voteRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vote payload"})
		return
	}

	result, err := h.votes.ApplyPostVote(user, postID, req.Value)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.JSON(http.StatusOK, result)
}

// VoteComment handles POST /collaboration/comments/:id/vote.
func (h *VoteHandler) VoteComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	commentID := utils.StringToUint(c.Param("id"))

	var req voteRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vote payload"})
		return
	}

	result, err := h.votes.ApplyCommentVote(user, commentID, req.Value)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)
	c.JSON(http.StatusOK, result)
}
