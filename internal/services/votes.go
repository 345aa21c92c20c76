package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ifradhos55/Markain/internal/models"
	"github.com/ifradhos55/Markain/internal/realtime"

	"gorm.io/gorm"
)

// VoteResult is what a vote endpoint returns to the caller: the subject's new
// score and the voter's resulting vote state (0 = neutral).
type VoteResult struct {
	Score    int `json:"score"`
	UserVote int `json:"userVote"`
}

// VoteService applies up/down votes to posts and comments while keeping the
// cached aggregate counters in step with the vote rows. Every mutation runs
// in a single transaction; the composite unique index on the vote tables is
// the store-level backstop against two rows for one (subject, user) pair.
type VoteService struct {
	DB        *gorm.DB
	Notifier  *Notifier
	Broadcast realtime.Broadcaster
}

func NewVoteService(db *gorm.DB, notifier *Notifier, b realtime.Broadcaster) *VoteService {
	return &VoteService{DB: db, Notifier: notifier, Broadcast: b}
}

// ApplyPostVote casts, toggles off, or switches the voter's vote on a post.
func (s *VoteService) ApplyPostVote(voter *models.User, postID uint, value int) (VoteResult, error) {
	if value != 1 && value != -1 {
		return VoteResult{}, fmt.Errorf("%w: vote value must be 1 or -1", ErrValidation)
	}

	var result VoteResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.PostVote
		err := tx.Where("post_id = ? AND user_id = ?", postID, voter.ID).First(&existing).Error
		hasExisting := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var upChange, downChange int
		switch {
		case !hasExisting:
			// New vote
			vote := models.PostVote{PostID: postID, UserID: voter.ID, Value: value, CreatedAt: time.Now().UTC()}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result.UserVote = value
			if value == 1 {
				upChange = 1
			} else {
				downChange = 1
			}
		case existing.Value == value:
			// Toggle off
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result.UserVote = 0
			if value == 1 {
				upChange = -1
			} else {
				downChange = -1
			}
		default:
			// Switch
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			result.UserVote = value
			if value == 1 {
				upChange, downChange = 1, -1
			} else {
				upChange, downChange = -1, 1
			}
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumns(map[string]interface{}{
				"upvote_count":   gorm.Expr("upvote_count + ?", upChange),
				"downvote_count": gorm.Expr("downvote_count + ?", downChange),
			}).Error; err != nil {
			return err
		}

		result.Score = (post.UpvoteCount + upChange) - (post.DownvoteCount + downChange)

		// Only a fresh upvote by someone else notifies the owner.
		if !hasExisting && value == 1 && post.UserID != voter.ID {
			return s.Notifier.NotifyUpvoteOnce(tx, post.UserID, voter.ID,
				fmt.Sprintf("%s upvoted your post.", voter.Username),
				fmt.Sprintf("/collaboration#post-%d", postID))
		}
		return nil
	})
	if err != nil {
		return VoteResult{}, err
	}

	s.Broadcast.Publish(realtime.EventVoteUpdate, realtime.VoteUpdate{
		SubjectID: postID,
		Score:     result.Score,
		UserVote:  result.UserVote,
		UserID:    voter.ID,
	})
	return result, nil
}

// ApplyCommentVote runs the same algorithm against a comment and its own vote
// table and counters.
func (s *VoteService) ApplyCommentVote(voter *models.User, commentID uint, value int) (VoteResult, error) {
	if value != 1 && value != -1 {
		return VoteResult{}, fmt.Errorf("%w: vote value must be 1 or -1", ErrValidation)
	}

	var result VoteResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var comment models.PostComment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.PostCommentVote
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, voter.ID).First(&existing).Error
		hasExisting := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var upChange, downChange int
		switch {
		case !hasExisting:
			vote := models.PostCommentVote{CommentID: commentID, UserID: voter.ID, Value: value, CreatedAt: time.Now().UTC()}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result.UserVote = value
			if value == 1 {
				upChange = 1
			} else {
				downChange = 1
			}
		case existing.Value == value:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result.UserVote = 0
			if value == 1 {
				upChange = -1
			} else {
				downChange = -1
			}
		default:
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			result.UserVote = value
			if value == 1 {
				upChange, downChange = 1, -1
			} else {
				upChange, downChange = -1, 1
			}
		}

		if err := tx.Model(&models.PostComment{}).Where("id = ?", commentID).
			UpdateColumns(map[string]interface{}{
				"upvote_count":   gorm.Expr("upvote_count + ?", upChange),
				"downvote_count": gorm.Expr("downvote_count + ?", downChange),
			}).Error; err != nil {
			return err
		}

		result.Score = (comment.UpvoteCount + upChange) - (comment.DownvoteCount + downChange)
		return nil
	})
	if err != nil {
		return VoteResult{}, err
	}

	s.Broadcast.Publish(realtime.EventCommentVoteUpdate, realtime.VoteUpdate{
		SubjectID: commentID,
		Score:     result.Score,
		UserVote:  result.UserVote,
		UserID:    voter.ID,
	})
	return result, nil
}
