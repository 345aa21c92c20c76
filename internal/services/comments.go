package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ifradhos55/Markain/internal/models"
	"github.com/ifradhos55/Markain/internal/realtime"

	"gorm.io/gorm"
)

// CommentService manages the comment tree under feed posts: creation with
// notification fan-out, author-only edits, and recursive cascade deletion.
type CommentService struct {
	DB        *gorm.DB
	Notifier  *Notifier
	Broadcast realtime.Broadcaster
}

func NewCommentService(db *gorm.DB, notifier *Notifier, b realtime.Broadcaster) *CommentService {
	return &CommentService{DB: db, Notifier: notifier, Broadcast: b}
}

// Add persists a comment (optionally as a reply) and notifies the post owner
// and, for replies, the parent comment's owner. The parent owner is skipped
// when it is the author or the same person as the post owner, so nobody gets
// notified twice for one comment.
func (s *CommentService) Add(author *models.User, postID uint, content string, parentCommentID *uint) (models.PostComment, error) {
	if strings.TrimSpace(content) == "" {
		return models.PostComment{}, fmt.Errorf("%w: comment content is empty", ErrValidation)
	}

	var comment models.PostComment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var parent *models.PostComment
		if parentCommentID != nil {
			var p models.PostComment
			if err := tx.First(&p, *parentCommentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			parent = &p
		}

		comment = models.PostComment{
			PostID:          postID,
			UserID:          author.ID,
			Content:         content,
			ParentCommentID: parentCommentID,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		anchor := fmt.Sprintf("/collaboration#comment-%d", comment.ID)

		if post.UserID != author.ID {
			if err := s.Notifier.Notify(tx, post.UserID, author.ID, models.NotificationTitleComment,
				fmt.Sprintf("%s commented on your post.", author.Username), anchor); err != nil {
				return err
			}
		}
		if parent != nil && parent.UserID != author.ID && parent.UserID != post.UserID {
			if err := s.Notifier.Notify(tx, parent.UserID, author.ID, models.NotificationTitleReply,
				fmt.Sprintf("%s replied to your comment.", author.Username), anchor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.PostComment{}, err
	}

	comment.User = *author
	s.Broadcast.Publish(realtime.EventCommentAdded, realtime.CommentAdded{
		PostID:   postID,
		ID:       comment.ID,
		User:     author.Username,
		Avatar:   author.ProfilePictureURL,
		Content:  comment.Content,
		Date:     comment.CreatedAt.Local().Format("Jan 02 15:04"),
		ParentID: parentCommentID,
	})
	return comment, nil
}

// Edit replaces a comment's content. Only the author may edit.
func (s *CommentService) Edit(actor *models.User, commentID uint, content string) (models.PostComment, error) {
	if strings.TrimSpace(content) == "" {
		return models.PostComment{}, fmt.Errorf("%w: comment content is empty", ErrValidation)
	}

	var comment models.PostComment
	if err := s.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PostComment{}, ErrNotFound
		}
		return models.PostComment{}, err
	}
	if comment.UserID != actor.ID {
		return models.PostComment{}, ErrForbidden
	}

	if err := s.DB.Model(&comment).Update("content", content).Error; err != nil {
		return models.PostComment{}, err
	}
	comment.Content = content

	s.Broadcast.Publish(realtime.EventCommentEdited, realtime.CommentEdited{
		CommentID: commentID,
		Content:   content,
	})
	return comment, nil
}

// Delete removes a comment and every descendant reply. The author or an
// administrator may delete. The cascade is an explicit breadth-first collect
// over the parent reference followed by a bulk delete, so the invariant stays
// auditable independent of the storage engine.
func (s *CommentService) Delete(actor *models.User, commentID uint) error {
	var comment models.PostComment
	if err := s.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ids, err := collectCommentTree(tx, commentID)
		if err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.PostCommentVote{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.PostComment{}).Error
	})
	if err != nil {
		return err
	}

	s.Broadcast.Publish(realtime.EventCommentDeleted, realtime.CommentDeleted{
		CommentID: commentID,
		PostID:    comment.PostID,
		TopLevel:  comment.ParentCommentID == nil,
	})
	return nil
}

// collectCommentTree gathers the comment id plus all descendant reply ids,
// level by level.
func collectCommentTree(tx *gorm.DB, rootID uint) ([]uint, error) {
	all := []uint{rootID}
	frontier := []uint{rootID}
	for len(frontier) > 0 {
		var next []uint
		if err := tx.Model(&models.PostComment{}).
			Where("parent_comment_id IN ?", frontier).
			Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}
