package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ifradhos55/Markain/internal/models"
	"github.com/ifradhos55/Markain/internal/realtime"

	"gorm.io/gorm"
)

// PostService owns the feed posts themselves. Votes and comments have their
// own services; deletion here cascades into both.
type PostService struct {
	DB        *gorm.DB
	Broadcast realtime.Broadcaster
}

func NewPostService(db *gorm.DB, b realtime.Broadcaster) *PostService {
	return &PostService{DB: db, Broadcast: b}
}

// Create persists a post together with the author's self-upvote, so a fresh
// post always starts at upvote_count=1 with exactly one vote row.
func (s *PostService) Create(author *models.User, content, imageURL, attachmentURL string) (models.Post, error) {
	if strings.TrimSpace(content) == "" && imageURL == "" && attachmentURL == "" {
		return models.Post{}, fmt.Errorf("%w: post needs content or an upload", ErrValidation)
	}

	post := models.Post{
		UserID:        author.ID,
		Content:       content,
		ImageURL:      imageURL,
		AttachmentURL: attachmentURL,
		UpvoteCount:   1,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return tx.Create(&models.PostVote{
			PostID:    post.ID,
			UserID:    author.ID,
			Value:     1,
			CreatedAt: time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return models.Post{}, err
	}
	post.User = *author
	return post, nil
}

// Edit replaces the post's text. Author or admin only.
func (s *PostService) Edit(actor *models.User, postID uint, content string) error {
	var post models.Post
	if err := s.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if post.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.DB.Model(&post).Update("content", content).Error; err != nil {
		return err
	}

	s.Broadcast.Publish(realtime.EventPostEdited, realtime.PostEdited{
		PostID:  postID,
		Content: content,
	})
	return nil
}

// Delete removes the post and, in the same transaction, its votes, comments
// and comment votes. Author or admin only.
func (s *PostService) Delete(actor *models.User, postID uint) error {
	var post models.Post
	if err := s.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if post.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.PostComment{}).Where("post_id = ?", postID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.PostCommentVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", commentIDs).Delete(&models.PostComment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return err
	}

	s.Broadcast.Publish(realtime.EventPostDeleted, realtime.PostDeleted{PostID: postID})
	return nil
}

// Feed returns posts newest-first with their comment trees nested one level:
// a reply hangs under its nearest top-level ancestor regardless of storage
// depth.
func (s *PostService) Feed(limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 50
	}

	var posts []models.Post
	if err := s.DB.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var comments []models.PostComment
	if err := s.DB.Preload("User").
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	byPost := make(map[uint][]models.PostComment)
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for i := range posts {
		posts[i].Comments = nestComments(byPost[posts[i].ID])
	}
	return posts, nil
}

// UserVotes returns the voter's current vote per post and per comment, keyed
// by id, for rendering vote button state.
func (s *PostService) UserVotes(userID uint) (map[uint]int, map[uint]int, error) {
	postVotes := make(map[uint]int)
	commentVotes := make(map[uint]int)

	var pv []models.PostVote
	if err := s.DB.Where("user_id = ?", userID).Find(&pv).Error; err != nil {
		return nil, nil, err
	}
	for _, v := range pv {
		postVotes[v.PostID] = v.Value
	}

	var cv []models.PostCommentVote
	if err := s.DB.Where("user_id = ?", userID).Find(&cv).Error; err != nil {
		return nil, nil, err
	}
	for _, v := range cv {
		commentVotes[v.CommentID] = v.Value
	}
	return postVotes, commentVotes, nil
}

// nestComments flattens arbitrary reply depth into a single visible level.
// Comments arrive ordered by creation time, so a parent always precedes its
// replies.
func nestComments(flat []models.PostComment) []models.PostComment {
	topAncestor := make(map[uint]int) // comment id -> index in result
	var top []models.PostComment

	for _, c := range flat {
		if c.ParentCommentID == nil {
			top = append(top, c)
			topAncestor[c.ID] = len(top) - 1
			continue
		}
		idx, ok := topAncestor[*c.ParentCommentID]
		if !ok {
			// Orphaned reply (parent filtered out); show it top-level.
			top = append(top, c)
			topAncestor[c.ID] = len(top) - 1
			continue
		}
		top[idx].Replies = append(top[idx].Replies, c)
		topAncestor[c.ID] = idx
	}
	return top
}
