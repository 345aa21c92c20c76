package models

import (
	"time"
)

type PostComment struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	PostID          uint         `gorm:"not null;index" json:"post_id"`
	Post            Post         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID          uint         `gorm:"not null;index" json:"user_id"`
	User            User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content         string       `gorm:"size:500;not null" json:"content"`
	ParentCommentID *uint        `gorm:"index" json:"parent_comment_id"` // Nullable for top-level comments
	ParentComment   *PostComment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UpvoteCount     int          `gorm:"default:0;not null" json:"upvote_count"`
	DownvoteCount   int          `gorm:"default:0;not null" json:"downvote_count"`
	CreatedAt       time.Time    `json:"created_at"`

	Replies []PostComment `gorm:"-" json:"replies,omitempty"`
}

func (c *PostComment) Score() int {
	return c.UpvoteCount - c.DownvoteCount
}
