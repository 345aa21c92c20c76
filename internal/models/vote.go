package models

import (
	"time"
)

// PostVote holds one row per (post, user) pair. Absence of a row means the
// user is neutral on the post. The composite unique index is the final
// backstop against double voting under concurrent requests.
type PostVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user_vote" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user_vote" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
}

// PostCommentVote mirrors PostVote for comments.
type PostCommentVote struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	CommentID uint        `gorm:"not null;uniqueIndex:idx_comment_user_vote" json:"comment_id"`
	Comment   PostComment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_comment_user_vote" json:"user_id"`
	User      User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Value     int         `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time   `json:"created_at"`
}
