package models

import (
	"time"
)

type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content       string    `gorm:"size:500" json:"content"` // Optional when an upload is attached
	ImageURL      string    `json:"image_url"`
	AttachmentURL string    `json:"attachment_url"`
	UpvoteCount   int       `gorm:"default:0;not null" json:"upvote_count"`
	DownvoteCount int       `gorm:"default:0;not null" json:"downvote_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	// Not a database column, filled on feed queries
	Comments []PostComment `gorm:"-" json:"comments,omitempty"`
}

// Score is the live score derived from the cached counters.
func (p *Post) Score() int {
	return p.UpvoteCount - p.DownvoteCount
}
