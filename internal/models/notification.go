package models

import (
	"time"
)

const (
	NotificationTitleUpvote  = "New Upvote"
	NotificationTitleComment = "New Comment"
	NotificationTitleReply   = "New Reply"
)

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID *uint     `gorm:"index" json:"recipient_id"` // nil = broadcast to everyone
	Recipient   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SenderID    *uint     `gorm:"index" json:"sender_id"`
	Sender      *User     `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
	Title       string    `gorm:"not null" json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	ActionURL   string    `json:"action_url"` // Deep link, e.g. /collaboration#comment-12
	IsRead      bool      `gorm:"default:false;index" json:"is_read"`
	SentDate    time.Time `gorm:"index" json:"sent_date"`
}
