package models

import (
	"time"
)

// PrivateChat holds one row per unordered user pair.
type PrivateChat struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	User1ID          uint      `gorm:"not null;index" json:"user1_id"`
	User1            User      `gorm:"foreignKey:User1ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user1"`
	User2ID          uint      `gorm:"not null;index" json:"user2_id"`
	User2            User      `gorm:"foreignKey:User2ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user2"`
	LastActivityDate time.Time `gorm:"index" json:"last_activity_date"`
	CreatedAt        time.Time `json:"created_at"`

	Messages []PrivateMessage `gorm:"-" json:"messages,omitempty"`
}

type PrivateMessage struct {
	ID                     uint        `gorm:"primaryKey" json:"id"`
	PrivateChatID          uint        `gorm:"not null;index" json:"private_chat_id"`
	PrivateChat            PrivateChat `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SenderID               uint        `gorm:"not null" json:"sender_id"`
	Sender                 User        `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
	Message                string      `gorm:"type:text" json:"message"`
	AttachmentURL          string      `json:"attachment_url"`
	AttachmentOriginalName string      `json:"attachment_original_name"`
	AttachmentContentType  string      `json:"attachment_content_type"`
	AttachmentSize         int64       `gorm:"default:0" json:"attachment_size"`
	IsDeleted              bool        `gorm:"default:false" json:"is_deleted"`
	SentDate               time.Time   `gorm:"index" json:"sent_date"`
	LastEditedDate         *time.Time  `json:"last_edited_date"`
}
