package models

import (
	"time"
)

// ChatGroup is a named chat room. OwnerID is mutable: ownership transfers to
// the earliest-joined remaining member when the owner leaves. Exactly one
// group carries IsDefault; it is seeded at bootstrap and can never be left or
// deleted.
type ChatGroup struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Description      string    `json:"description"`
	CreatedByID      uint      `gorm:"not null" json:"created_by_id"`
	CreatedBy        User      `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	OwnerID          uint      `gorm:"not null;index" json:"owner_id"`
	IsDefault        bool      `gorm:"default:false;index" json:"is_default"`
	GroupPhotoURL    string    `json:"group_photo_url"`
	LastActivityDate time.Time `gorm:"index" json:"last_activity_date"` // Chat list ordering
	CreatedAt        time.Time `json:"created_at"`

	Members  []ChatGroupMember `gorm:"-" json:"members,omitempty"`
	Messages []ChatMessage     `gorm:"-" json:"messages,omitempty"`
}

type ChatGroupMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChatGroupID uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"chat_group_id"`
	ChatGroup   ChatGroup `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	JoinedDate  time.Time `gorm:"index" json:"joined_date"` // Ownership transfer order
	ViewMode    string    `gorm:"size:10;default:'List'" json:"view_mode"` // "List" or "Grid"
}

type ChatMessage struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	GroupID                uint       `gorm:"not null;index" json:"group_id"`
	Group                  ChatGroup  `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SenderID               uint       `gorm:"not null" json:"sender_id"`
	Sender                 User       `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
	Message                string     `gorm:"type:text" json:"message"`
	AttachmentURL          string     `json:"attachment_url"`
	AttachmentOriginalName string     `json:"attachment_original_name"`
	AttachmentContentType  string     `json:"attachment_content_type"`
	AttachmentSize         int64      `gorm:"default:0" json:"attachment_size"`
	IsDeleted              bool       `gorm:"default:false" json:"is_deleted"`
	SentDate               time.Time  `gorm:"index" json:"sent_date"`
	LastEditedDate         *time.Time `json:"last_edited_date"`
}
