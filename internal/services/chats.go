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

// Attachment carries the stored-file metadata for a chat message upload.
type Attachment struct {
	URL          string
	OriginalName string
	ContentType  string
	Size         int64
}

// ChatService posts, edits and deletes messages in group and private chats,
// keeps LastActivityDate current for chat-list ordering, and fans out
// notifications to the other participants.
type ChatService struct {
	DB        *gorm.DB
	Notifier  *Notifier
	Broadcast realtime.Broadcaster
}

func NewChatService(db *gorm.DB, notifier *Notifier, b realtime.Broadcaster) *ChatService {
	return &ChatService{DB: db, Notifier: notifier, Broadcast: b}
}

// truncate shortens a message for notification bodies.
func truncate(message string) string {
	if len(message) > 50 {
		return message[:47] + "..."
	}
	if strings.TrimSpace(message) == "" {
		return "Sent an attachment"
	}
	return message
}

// PostGroupMessage stores a message in a group chat. Members only (admins
// excepted). Other members are notified; the chatUpdate broadcast lets
// clients reorder their chat lists.
func (s *ChatService) PostGroupMessage(sender *models.User, groupID uint, message string, att *Attachment) (models.ChatMessage, error) {
	if strings.TrimSpace(message) == "" && att == nil {
		return models.ChatMessage{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}

	var group models.ChatGroup
	if err := s.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ChatMessage{}, ErrNotFound
		}
		return models.ChatMessage{}, err
	}

	var count int64
	s.DB.Model(&models.ChatGroupMember{}).
		Where("chat_group_id = ? AND user_id = ?", groupID, sender.ID).
		Count(&count)
	if count == 0 && !sender.IsAdmin() {
		return models.ChatMessage{}, ErrForbidden
	}

	now := time.Now().UTC()
	msg := models.ChatMessage{
		GroupID:  groupID,
		SenderID: sender.ID,
		Message:  message,
		SentDate: now,
	}
	if att != nil {
		msg.AttachmentURL = att.URL
		msg.AttachmentOriginalName = att.OriginalName
		msg.AttachmentContentType = att.ContentType
		msg.AttachmentSize = att.Size
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ChatGroup{}).Where("id = ?", groupID).
			Update("last_activity_date", now).Error; err != nil {
			return err
		}

		var others []uint
		if err := tx.Model(&models.ChatGroupMember{}).
			Where("chat_group_id = ? AND user_id <> ?", groupID, sender.ID).
			Pluck("user_id", &others).Error; err != nil {
			return err
		}
		for _, memberID := range others {
			if err := s.Notifier.Notify(tx, memberID, sender.ID,
				fmt.Sprintf("New Message in %s", group.Name),
				truncate(message),
				fmt.Sprintf("/collaboration/groups/%d", groupID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.ChatMessage{}, err
	}

	s.Broadcast.Publish(realtime.EventChatUpdate, realtime.ChatUpdate{
		ChatID:       groupID,
		IsPrivate:    false,
		LastActivity: now.Format(time.RFC3339),
	})
	msg.Sender = *sender
	return msg, nil
}

// EditGroupMessage rewrites a message. Sender only.
func (s *ChatService) EditGroupMessage(actor *models.User, messageID uint, newContent string) error {
	var msg models.ChatMessage
	if err := s.DB.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if msg.SenderID != actor.ID {
		return ErrForbidden
	}
	now := time.Now().UTC()
	return s.DB.Model(&msg).Updates(map[string]interface{}{
		"message":          newContent,
		"last_edited_date": &now,
	}).Error
}

// DeleteGroupMessage soft-deletes: the row stays for thread continuity but
// content and attachment are blanked. Sender or admin.
func (s *ChatService) DeleteGroupMessage(actor *models.User, messageID uint) error {
	var msg models.ChatMessage
	if err := s.DB.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if msg.SenderID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.DB.Model(&msg).Updates(map[string]interface{}{
		"is_deleted":     true,
		"message":        "",
		"attachment_url": "",
	}).Error
}

// StartPrivateChat finds or creates the one chat row for the user pair.
func (s *ChatService) StartPrivateChat(actor *models.User, targetUserID uint) (models.PrivateChat, error) {
	if targetUserID == actor.ID {
		return models.PrivateChat{}, fmt.Errorf("%w: cannot chat with yourself", ErrValidation)
	}
	var target models.User
	if err := s.DB.First(&target, targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PrivateChat{}, ErrNotFound
		}
		return models.PrivateChat{}, err
	}

	var chat models.PrivateChat
	err := s.DB.Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
		actor.ID, targetUserID, targetUserID, actor.ID).First(&chat).Error
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PrivateChat{}, err
	}

	chat = models.PrivateChat{
		User1ID:          actor.ID,
		User2ID:          targetUserID,
		LastActivityDate: time.Now().UTC(),
	}
	if err := s.DB.Create(&chat).Error; err != nil {
		return models.PrivateChat{}, err
	}
	return chat, nil
}

// GetPrivateChat loads a chat with its messages. Participants and admins only.
func (s *ChatService) GetPrivateChat(actor *models.User, chatID uint) (models.PrivateChat, error) {
	var chat models.PrivateChat
	if err := s.DB.Preload("User1").Preload("User2").First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PrivateChat{}, ErrNotFound
		}
		return models.PrivateChat{}, err
	}
	if chat.User1ID != actor.ID && chat.User2ID != actor.ID && !actor.IsAdmin() {
		return models.PrivateChat{}, ErrForbidden
	}
	if err := s.DB.Preload("Sender").
		Where("private_chat_id = ?", chatID).
		Order("sent_date ASC").
		Find(&chat.Messages).Error; err != nil {
		return models.PrivateChat{}, err
	}
	return chat, nil
}

// PostPrivateMessage stores a message and notifies the peer.
func (s *ChatService) PostPrivateMessage(sender *models.User, chatID uint, message string, att *Attachment) (models.PrivateMessage, error) {
	if strings.TrimSpace(message) == "" && att == nil {
		return models.PrivateMessage{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}

	var chat models.PrivateChat
	if err := s.DB.First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PrivateMessage{}, ErrNotFound
		}
		return models.PrivateMessage{}, err
	}
	if chat.User1ID != sender.ID && chat.User2ID != sender.ID && !sender.IsAdmin() {
		return models.PrivateMessage{}, ErrForbidden
	}

	now := time.Now().UTC()
	msg := models.PrivateMessage{
		PrivateChatID: chatID,
		SenderID:      sender.ID,
		Message:       message,
		SentDate:      now,
	}
	if att != nil {
		msg.AttachmentURL = att.URL
		msg.AttachmentOriginalName = att.OriginalName
		msg.AttachmentContentType = att.ContentType
		msg.AttachmentSize = att.Size
	}

	recipientID := chat.User1ID
	if chat.User1ID == sender.ID {
		recipientID = chat.User2ID
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PrivateChat{}).Where("id = ?", chatID).
			Update("last_activity_date", now).Error; err != nil {
			return err
		}
		return s.Notifier.Notify(tx, recipientID, sender.ID,
			fmt.Sprintf("Private Message from %s", sender.Username),
			truncate(message),
			fmt.Sprintf("/collaboration/private/%d", chatID))
	})
	if err != nil {
		return models.PrivateMessage{}, err
	}

	s.Broadcast.Publish(realtime.EventChatUpdate, realtime.ChatUpdate{
		ChatID:       chatID,
		IsPrivate:    true,
		LastActivity: now.Format(time.RFC3339),
	})
	msg.Sender = *sender
	return msg, nil
}

// EditPrivateMessage rewrites a private message. Sender only.
func (s *ChatService) EditPrivateMessage(actor *models.User, messageID uint, newContent string) error {
	var msg models.PrivateMessage
	if err := s.DB.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if msg.SenderID != actor.ID {
		return ErrForbidden
	}
	now := time.Now().UTC()
	return s.DB.Model(&msg).Updates(map[string]interface{}{
		"message":          newContent,
		"last_edited_date": &now,
	}).Error
}

// DeletePrivateMessage soft-deletes. Sender or admin.
func (s *ChatService) DeletePrivateMessage(actor *models.User, messageID uint) error {
	var msg models.PrivateMessage
	if err := s.DB.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if msg.SenderID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.DB.Model(&msg).Updates(map[string]interface{}{
		"is_deleted":     true,
		"message":        "",
		"attachment_url": "",
	}).Error
}

// ListPrivateChats returns the user's private chats, most recently active
// first.
func (s *ChatService) ListPrivateChats(userID uint) ([]models.PrivateChat, error) {
	var chats []models.PrivateChat
	if err := s.DB.Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("last_activity_date DESC").
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}
