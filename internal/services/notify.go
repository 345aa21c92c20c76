package services

import (
	"time"

	"github.com/ifradhos55/Markain/internal/models"

	"gorm.io/gorm"
)

// upvoteDedupWindow suppresses repeated "New Upvote" notifications from the
// same voter on the same subject, so rapid re-votes don't spam the owner.
const upvoteDedupWindow = 10 * time.Minute

// Notifier writes notification rows. Read/delete of notifications is handled
// by the notification handler, not here.
type Notifier struct {
	DB *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{DB: db}
}

// Notify appends a notification row. tx may be a transaction handle when the
// notification must commit with the triggering write.
func (n *Notifier) Notify(tx *gorm.DB, recipientID, senderID uint, title, message, actionURL string) error {
	if tx == nil {
		tx = n.DB
	}
	return tx.Create(&models.Notification{
		RecipientID: &recipientID,
		SenderID:    &senderID,
		Title:       title,
		Message:     message,
		ActionURL:   actionURL,
		SentDate:    time.Now().UTC(),
	}).Error
}

// NotifyUpvoteOnce emits a "New Upvote" notification unless an identical one
// (same recipient, sender and deep link) was sent within the dedup window.
// The read-then-write is best effort: a rare race can emit two notifications,
// which is acceptable.
func (n *Notifier) NotifyUpvoteOnce(tx *gorm.DB, recipientID, senderID uint, message, actionURL string) error {
	if tx == nil {
		tx = n.DB
	}
	var count int64
	err := tx.Model(&models.Notification{}).
		Where("recipient_id = ? AND sender_id = ? AND title = ? AND action_url = ? AND sent_date > ?",
			recipientID, senderID, models.NotificationTitleUpvote, actionURL,
			time.Now().UTC().Add(-upvoteDedupWindow)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return n.Notify(tx, recipientID, senderID, models.NotificationTitleUpvote, message, actionURL)
}
