package services

import (
	"log"

	"gorm.io/gorm"
)

// ReconcileVoteCounts recomputes the cached vote counters from the vote rows.
// The hot path maintains the counters incrementally; this is the rarely-run
// drift correction, invoked once at startup.
func ReconcileVoteCounts(db *gorm.DB) error {
	if err := db.Exec(`
		UPDATE posts SET
			upvote_count = (SELECT COUNT(*) FROM post_votes WHERE post_votes.post_id = posts.id AND post_votes.value = 1),
			downvote_count = (SELECT COUNT(*) FROM post_votes WHERE post_votes.post_id = posts.id AND post_votes.value = -1)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		UPDATE post_comments SET
			upvote_count = (SELECT COUNT(*) FROM post_comment_votes WHERE post_comment_votes.comment_id = post_comments.id AND post_comment_votes.value = 1),
			downvote_count = (SELECT COUNT(*) FROM post_comment_votes WHERE post_comment_votes.comment_id = post_comments.id AND post_comment_votes.value = -1)
	`).Error; err != nil {
		return err
	}

	log.Println("Vote counter reconciliation completed")
	return nil
}
