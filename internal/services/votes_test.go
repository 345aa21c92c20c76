package services

import (
	"testing"

	"github.com/ifradhos55/Markain/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPostVoteLifecycle(t *testing.T) {
	gdb := newTestDB(t)
	author := createUser(t, gdb, "author", "employee")
	voter := createUser(t, gdb, "voter", "employee")
	post := createPost(t, gdb, author, "hello team")

	svc := NewVoteService(gdb, NewNotifier(gdb), nopBroadcast())

	// Fresh upvote on top of the author's self-upvote.
	res, err := svc.ApplyPostVote(voter, post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 1, res.UserVote)

	// Same vote again toggles off.
	res, err = svc.ApplyPostVote(voter, post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 0, res.UserVote)

	var count int64
	gdb.Model(&models.PostVote{}).Where("post_id = ? AND user_id = ?", post.ID, voter.ID).Count(&count)
	assert.EqualValues(t, 0, count, "toggled-off vote row should be gone")

	// Downvote, then switch to upvote: score moves by 2, still one row.
	res, err = svc.ApplyPostVote(voter, post.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)

	res, err = svc.ApplyPostVote(voter, post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 1, res.UserVote)

	gdb.Model(&models.PostVote{}).Where("post_id = ? AND user_id = ?", post.ID, voter.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var fresh models.Post
	require.NoError(t, gdb.First(&fresh, post.ID).Error)
	assert.Equal(t, 2, fresh.UpvoteCount)
	assert.Equal(t, 0, fresh.DownvoteCount)
	assert.Equal(t, res.Score, fresh.Score(), "returned score must match stored counters")
}

func TestApplyPostVoteRejectsBadValue(t *testing.T) {
	gdb := newTestDB(t)
	author := createUser(t, gdb, "author", "employee")
	post := createPost(t, gdb, author, "hello")

	svc := NewVoteService(gdb, NewNotifier(gdb), nopBroadcast())

	for _, v := range []int{0, 2, -2, 5} {
		_, err := svc.ApplyPostVote(author, post.ID, v)
		assert.ErrorIs(t, err, ErrValidation, "value %d", v)
	}
}

func TestApplyPostVoteMissingPost(t *testing.T) {
	gdb := newTestDB(t)
	voter := createUser(t, gdb, "voter", "employee")

	svc := NewVoteService(gdb, NewNotifier(gdb), nopBroadcast())
	_, err := svc.ApplyPostVote(voter, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpvoteNotificationRules(t *testing.T) {
	gdb := newTestDB(t)
	author := createUser(t, gdb, "author", "employee")
	voter := createUser(t, gdb, "voter", "employee")
	post := createPost(t, gdb, author, "hello")

	svc := NewVoteService(gdb, NewNotifier(gdb), nopBroadcast())

	// A stranger's fresh upvote notifies the author once.
	_, err := svc.ApplyPostVote(voter, post.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, notificationCount(t, gdb, author.ID, models.NotificationTitleUpvote))

	// Toggle off and re-upvote inside the dedup window: still one notification.
	_, err = svc.ApplyPostVote(voter, post.ID, 1)
	require.NoError(t, err)
	_, err = svc.ApplyPostVote(voter, post.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, notificationCount(t, gdb, author.ID, models.NotificationTitleUpvote))

	// A downvote never notifies.
	downvoter := createUser(t, gdb, "downvoter", "employee")
	_, err = svc.ApplyPostVote(downvoter, post.ID, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, notificationCount(t, gdb, author.ID, models.NotificationTitleUpvote))
}

func TestSelfUpvoteDoesNotNotify(t *testing.T) {
	gdb := newTestDB(t)
	author := createUser(t, gdb, "author", "employee")
	post := createPost(t, gdb, author, "hello")

	svc := NewVoteService(gdb, NewNotifier(gdb), nopBroadcast())

	// Toggle the self-upvote off and back on.
	_, err := svc.ApplyPostVote(author, post.ID, 1)
	require.NoError(t, err)
	_, err = svc.ApplyPostVote(author, post.ID, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 0, notificationCount(t, gdb, author.ID, models.NotificationTitleUpvote))
}

func TestApplyCommentVoteSwitch(t *testing.T) {
	gdb := newTestDB(t)
	author := createUser(t, gdb, "author", "employee")
	voter := createUser(t, gdb, "voter", "employee")
	post := createPost(t, gdb, author, "hello")

	comments := NewCommentService(gdb, NewNotifier(gdb), nopBroadcast())
	comment, err := comments.Add(author, post.ID, "first", nil)
	require.NoError(t, err)

	svc := NewVoteService(gdb, NewNotifier(gdb), nopBroadcast())

	res, err := svc.ApplyCommentVote(voter, comment.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Score)

	res, err = svc.ApplyCommentVote(voter, comment.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 1, res.UserVote)

	var fresh models.PostComment
	require.NoError(t, gdb.First(&fresh, comment.ID).Error)
	assert.Equal(t, 1, fresh.UpvoteCount)
	assert.Equal(t, 0, fresh.DownvoteCount)

	// Comment upvotes never notify.
	assert.EqualValues(t, 0, notificationCount(t, gdb, author.ID, models.NotificationTitleUpvote))
}
