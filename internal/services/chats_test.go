package services

import (
	"strings"
	"testing"

	"github.com/ifradhos55/Markain/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostGroupMessage(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	member := createUser(t, gdb, "member", "employee")
	outsider := createUser(t, gdb, "outsider", "employee")

	groups := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	chats := NewChatService(gdb, NewNotifier(gdb), nopBroadcast())

	group, err := groups.Create(owner, "Design", "", "")
	require.NoError(t, err)
	require.NoError(t, groups.AddMember(owner, group.ID, member.Username))

	before := group.LastActivityDate

	_, err = chats.PostGroupMessage(outsider, group.ID, "let me in", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = chats.PostGroupMessage(owner, group.ID, "   ", nil)
	assert.ErrorIs(t, err, ErrValidation)

	msg, err := chats.PostGroupMessage(owner, group.ID, "hello all", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello all", msg.Message)

	// The other member is notified, the sender is not.
	assert.EqualValues(t, 1, notificationCount(t, gdb, member.ID, "New Message in Design"))
	assert.EqualValues(t, 0, notificationCount(t, gdb, owner.ID, "New Message in Design"))

	var fresh models.ChatGroup
	require.NoError(t, gdb.First(&fresh, group.ID).Error)
	assert.True(t, fresh.LastActivityDate.After(before) || fresh.LastActivityDate.Equal(before))
}

func TestGroupMessageNotificationTruncation(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	member := createUser(t, gdb, "member", "employee")

	groups := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	chats := NewChatService(gdb, NewNotifier(gdb), nopBroadcast())

	group, err := groups.Create(owner, "Design", "", "")
	require.NoError(t, err)
	require.NoError(t, groups.AddMember(owner, group.ID, member.Username))

	long := strings.Repeat("a", 120)
	_, err = chats.PostGroupMessage(owner, group.ID, long, nil)
	require.NoError(t, err)

	var n models.Notification
	require.NoError(t, gdb.Where("recipient_id = ?", member.ID).First(&n).Error)
	assert.Len(t, n.Message, 50)
	assert.True(t, strings.HasSuffix(n.Message, "..."))
}

func TestEditAndDeleteGroupMessage(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	member := createUser(t, gdb, "member", "employee")
	admin := createUser(t, gdb, "boss", "admin")

	groups := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	chats := NewChatService(gdb, NewNotifier(gdb), nopBroadcast())

	group, err := groups.Create(owner, "Design", "", "")
	require.NoError(t, err)
	require.NoError(t, groups.AddMember(owner, group.ID, member.Username))

	msg, err := chats.PostGroupMessage(owner, group.ID, "typo", nil)
	require.NoError(t, err)

	// Edit is sender-only, even for admins.
	assert.ErrorIs(t, chats.EditGroupMessage(member, msg.ID, "x"), ErrForbidden)
	assert.ErrorIs(t, chats.EditGroupMessage(admin, msg.ID, "x"), ErrForbidden)
	require.NoError(t, chats.EditGroupMessage(owner, msg.ID, "fixed"))

	var fresh models.ChatMessage
	require.NoError(t, gdb.First(&fresh, msg.ID).Error)
	assert.Equal(t, "fixed", fresh.Message)
	assert.NotNil(t, fresh.LastEditedDate)

	// Delete is sender or admin, and soft: the row survives blanked.
	assert.ErrorIs(t, chats.DeleteGroupMessage(member, msg.ID), ErrForbidden)
	require.NoError(t, chats.DeleteGroupMessage(admin, msg.ID))

	require.NoError(t, gdb.First(&fresh, msg.ID).Error)
	assert.True(t, fresh.IsDeleted)
	assert.Empty(t, fresh.Message)
}

func TestStartPrivateChatPairDedup(t *testing.T) {
	gdb := newTestDB(t)
	alice := createUser(t, gdb, "alice", "employee")
	bob := createUser(t, gdb, "bob", "employee")

	chats := NewChatService(gdb, NewNotifier(gdb), nopBroadcast())

	_, err := chats.StartPrivateChat(alice, alice.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = chats.StartPrivateChat(alice, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := chats.StartPrivateChat(alice, bob.ID)
	require.NoError(t, err)

	// Starting from either side lands on the same chat.
	same, err := chats.StartPrivateChat(bob, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, same.ID)

	var count int64
	gdb.Model(&models.PrivateChat{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestPostPrivateMessageNotifiesPeer(t *testing.T) {
	gdb := newTestDB(t)
	alice := createUser(t, gdb, "alice", "employee")
	bob := createUser(t, gdb, "bob", "employee")
	eve := createUser(t, gdb, "eve", "employee")

	chats := NewChatService(gdb, NewNotifier(gdb), nopBroadcast())
	chat, err := chats.StartPrivateChat(alice, bob.ID)
	require.NoError(t, err)

	_, err = chats.PostPrivateMessage(eve, chat.ID, "snooping", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = chats.PostPrivateMessage(alice, chat.ID, "hi bob", nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, notificationCount(t, gdb, bob.ID, "Private Message from alice"))
	assert.EqualValues(t, 0, notificationCount(t, gdb, alice.ID, "Private Message from alice"))

	loaded, err := chats.GetPrivateChat(bob, chat.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 1)

	_, err = chats.GetPrivateChat(eve, chat.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
