package services

import (
	"testing"
	"time"

	"github.com/ifradhos55/Markain/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDefaultGroup(t *testing.T, gdb *gorm.DB, owner *models.User) models.ChatGroup {
	t.Helper()

	group := models.ChatGroup{
		Name:             "Main Organization Chat",
		CreatedByID:      owner.ID,
		OwnerID:          owner.ID,
		IsDefault:        true,
		LastActivityDate: time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&group).Error)
	require.NoError(t, gdb.Create(&models.ChatGroupMember{
		ChatGroupID: group.ID,
		UserID:      owner.ID,
		JoinedDate:  time.Now().UTC(),
	}).Error)
	return group
}

func TestCreateGroupOwnerIsMember(t *testing.T) {
	gdb := newTestDB(t)
	creator := createUser(t, gdb, "creator", "employee")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(creator, "Design", "pixels", "")
	require.NoError(t, err)
	assert.Equal(t, creator.ID, group.OwnerID)

	var count int64
	gdb.Model(&models.ChatGroupMember{}).
		Where("chat_group_id = ? AND user_id = ?", group.ID, creator.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)

	_, err = svc.Create(creator, "   ", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddMemberIdempotentAndAuthorized(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	member := createUser(t, gdb, "member", "employee")
	stranger := createUser(t, gdb, "stranger", "employee")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AddMember(stranger, group.ID, member.Username), ErrForbidden)

	require.NoError(t, svc.AddMember(owner, group.ID, member.Username))
	require.NoError(t, svc.AddMember(owner, group.ID, member.Username))

	var count int64
	gdb.Model(&models.ChatGroupMember{}).
		Where("chat_group_id = ? AND user_id = ?", group.ID, member.ID).
		Count(&count)
	assert.EqualValues(t, 1, count, "adding twice must not duplicate membership")

	assert.EqualValues(t, 1, notificationCount(t, gdb, member.ID, "Added to Group"))

	assert.ErrorIs(t, svc.AddMember(owner, group.ID, "nobody"), ErrNotFound)
}

func TestRemoveOwnerRejected(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	member := createUser(t, gdb, "member", "employee")
	admin := createUser(t, gdb, "boss", "admin")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(owner, group.ID, member.Username))

	// Even an admin cannot remove the owner.
	assert.ErrorIs(t, svc.RemoveMember(admin, group.ID, owner.ID), ErrForbidden)
	assert.ErrorIs(t, svc.RemoveMember(owner, group.ID, owner.ID), ErrForbidden)

	require.NoError(t, svc.RemoveMember(owner, group.ID, member.ID))

	var count int64
	gdb.Model(&models.ChatGroupMember{}).Where("chat_group_id = ?", group.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLeaveTransfersOwnershipToEarliestJoined(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	second := createUser(t, gdb, "second", "employee")
	third := createUser(t, gdb, "third", "employee")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(owner, group.ID, second.Username))
	require.NoError(t, svc.AddMember(owner, group.ID, third.Username))

	require.NoError(t, svc.Leave(owner, group.ID))

	var fresh models.ChatGroup
	require.NoError(t, gdb.First(&fresh, group.ID).Error)
	assert.Equal(t, second.ID, fresh.OwnerID, "earliest-joined member inherits the group")

	var count int64
	gdb.Model(&models.ChatGroupMember{}).Where("chat_group_id = ?", group.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestLeaveLastMemberDeletesGroup(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	chats := NewChatService(gdb, NewNotifier(gdb), nopBroadcast())

	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)
	_, err = chats.PostGroupMessage(owner, group.ID, "only message", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(owner, group.ID))

	var count int64
	gdb.Model(&models.ChatGroup{}).Where("id = ?", group.ID).Count(&count)
	assert.EqualValues(t, 0, count, "empty group must be deleted")
	gdb.Model(&models.ChatGroupMember{}).Where("chat_group_id = ?", group.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	gdb.Model(&models.ChatMessage{}).Where("group_id = ?", group.ID).Count(&count)
	assert.EqualValues(t, 0, count, "messages must not be orphaned")
}

func TestLeaveIsNoOpForNonMember(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	outsider := createUser(t, gdb, "outsider", "employee")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Leave(outsider, group.ID))

	var fresh models.ChatGroup
	require.NoError(t, gdb.First(&fresh, group.ID).Error)
	assert.Equal(t, owner.ID, fresh.OwnerID)
}

func TestDefaultGroupProtections(t *testing.T) {
	gdb := newTestDB(t)
	admin := createUser(t, gdb, "boss", "admin")
	employee := createUser(t, gdb, "worker", "employee")
	group := seedDefaultGroup(t, gdb, admin)

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())

	assert.ErrorIs(t, svc.Leave(admin, group.ID), ErrDefaultGroup)
	assert.ErrorIs(t, svc.Leave(employee, group.ID), ErrDefaultGroup)
	assert.ErrorIs(t, svc.Delete(admin, group.ID), ErrDefaultGroup)

	// Only admins manage the default group's roster.
	assert.ErrorIs(t, svc.AddMember(employee, group.ID, employee.Username), ErrForbidden)
	require.NoError(t, svc.AddMember(admin, group.ID, employee.Username))
}

func TestDefaultGroupAutoJoinOnView(t *testing.T) {
	gdb := newTestDB(t)
	admin := createUser(t, gdb, "boss", "admin")
	employee := createUser(t, gdb, "worker", "employee")
	group := seedDefaultGroup(t, gdb, admin)

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())

	loaded, err := svc.Get(employee, group.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Members, 2, "viewing the default group joins the viewer")
}

func TestGetGroupRejectsNonMembers(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	outsider := createUser(t, gdb, "outsider", "employee")
	admin := createUser(t, gdb, "boss", "admin")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)

	_, err = svc.Get(outsider, group.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(admin, group.ID)
	assert.NoError(t, err, "admins may inspect any group")
}

func TestDeleteGroupAdminOnly(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")
	admin := createUser(t, gdb, "boss", "admin")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(owner, group.ID), ErrForbidden, "ownership alone is not enough")
	require.NoError(t, svc.Delete(admin, group.ID))

	var count int64
	gdb.Model(&models.ChatGroup{}).Where("id = ?", group.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestTransferOwnershipTieBreak(t *testing.T) {
	now := time.Now().UTC()
	group := &models.ChatGroup{OwnerID: 1}

	_, ok := TransferOwnership(group, nil)
	assert.False(t, ok)

	// The departing owner is never a candidate even if the snapshot still
	// contains their row.
	_, ok = TransferOwnership(group, []models.ChatGroupMember{
		{ID: 1, UserID: 1, JoinedDate: now},
	})
	assert.False(t, ok)

	newOwner, ok := TransferOwnership(group, []models.ChatGroupMember{
		{ID: 3, UserID: 30, JoinedDate: now.Add(time.Hour)},
		{ID: 2, UserID: 20, JoinedDate: now},
		{ID: 4, UserID: 40, JoinedDate: now},
	})
	require.True(t, ok)
	assert.EqualValues(t, 20, newOwner, "equal join times fall back to row order")
}

func TestSetViewMode(t *testing.T) {
	gdb := newTestDB(t)
	owner := createUser(t, gdb, "owner", "employee")

	svc := NewGroupService(gdb, NewNotifier(gdb), nopBroadcast())
	group, err := svc.Create(owner, "Design", "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetViewMode(owner, group.ID, "Mosaic"), ErrValidation)
	require.NoError(t, svc.SetViewMode(owner, group.ID, "Grid"))

	var member models.ChatGroupMember
	require.NoError(t, gdb.Where("chat_group_id = ? AND user_id = ?", group.ID, owner.ID).
		First(&member).Error)
	assert.Equal(t, "Grid", member.ViewMode)
}
