package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ifradhos55/Markain/internal/models"
	"github.com/ifradhos55/Markain/internal/realtime"

	"gorm.io/gorm"
)

// GroupService is the membership and ownership state machine for chat groups.
// The invariants it maintains:
//   - a group always has exactly one owner, and the owner is always a member
//   - the single default group can never be left or deleted
//   - a group whose last member leaves is removed entirely, never orphaned
type GroupService struct {
	DB        *gorm.DB
	Notifier  *Notifier
	Broadcast realtime.Broadcaster
}

func NewGroupService(db *gorm.DB, notifier *Notifier, b realtime.Broadcaster) *GroupService {
	return &GroupService{DB: db, Notifier: notifier, Broadcast: b}
}

// Create makes the creator both owner and first member.
func (s *GroupService) Create(creator *models.User, name, description, photoURL string) (models.ChatGroup, error) {
	if strings.TrimSpace(name) == "" {
		return models.ChatGroup{}, fmt.Errorf("%w: group name is empty", ErrValidation)
	}

	group := models.ChatGroup{
		Name:             name,
		Description:      description,
		CreatedByID:      creator.ID,
		OwnerID:          creator.ID,
		IsDefault:        false,
		GroupPhotoURL:    photoURL,
		LastActivityDate: time.Now().UTC(),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Create(&models.ChatGroupMember{
			ChatGroupID: group.ID,
			UserID:      creator.ID,
			JoinedDate:  time.Now().UTC(),
			ViewMode:    "List",
		}).Error
	})
	if err != nil {
		return models.ChatGroup{}, err
	}
	return group, nil
}

// Get loads a group with members and messages. Non-members are rejected
// unless they are admins. The default group is the exception: a missing
// membership is repaired by auto-joining the viewer.
func (s *GroupService) Get(actor *models.User, groupID uint) (models.ChatGroup, error) {
	var group models.ChatGroup
	if err := s.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ChatGroup{}, ErrNotFound
		}
		return models.ChatGroup{}, err
	}

	var membership models.ChatGroupMember
	err := s.DB.Where("chat_group_id = ? AND user_id = ?", groupID, actor.ID).First(&membership).Error
	isMember := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ChatGroup{}, err
	}

	if !isMember && !actor.IsAdmin() {
		if !group.IsDefault {
			return models.ChatGroup{}, ErrForbidden
		}
		// Everyone belongs to the default group; repair the missing row.
		if err := s.DB.Create(&models.ChatGroupMember{
			ChatGroupID: groupID,
			UserID:      actor.ID,
			JoinedDate:  time.Now().UTC(),
		}).Error; err != nil {
			return models.ChatGroup{}, err
		}
	}

	if err := s.DB.Preload("User").
		Where("chat_group_id = ?", groupID).
		Order("joined_date ASC").
		Find(&group.Members).Error; err != nil {
		return models.ChatGroup{}, err
	}
	if err := s.DB.Preload("Sender").
		Where("group_id = ?", groupID).
		Order("sent_date ASC").
		Find(&group.Messages).Error; err != nil {
		return models.ChatGroup{}, err
	}
	return group, nil
}

// canManage applies the management rule: the default group only bends to
// admins; user-created groups to their owner or an admin.
func canManage(actor *models.User, group *models.ChatGroup) bool {
	if group.IsDefault {
		return actor.IsAdmin()
	}
	return group.OwnerID == actor.ID || actor.IsAdmin()
}

// AddMember adds the named user. No-op when already a member. The added user
// gets a notification pointing at the group.
func (s *GroupService) AddMember(actor *models.User, groupID uint, username string) error {
	var group models.ChatGroup
	if err := s.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !canManage(actor, &group) {
		return ErrForbidden
	}

	var target models.User
	if err := s.DB.Where("username = ?", username).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	s.DB.Model(&models.ChatGroupMember{}).
		Where("chat_group_id = ? AND user_id = ?", groupID, target.ID).
		Count(&count)
	if count > 0 {
		return nil // Idempotent
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.ChatGroupMember{
			ChatGroupID: groupID,
			UserID:      target.ID,
			JoinedDate:  time.Now().UTC(),
			ViewMode:    "List",
		}).Error; err != nil {
			return err
		}
		return s.Notifier.Notify(tx, target.ID, actor.ID, "Added to Group",
			fmt.Sprintf("%s added you to '%s'", actor.Username, group.Name),
			fmt.Sprintf("/collaboration/groups/%d", groupID))
	})
}

// RemoveMember removes a member, with the same authorization rule as
// AddMember. Removing the owner is rejected outright: the owner can only exit
// through the leave path, which is what keeps the owner-is-a-member invariant
// intact.
func (s *GroupService) RemoveMember(actor *models.User, groupID, memberID uint) error {
	var group models.ChatGroup
	if err := s.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !canManage(actor, &group) {
		return ErrForbidden
	}
	if memberID == group.OwnerID {
		return fmt.Errorf("%w: the group owner cannot be removed", ErrForbidden)
	}

	return s.DB.Where("chat_group_id = ? AND user_id = ?", groupID, memberID).
		Delete(&models.ChatGroupMember{}).Error
}

// Leave removes the caller's own membership. Leaving the default group is
// rejected unconditionally. When the owner leaves, ownership transfers to the
// earliest-joined remaining member; when nobody remains, the group and its
// messages are deleted rather than left ownerless.
func (s *GroupService) Leave(actor *models.User, groupID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var group models.ChatGroup
		if err := tx.First(&group, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if group.IsDefault {
			return ErrDefaultGroup
		}

		res := tx.Where("chat_group_id = ? AND user_id = ?", groupID, actor.ID).
			Delete(&models.ChatGroupMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // Already not a member
		}

		if group.OwnerID != actor.ID {
			return nil
		}

		var remaining []models.ChatGroupMember
		if err := tx.Where("chat_group_id = ?", groupID).
			Order("joined_date ASC").
			Find(&remaining).Error; err != nil {
			return err
		}

		newOwnerID, ok := TransferOwnership(&group, remaining)
		if !ok {
			return deleteGroupRows(tx, groupID)
		}
		return tx.Model(&models.ChatGroup{}).Where("id = ?", groupID).
			Update("owner_id", newOwnerID).Error
	})
}

// TransferOwnership picks the next owner from the membership snapshot after
// the current owner departed: the earliest-joined remaining member, member id
// breaking exact ties. Pure so the tie-break rule is testable on its own.
// ok is false when nobody remains.
func TransferOwnership(group *models.ChatGroup, remaining []models.ChatGroupMember) (newOwnerID uint, ok bool) {
	candidates := make([]models.ChatGroupMember, 0, len(remaining))
	for _, m := range remaining {
		if m.UserID != group.OwnerID {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].JoinedDate.Equal(candidates[j].JoinedDate) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].JoinedDate.Before(candidates[j].JoinedDate)
	})
	return candidates[0].UserID, true
}

// Delete removes a group entirely. The default group can never be deleted;
// any other group requires an administrator; ownership alone is not enough.
func (s *GroupService) Delete(actor *models.User, groupID uint) error {
	var group models.ChatGroup
	if err := s.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if group.IsDefault {
		return ErrDefaultGroup
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return deleteGroupRows(tx, groupID)
	})
}

// deleteGroupRows removes messages and memberships before the group row, so
// no orphans survive.
func deleteGroupRows(tx *gorm.DB, groupID uint) error {
	if err := tx.Where("group_id = ?", groupID).Delete(&models.ChatMessage{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chat_group_id = ?", groupID).Delete(&models.ChatGroupMember{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.ChatGroup{}, groupID).Error
}

// UpdatePhoto changes the group photo. Owner or admin.
func (s *GroupService) UpdatePhoto(actor *models.User, groupID uint, photoURL string) error {
	var group models.ChatGroup
	if err := s.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if group.OwnerID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.DB.Model(&group).Update("group_photo_url", photoURL).Error
}

// SetViewMode stores the caller's own list/grid preference for the group.
func (s *GroupService) SetViewMode(actor *models.User, groupID uint, mode string) error {
	if mode != "List" && mode != "Grid" {
		return fmt.Errorf("%w: view mode must be List or Grid", ErrValidation)
	}
	return s.DB.Model(&models.ChatGroupMember{}).
		Where("chat_group_id = ? AND user_id = ?", groupID, actor.ID).
		Update("view_mode", mode).Error
}

// ListForUser returns the groups the user belongs to, most recently active
// first.
func (s *GroupService) ListForUser(userID uint) ([]models.ChatGroup, error) {
	var groupIDs []uint
	if err := s.DB.Model(&models.ChatGroupMember{}).
		Where("user_id = ?", userID).
		Pluck("chat_group_id", &groupIDs).Error; err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var groups []models.ChatGroup
	if err := s.DB.Where("id IN ?", groupIDs).
		Order("last_activity_date DESC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
