package services

import (
	"testing"

	"github.com/ifradhos55/Markain/internal/db"
	"github.com/ifradhos55/Markain/internal/models"
	"github.com/ifradhos55/Markain/internal/realtime"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. A single
// connection keeps the in-memory store alive for the test's duration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func nopBroadcast() realtime.Broadcaster {
	return realtime.NopBroadcaster{}
}

func createUser(t *testing.T, gdb *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@markain.local",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func createPost(t *testing.T, gdb *gorm.DB, author *models.User, content string) models.Post {
	t.Helper()

	svc := NewPostService(gdb, nopBroadcast())
	post, err := svc.Create(author, content, "", "")
	require.NoError(t, err)
	return post
}

func notificationCount(t *testing.T, gdb *gorm.DB, recipientID uint, title string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, gdb.Model(&models.Notification{}).
		Where("recipient_id = ? AND title = ?", recipientID, title).
		Count(&count).Error)
	return count
}
