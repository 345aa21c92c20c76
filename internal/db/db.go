package db

import (
	"log"
	"os"
	"time"

	"github.com/ifradhos55/Markain/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=markain port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if err := Seed(DB); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
}

// Migrate runs the schema migration. Shared with the test suite, which opens
// its own in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostVote{},
		&models.PostComment{},
		&models.PostCommentVote{},
		&models.ChatGroup{},
		&models.ChatGroupMember{},
		&models.ChatMessage{},
		&models.PrivateChat{},
		&models.PrivateMessage{},
		&models.Notification{},
	)
}

// Seed creates the bootstrap rows: an admin account and the single default
// organization-wide chat group owned by it.
func Seed(db *gorm.DB) error {
	var admin models.User
	if err := db.Where("role = ?", "admin").First(&admin).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword()), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin = models.User{
			Username: "admin",
			Email:    "admin@markain.local",
			Password: string(hash),
			Role:     "admin",
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Println("Admin account created")
	}

	var count int64
	db.Model(&models.ChatGroup{}).Where("is_default = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	group := models.ChatGroup{
		Name:             "Main Organization Chat",
		Description:      "Official organization-wide channel",
		CreatedByID:      admin.ID,
		OwnerID:          admin.ID,
		IsDefault:        true,
		LastActivityDate: time.Now().UTC(),
	}
	if err := db.Create(&group).Error; err != nil {
		return err
	}
	if err := db.Create(&models.ChatGroupMember{
		ChatGroupID: group.ID,
		UserID:      admin.ID,
		JoinedDate:  time.Now().UTC(),
	}).Error; err != nil {
		return err
	}
	log.Println("Default organization chat created")
	return nil
}

func adminPassword() string {
	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		return pw
	}
	return "change_me"
}
