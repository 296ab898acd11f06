package service

import (
	"fmt"
	"testing"

	"Tabletop_Community/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 内存库，单连接避免 :memory: 连接间不共享
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectFollower{},
		&model.ProjectLike{},
		&model.GalleryImage{},
		&model.JournalEntry{},
		&model.Event{},
		&model.EventAttendee{},
		&model.Job{},
		&model.JobApplication{},
		&model.Resource{},
		&model.ResourceReview{},
		&model.ActivityOutbox{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role int) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Password: "x",
		Name:     username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}
