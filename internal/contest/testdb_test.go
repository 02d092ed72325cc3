package contest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache in-memory database gives every connection in one
	// test the same data while keeping tests isolated from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Contest{},
		&models.Photo{},
		&models.Vote{},
		&models.ContestResult{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createContest(t *testing.T, db *gorm.DB, name string, status models.ContestStatus, start, end time.Time) *models.Contest {
	t.Helper()
	contest := models.Contest{
		Name:      name,
		Theme:     "test theme",
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
	if err := db.Create(&contest).Error; err != nil {
		t.Fatalf("failed to create contest: %v", err)
	}
	return &contest
}

func createPhoto(t *testing.T, db *gorm.DB, contestID uint, userID string, votes int, submittedAt time.Time) *models.Photo {
	t.Helper()
	photo := models.Photo{
		ContestID:   contestID,
		UserID:      userID,
		Title:       "photo by " + userID,
		TotalVotes:  votes,
		SubmittedAt: submittedAt,
	}
	if err := db.Create(&photo).Error; err != nil {
		t.Fatalf("failed to create photo: %v", err)
	}
	return &photo
}

func contestStatus(t *testing.T, db *gorm.DB, contestID uint) models.ContestStatus {
	t.Helper()
	var contest models.Contest
	if err := db.First(&contest, contestID).Error; err != nil {
		t.Fatalf("failed to load contest %d: %v", contestID, err)
	}
	return contest.Status
}

func resultCount(t *testing.T, db *gorm.DB, contestID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.ContestResult{}).
		Where("contest_id = ?", contestID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count results: %v", err)
	}
	return count
}
