package database

import (
	"errors"
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

func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	user := models.User{ID: id, Username: id}
	if err := CreateUser(db, &user); err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
}

func seedContest(t *testing.T, db *gorm.DB, name string, status models.ContestStatus) *models.Contest {
	t.Helper()
	now := time.Now()
	contest := models.Contest{
		Name:      name,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		Status:    status,
	}
	if err := CreateContest(db, &contest); err != nil {
		t.Fatalf("failed to seed contest %s: %v", name, err)
	}
	return &contest
}

func TestCreateUserAlsoCreatesProfile(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")

	profile, err := GetUserProfile(db, "alice")
	if err != nil {
		t.Fatalf("expected profile row for new user: %v", err)
	}
	if profile.TotalPosts != 0 || profile.BestRank != 0 {
		t.Errorf("new profile should start zeroed, got %+v", profile)
	}
}

func TestCreatePhotoBumpsProfileCountersOnce(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	contest := seedContest(t, db, "weekly", models.StatusInProgress)

	photo := models.Photo{
		ContestID:   contest.ID,
		UserID:      "alice",
		Title:       "sunset",
		SubmittedAt: time.Now(),
	}
	if err := CreatePhoto(db, &photo); err != nil {
		t.Fatalf("CreatePhoto failed: %v", err)
	}

	profile, err := GetUserProfile(db, "alice")
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile.TotalPosts != 1 || profile.TotalContestsEntered != 1 {
		t.Errorf("expected counters 1/1, got posts=%d entered=%d",
			profile.TotalPosts, profile.TotalContestsEntered)
	}

	// One photo per contest per user.
	dup := models.Photo{ContestID: contest.ID, UserID: "alice", SubmittedAt: time.Now()}
	if err := CreatePhoto(db, &dup); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}

	profile, err = GetUserProfile(db, "alice")
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if profile.TotalPosts != 1 {
		t.Errorf("rejected duplicate must not bump counters, got posts=%d", profile.TotalPosts)
	}
}

func TestCastVoteIncrementsCounterAndRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	contest := seedContest(t, db, "weekly", models.StatusInProgress)

	photo := models.Photo{ContestID: contest.ID, UserID: "alice", SubmittedAt: time.Now()}
	if err := CreatePhoto(db, &photo); err != nil {
		t.Fatalf("CreatePhoto failed: %v", err)
	}

	if err := CastVote(db, photo.ID, "bob", time.Now()); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	reloaded, err := GetPhotoByID(db, photo.ID)
	if err != nil {
		t.Fatalf("failed to reload photo: %v", err)
	}
	if reloaded.TotalVotes != 1 {
		t.Errorf("expected total_votes 1, got %d", reloaded.TotalVotes)
	}

	if err := CastVote(db, photo.ID, "bob", time.Now()); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	reloaded, err = GetPhotoByID(db, photo.ID)
	if err != nil {
		t.Fatalf("failed to reload photo: %v", err)
	}
	if reloaded.TotalVotes != 1 {
		t.Errorf("rejected duplicate vote must not bump the counter, got %d", reloaded.TotalVotes)
	}
}

func TestCastVoteFailsForMissingPhoto(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "bob")

	if err := CastVote(db, 999, "bob", time.Now()); err == nil {
		t.Fatal("expected error voting for a missing photo, got nil")
	}

	// The rolled back transaction must not leave the vote row behind.
	var count int64
	if err := db.Model(&models.Vote{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	if count != 0 {
		t.Errorf("expected zero vote rows after rollback, got %d", count)
	}
}

func TestDeleteContestRemovesResultRows(t *testing.T) {
	db := newTestDB(t)
	contest := seedContest(t, db, "finished", models.StatusAnnounced)

	result := models.ContestResult{
		ContestID:    contest.ID,
		PhotoID:      1,
		FinalRank:    1,
		IsWinner:     true,
		CalculatedAt: time.Now(),
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("failed to seed result: %v", err)
	}

	if err := DeleteContest(db, contest.ID); err != nil {
		t.Fatalf("DeleteContest failed: %v", err)
	}

	if _, err := GetContestByID(db, contest.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected soft-deleted contest to be hidden, got %v", err)
	}

	count, err := CountResultsByContest(db, contest.ID)
	if err != nil {
		t.Fatalf("failed to count results: %v", err)
	}
	if count != 0 {
		t.Errorf("expected result rows removed with the contest, got %d", count)
	}

	// The admin console can still see it with the removed filter.
	removed, err := GetAdminContests(db, "", "", true, 0, 10)
	if err != nil {
		t.Fatalf("GetAdminContests failed: %v", err)
	}
	if len(removed) != 1 {
		t.Errorf("expected unscoped listing to include the removed contest, got %d rows", len(removed))
	}
}
