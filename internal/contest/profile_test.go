package contest

import (
	"testing"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database/models"
	"gorm.io/gorm"
)

func createUserWithProfile(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	user := models.User{ID: id, Username: id}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", id, err)
	}
	profile := models.UserProfile{UserID: id}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile for %s: %v", id, err)
	}
}

func createResult(t *testing.T, db *gorm.DB, contestID, photoID uint, rank int) {
	t.Helper()
	result := models.ContestResult{
		ContestID:    contestID,
		PhotoID:      photoID,
		FinalRank:    rank,
		FinalScore:   rank,
		IsWinner:     rank == 1,
		CalculatedAt: time.Now(),
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("failed to create result: %v", err)
	}
}

func bestRank(t *testing.T, db *gorm.DB, userID string) int {
	t.Helper()
	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		t.Fatalf("failed to load profile for %s: %v", userID, err)
	}
	return profile.BestRank
}

func TestRefreshBestRanksTakesMinimumAcrossContests(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	createUserWithProfile(t, db, "alice")
	createUserWithProfile(t, db, "bob")

	first := createContest(t, db, "first", models.StatusAnnounced,
		now.Add(-96*time.Hour), now.Add(-72*time.Hour))
	second := createContest(t, db, "second", models.StatusAnnounced,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	p1 := createPhoto(t, db, first.ID, "alice", 2, now.Add(-80*time.Hour))
	p2 := createPhoto(t, db, first.ID, "bob", 9, now.Add(-80*time.Hour))
	p3 := createPhoto(t, db, second.ID, "alice", 9, now.Add(-40*time.Hour))

	createResult(t, db, first.ID, p1.ID, 2)
	createResult(t, db, first.ID, p2.ID, 1)
	createResult(t, db, second.ID, p3.ID, 1)

	if err := RefreshBestRanks(db, second.ID); err != nil {
		t.Fatalf("RefreshBestRanks failed: %v", err)
	}

	// Alice's rank 1 in the second contest beats her rank 2 in the first.
	if got := bestRank(t, db, "alice"); got != 1 {
		t.Errorf("alice: expected best_rank 1, got %d", got)
	}
	// Bob did not enter the refreshed contest, so his profile is untouched.
	if got := bestRank(t, db, "bob"); got != 0 {
		t.Errorf("bob: expected best_rank unchanged at 0, got %d", got)
	}
}

func TestRefreshBestRanksIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	createUserWithProfile(t, db, "alice")
	contest := createContest(t, db, "only", models.StatusAnnounced,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	photo := createPhoto(t, db, contest.ID, "alice", 3, now.Add(-40*time.Hour))
	createResult(t, db, contest.ID, photo.ID, 3)

	for i := 0; i < 3; i++ {
		if err := RefreshBestRanks(db, contest.ID); err != nil {
			t.Fatalf("invocation %d failed: %v", i, err)
		}
		if got := bestRank(t, db, "alice"); got != 3 {
			t.Errorf("invocation %d: expected best_rank 3, got %d", i, got)
		}
	}
}

func TestRefreshBestRanksImprovesOnLaterContest(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	createUserWithProfile(t, db, "alice")

	first := createContest(t, db, "first", models.StatusAnnounced,
		now.Add(-96*time.Hour), now.Add(-72*time.Hour))
	p1 := createPhoto(t, db, first.ID, "alice", 1, now.Add(-80*time.Hour))
	createResult(t, db, first.ID, p1.ID, 4)

	if err := RefreshBestRanks(db, first.ID); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if got := bestRank(t, db, "alice"); got != 4 {
		t.Fatalf("expected best_rank 4 after first contest, got %d", got)
	}

	second := createContest(t, db, "second", models.StatusAnnounced,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	p2 := createPhoto(t, db, second.ID, "alice", 8, now.Add(-40*time.Hour))
	createResult(t, db, second.ID, p2.ID, 1)

	if err := RefreshBestRanks(db, second.ID); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	if got := bestRank(t, db, "alice"); got != 1 {
		t.Errorf("expected best_rank to improve to 1, got %d", got)
	}
}
