package models

import (
	"time"

	"gorm.io/gorm"
)

// ContestStatus is the lifecycle state of a contest. Transitions only move
// forward along UPCOMING -> IN_PROGRESS -> CLOSED_VOTING -> ANNOUNCED.
type ContestStatus string

const (
	StatusUpcoming     ContestStatus = "UPCOMING"
	StatusInProgress   ContestStatus = "IN_PROGRESS"
	StatusClosedVoting ContestStatus = "CLOSED_VOTING"
	StatusAnnounced    ContestStatus = "ANNOUNCED"
)

// allowedTransitions is the validated transition table. Anything not listed
// here is rejected by CanTransitionTo.
var allowedTransitions = map[ContestStatus]ContestStatus{
	StatusUpcoming:     StatusInProgress,
	StatusInProgress:   StatusClosedVoting,
	StatusClosedVoting: StatusAnnounced,
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// step.
func (s ContestStatus) CanTransitionTo(next ContestStatus) bool {
	return allowedTransitions[s] == next
}

// IsValid reports whether s is one of the known lifecycle states.
func (s ContestStatus) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusInProgress, StatusClosedVoting, StatusAnnounced:
		return true
	}
	return false
}

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	CognitoSub   *string `gorm:"uniqueIndex" json:"-"`
	Username     string  `gorm:"uniqueIndex" json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	IsAdmin      bool    `json:"is_admin"`

	Profile UserProfile `gorm:"foreignKey:UserID" json:"profile"`
}

// UserProfile carries denormalized statistics maintained outside the request
// path. BestRank is recomputed after contest finalization and stays 0 until
// the user has at least one finalized result.
type UserProfile struct {
	UserID    string `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ProfileImageURL      string `json:"profile_image_url"`
	Bio                  string `json:"bio"`
	TotalPosts           int    `json:"total_posts"`
	TotalContestsEntered int    `json:"total_contests_entered"`
	BestRank             int    `json:"best_rank"`
}

type Contest struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Name      string        `gorm:"uniqueIndex" json:"name"`
	Theme     string        `json:"theme"`
	StartDate time.Time     `gorm:"index" json:"start_date"`
	EndDate   time.Time     `gorm:"index" json:"end_date"`
	Status    ContestStatus `gorm:"index" json:"status"`
	CreatorID string        `gorm:"index" json:"creator_id"`
}

// Photo is one user's single entry into one contest. TotalVotes is a
// denormalized counter maintained by the voting path; the calculation engine
// treats it as read-only input.
type Photo struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ContestID   uint   `gorm:"index;uniqueIndex:idx_contest_user" json:"contest_id"`
	UserID      string `gorm:"index;uniqueIndex:idx_contest_user" json:"user_id"`
	ObjectKey   string `json:"-"`
	PhotoURL    string `json:"photo_url"`
	Title       string `json:"title"`
	Description string `json:"description"`

	TotalVotes  int       `json:"total_votes"`
	SubmittedAt time.Time `gorm:"index" json:"submitted_at"`
}

type Vote struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	PhotoID uint      `gorm:"index;uniqueIndex:idx_photo_voter" json:"photo_id"`
	UserID  string    `gorm:"uniqueIndex:idx_photo_voter" json:"user_id"`
	VotedAt time.Time `json:"voted_at"`
}

// ContestResult is the finalized rank record for one photo. All rows for a
// contest are written in one batch by the calculation engine; a contest with
// any result rows counts as already calculated.
type ContestResult struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	ContestID    uint      `gorm:"index;uniqueIndex:idx_contest_photo" json:"contest_id"`
	PhotoID      uint      `gorm:"uniqueIndex:idx_contest_photo" json:"photo_id"`
	FinalRank    int       `json:"final_rank"`
	FinalScore   int       `json:"final_score"`
	IsWinner     bool      `json:"is_winner"`
	CalculatedAt time.Time `json:"calculated_at"`
}
