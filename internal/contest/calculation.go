package contest

import (
	"errors"
	"fmt"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrResultCountMismatch marks a result batch whose insert affected a
// different number of rows than were ranked. It is fatal for the whole
// invocation.
var ErrResultCountMismatch = errors.New("inserted result count does not match ranked submission count")

type OutcomeStatus string

const (
	OutcomeSuccess           OutcomeStatus = "SUCCESS"
	OutcomeAlreadyCalculated OutcomeStatus = "ALREADY_CALCULATED"
	OutcomeNoContests        OutcomeStatus = "NO_CONTESTS_TO_CALCULATE"
)

// CalculationOutcome reports what happened to one contest in a calculation
// run. It is observability output only; correctness rests on the transaction.
type CalculationOutcome struct {
	ContestID       uint          `json:"contest_id,omitempty"`
	Status          OutcomeStatus `json:"status"`
	Message         string        `json:"message"`
	PhotosProcessed int           `json:"photos_processed"`
}

// CalculateAllClosedContests ranks and finalizes every contest whose voting
// window has closed. The entire batch runs in one transaction: a persistence
// failure for any single contest rolls back every contest processed in the
// same invocation, and the caller's only recovery is to re-invoke. That is
// safe because an already-ANNOUNCED contest short-circuits to a no-op
// outcome.
func CalculateAllClosedContests(db *gorm.DB, now time.Time) ([]CalculationOutcome, error) {
	var outcomes []CalculationOutcome

	err := db.Transaction(func(tx *gorm.DB) error {
		var targets []models.Contest
		if err := tx.Where("status = ? AND end_date <= ?", models.StatusClosedVoting, now).
			Order("id asc").
			Find(&targets).Error; err != nil {
			return fmt.Errorf("find contests needing calculation: %w", err)
		}

		if len(targets) == 0 {
			outcomes = append(outcomes, CalculationOutcome{
				Status:  OutcomeNoContests,
				Message: "no contests found that require calculation",
			})
			return nil
		}

		for i := range targets {
			outcome, err := calculateContest(tx, &targets[i], now)
			if err != nil {
				zap.S().Errorf("calculation failed for contest %d, aborting batch: %v", targets[i].ID, err)
				return err
			}
			outcomes = append(outcomes, outcome)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

// calculateContest finalizes a single contest inside the batch transaction.
// Expected conditions (already announced, no submissions) become outcome
// values; only storage failures return an error.
func calculateContest(tx *gorm.DB, contest *models.Contest, now time.Time) (CalculationOutcome, error) {
	// Another invocation may have finalized this contest already.
	if contest.Status == models.StatusAnnounced {
		return CalculationOutcome{
			ContestID: contest.ID,
			Status:    OutcomeAlreadyCalculated,
			Message:   "results already calculated",
		}, nil
	}

	var photos []models.Photo
	if err := tx.Where("contest_id = ?", contest.ID).Find(&photos).Error; err != nil {
		return CalculationOutcome{}, fmt.Errorf("load submissions for contest %d: %w", contest.ID, err)
	}

	if len(photos) == 0 {
		if err := setContestStatus(tx, contest.ID, models.StatusAnnounced); err != nil {
			return CalculationOutcome{}, err
		}
		return CalculationOutcome{
			ContestID: contest.ID,
			Status:    OutcomeSuccess,
			Message:   "contest closed, no submissions found",
		}, nil
	}

	results := RankSubmissions(contest.ID, photos, now)

	// The batch replaces any prior result set for this contest.
	if err := tx.Where("contest_id = ?", contest.ID).
		Delete(&models.ContestResult{}).Error; err != nil {
		return CalculationOutcome{}, fmt.Errorf("clear previous results for contest %d: %w", contest.ID, err)
	}
	res := tx.Create(&results)
	if res.Error != nil {
		return CalculationOutcome{}, fmt.Errorf("insert results for contest %d: %w", contest.ID, res.Error)
	}
	if res.RowsAffected != int64(len(results)) {
		return CalculationOutcome{}, fmt.Errorf("contest %d: %w (inserted %d of %d)",
			contest.ID, ErrResultCountMismatch, res.RowsAffected, len(results))
	}

	if err := setContestStatus(tx, contest.ID, models.StatusAnnounced); err != nil {
		return CalculationOutcome{}, err
	}

	zap.S().Infof("calculated results for contest %d, inserted %d records", contest.ID, len(results))
	return CalculationOutcome{
		ContestID:       contest.ID,
		Status:          OutcomeSuccess,
		Message:         "calculation complete",
		PhotosProcessed: len(results),
	}, nil
}
