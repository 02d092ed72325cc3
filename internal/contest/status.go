package contest

import (
	"fmt"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database/models"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatusUpdateResult reports how many contests each pass advanced.
type StatusUpdateResult struct {
	MovedToInProgress   int `json:"moved_to_in_progress"`
	MovedToClosedVoting int `json:"moved_to_closed_voting"`
	MovedToAnnounced    int `json:"moved_to_announced"`
}

// UpdateAllStatuses advances every contest whose window boundary has passed.
// The three passes run in this order inside one transaction so a contest that
// opened and closed between two ticks still traverses both states in a single
// invocation. Each pass is a conditional bulk update guarded by the current
// status, so re-running with nothing newly eligible affects zero rows. Any
// failure rolls back the whole invocation.
func UpdateAllStatuses(db *gorm.DB, broker *pubsub.Broker, now time.Time) (StatusUpdateResult, error) {
	var result StatusUpdateResult
	var openedIDs []uint

	err := db.Transaction(func(tx *gorm.DB) error {
		// UPCOMING -> IN_PROGRESS. IDs are collected first so the contests
		// that actually opened can be announced on the activity feed.
		if err := tx.Model(&models.Contest{}).
			Where("status = ? AND start_date <= ?", models.StatusUpcoming, now).
			Pluck("id", &openedIDs).Error; err != nil {
			return fmt.Errorf("find contests to open: %w", err)
		}
		if len(openedIDs) > 0 {
			res := tx.Model(&models.Contest{}).
				Where("id IN ? AND status = ?", openedIDs, models.StatusUpcoming).
				Update("status", models.StatusInProgress)
			if res.Error != nil {
				return fmt.Errorf("move contests to IN_PROGRESS: %w", res.Error)
			}
			result.MovedToInProgress = int(res.RowsAffected)
		}

		// IN_PROGRESS -> CLOSED_VOTING
		res := tx.Model(&models.Contest{}).
			Where("status = ? AND end_date <= ?", models.StatusInProgress, now).
			Update("status", models.StatusClosedVoting)
		if res.Error != nil {
			return fmt.Errorf("move contests to CLOSED_VOTING: %w", res.Error)
		}
		result.MovedToClosedVoting = int(res.RowsAffected)

		// CLOSED_VOTING -> ANNOUNCED, only for contests whose results have
		// already been persisted by the calculation engine.
		res = tx.Model(&models.Contest{}).
			Where("status = ? AND id IN (SELECT DISTINCT contest_id FROM contest_results)",
				models.StatusClosedVoting).
			Update("status", models.StatusAnnounced)
		if res.Error != nil {
			return fmt.Errorf("move calculated contests to ANNOUNCED: %w", res.Error)
		}
		result.MovedToAnnounced = int(res.RowsAffected)

		return nil
	})
	if err != nil {
		return StatusUpdateResult{}, err
	}

	if broker != nil {
		for _, id := range openedIDs {
			broker.PublishEvent(pubsub.FeedEvent{
				Event:     "contest_opened",
				ContestID: id,
				At:        now,
			})
		}
	}
	if result.MovedToInProgress > 0 || result.MovedToClosedVoting > 0 || result.MovedToAnnounced > 0 {
		zap.S().Infof("contest status batch: in_progress=%d closed_voting=%d announced=%d",
			result.MovedToInProgress, result.MovedToClosedVoting, result.MovedToAnnounced)
	}
	return result, nil
}

// setContestStatus moves one contest to next after validating the step
// against the lifecycle transition table. Setting the current status again is
// a no-op, which keeps overlapping invocations idempotent.
func setContestStatus(tx *gorm.DB, contestID uint, next models.ContestStatus) error {
	var contest models.Contest
	if err := tx.Select("id", "status").First(&contest, contestID).Error; err != nil {
		return fmt.Errorf("load contest %d: %w", contestID, err)
	}
	if contest.Status == next {
		return nil
	}
	if !contest.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal status transition %s -> %s for contest %d",
			contest.Status, next, contestID)
	}
	res := tx.Model(&models.Contest{}).
		Where("id = ? AND status = ?", contestID, contest.Status).
		Update("status", next)
	if res.Error != nil {
		return fmt.Errorf("update contest %d status: %w", contestID, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("contest %d status changed concurrently", contestID)
	}
	return nil
}
