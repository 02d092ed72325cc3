package batch

import (
	"time"

	"github.com/nagasawakenji/walkfind/internal/config"
	"github.com/nagasawakenji/walkfind/internal/contest"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduler drives the periodic contest jobs. Each tick runs a job to
// completion synchronously; overlap can only come from an admin trigger
// racing a tick, which the underlying transactions and the already-announced
// short-circuit make safe.
type Scheduler struct {
	cfg    *config.Config
	db     *gorm.DB
	broker *pubsub.Broker
	stop   chan struct{}
}

func NewScheduler(cfg *config.Config, db *gorm.DB, broker *pubsub.Broker) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		db:     db,
		broker: broker,
		stop:   make(chan struct{}),
	}
}

// Run blocks, firing the status and calculation jobs on their configured
// intervals until Stop is called.
func (s *Scheduler) Run() {
	statusTicker := time.NewTicker(time.Duration(s.cfg.Batch.StatusIntervalSeconds) * time.Second)
	defer statusTicker.Stop()
	calcTicker := time.NewTicker(time.Duration(s.cfg.Batch.CalculationIntervalSeconds) * time.Second)
	defer calcTicker.Stop()

	zap.S().Infof("batch scheduler started (status every %ds, calculation every %ds)",
		s.cfg.Batch.StatusIntervalSeconds, s.cfg.Batch.CalculationIntervalSeconds)

	for {
		select {
		case <-statusTicker.C:
			s.RunStatusJob()
		case <-calcTicker.C:
			s.RunCalculationJob()
		case <-s.stop:
			zap.S().Info("batch scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stop)
}

// RunStatusJob executes one status-transition invocation.
func (s *Scheduler) RunStatusJob() {
	result, err := contest.UpdateAllStatuses(s.db, s.broker, time.Now())
	if err != nil {
		zap.S().Errorf("contest status batch failed, state unchanged: %v", err)
		return
	}
	zap.S().Debugf("contest status batch: in_progress=%d closed_voting=%d announced=%d",
		result.MovedToInProgress, result.MovedToClosedVoting, result.MovedToAnnounced)
}

// RunCalculationJob executes one calculation invocation and, when configured,
// chains the best-rank refresh for every contest it finalized. A refresh
// failure is logged but never undoes the announcement.
func (s *Scheduler) RunCalculationJob() {
	outcomes, err := contest.CalculateAllClosedContests(s.db, time.Now())
	if err != nil {
		zap.S().Errorf("result calculation batch failed, rolled back: %v", err)
		return
	}

	for _, outcome := range outcomes {
		if outcome.Status != contest.OutcomeSuccess {
			continue
		}
		if s.broker != nil {
			s.broker.PublishEvent(pubsub.FeedEvent{
				Event:     "results_announced",
				ContestID: outcome.ContestID,
				At:        time.Now(),
			})
		}
		if !s.cfg.Batch.RefreshRanks {
			continue
		}
		if err := contest.RefreshBestRanks(s.db, outcome.ContestID); err != nil {
			zap.S().Errorf("best rank refresh failed for contest %d (will converge on next run): %v",
				outcome.ContestID, err)
		}
	}
}
