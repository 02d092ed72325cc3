package admin

import (
	"net/http"
	"time"

	"github.com/nagasawakenji/walkfind/internal/contest"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"github.com/nagasawakenji/walkfind/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// runStatusBatch triggers one status-transition invocation immediately.
func (h *Handler) runStatusBatch(c *gin.Context) {
	zap.S().Info("admin triggered contest status batch")

	result, err := contest.UpdateAllStatuses(h.db, h.broker, time.Now())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, result, "Contest statuses updated")
}

// runCalculationBatch triggers one calculation invocation and chains the
// best-rank refresh for every contest it finalized. The refresh runs after
// the calculation transaction has committed, so a refresh failure leaves the
// announcement in place and is reported without a rollback.
func (h *Handler) runCalculationBatch(c *gin.Context) {
	zap.S().Info("admin triggered result calculation batch")

	outcomes, err := contest.CalculateAllClosedContests(h.db, time.Now())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	for _, outcome := range outcomes {
		if outcome.Status != contest.OutcomeSuccess {
			continue
		}
		h.broker.PublishEvent(pubsub.FeedEvent{
			Event:     "results_announced",
			ContestID: outcome.ContestID,
			At:        time.Now(),
		})
		if err := contest.RefreshBestRanks(h.db, outcome.ContestID); err != nil {
			zap.S().Errorf("best rank refresh failed for contest %d: %v", outcome.ContestID, err)
		}
	}

	util.Success(c, outcomes, "Result calculation complete")
}

// refreshContestRanks re-runs the best-rank refresh for one contest.
func (h *Handler) refreshContestRanks(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := contest.RefreshBestRanks(h.db, contestID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, nil, "Best ranks refreshed")
}
