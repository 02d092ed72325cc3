package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/database/models"
	"github.com/nagasawakenji/walkfind/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) getActiveContests(c *gin.Context) {
	contests, err := database.GetActiveContests(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, contests, "Active contests retrieved")
}

func (h *Handler) getAnnouncedContests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	if page < 0 {
		page = 0
	}

	contests, err := database.GetAnnouncedContests(h.db, page, size)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, contests, "Announced contests retrieved")
}

func (h *Handler) getContest(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contest, err := database.GetContestByID(h.db, contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "contest not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	util.Success(c, contest, "Contest found")
}

func (h *Handler) getContestResults(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contest, err := database.GetContestByID(h.db, contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "contest not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	// Results are only visible once the contest has been finalized.
	if contest.Status != models.StatusAnnounced {
		util.Error(c, http.StatusForbidden, "results are not announced yet")
		return
	}

	results, err := database.GetResultsByContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, results, "Contest results retrieved")
}

func (h *Handler) getContestWinners(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contest, err := database.GetContestByID(h.db, contestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "contest not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	if contest.Status != models.StatusAnnounced {
		util.Error(c, http.StatusForbidden, "results are not announced yet")
		return
	}

	winners, err := database.GetWinnersByContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, winners, "Contest winners retrieved")
}
