package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/database/models"
	"github.com/nagasawakenji/walkfind/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

func (h *Handler) getAllContests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	if size <= 0 || size > 200 {
		size = 50
	}
	if page < 0 {
		page = 0
	}
	status := c.Query("status")
	keyword := c.Query("keyword")
	includeRemoved := c.Query("include_removed") == "true"

	contests, err := database.GetAdminContests(h.db, status, keyword, includeRemoved, page, size)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, contests, "Contests retrieved")
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

type contestRequest struct {
	Name      string    `json:"name" binding:"required"`
	Theme     string    `json:"theme"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	CreatorID string    `json:"creator_id"`
}

func (h *Handler) createContest(c *gin.Context) {
	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !req.EndDate.After(req.StartDate) {
		util.Error(c, http.StatusBadRequest, "end_date must be after start_date")
		return
	}

	exists, err := database.ContestNameExists(h.db, req.Name)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if exists {
		util.Error(c, http.StatusConflict, "a contest with this name already exists")
		return
	}

	contest := models.Contest{
		Name:      req.Name,
		Theme:     req.Theme,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.StatusUpcoming,
		CreatorID: req.CreatorID,
	}
	if err := database.CreateContest(h.db, &contest); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("contest %d (%s) created", contest.ID, contest.Name)
	util.Success(c, contest, "Contest created")
}

func (h *Handler) updateContest(c *gin.Context) {
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
	if contest.Status == models.StatusAnnounced {
		util.Error(c, http.StatusForbidden, "an announced contest can no longer be edited")
		return
	}

	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !req.EndDate.After(req.StartDate) {
		util.Error(c, http.StatusBadRequest, "end_date must be after start_date")
		return
	}

	contest.Name = req.Name
	contest.Theme = req.Theme
	contest.StartDate = req.StartDate
	contest.EndDate = req.EndDate
	if err := database.UpdateContest(h.db, contest); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, contest, "Contest updated")
}

func (h *Handler) deleteContest(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := database.DeleteContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	zap.S().Infof("contest %d deleted", contestID)
	util.Success(c, nil, "Contest deleted")
}
