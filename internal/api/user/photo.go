package user

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/database/models"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"github.com/nagasawakenji/walkfind/internal/storage"
	"github.com/nagasawakenji/walkfind/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (h *Handler) getContestPhotos(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	photos, err := database.GetPhotosByContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, photos, "Contest photos retrieved")
}

// submitPhoto accepts one multipart photo entry for a contest. Submission is
// allowed only while the contest is IN_PROGRESS, one entry per user.
func (h *Handler) submitPhoto(c *gin.Context) {
	userID := c.GetString("userID")
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
	if contest.Status != models.StatusInProgress {
		util.Error(c, http.StatusForbidden, "photo submission is only allowed while the contest is in progress")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		util.Error(c, http.StatusBadRequest, "photo file not provided")
		return
	}
	ext, err := storage.ValidatePhoto(file)
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	objectKey := storage.NewObjectKey(ext)
	path, err := h.store.Path(objectKey)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if err := c.SaveUploadedFile(file, path); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save photo")
		return
	}

	now := time.Now()
	photo := models.Photo{
		ContestID:   contestID,
		UserID:      userID,
		ObjectKey:   objectKey,
		PhotoURL:    fmt.Sprintf("/api/v1/assets/photos/%s", objectKey),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		SubmittedAt: now,
	}
	if err := database.CreatePhoto(h.db, &photo); err != nil {
		// The row never landed, so the stored file is orphaned.
		_ = h.store.Remove(objectKey)
		if errors.Is(err, database.ErrAlreadySubmitted) {
			util.Error(c, http.StatusConflict, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.broker.PublishEvent(pubsub.FeedEvent{
		Event:     "photo_submitted",
		ContestID: contestID,
		PhotoID:   photo.ID,
		UserID:    userID,
		At:        now,
	})
	zap.S().Infof("user %s submitted photo %d to contest %d", userID, photo.ID, contestID)
	util.Success(c, photo, "Photo submitted successfully")
}

// votePhoto casts one vote for a photo. Voting is open only while the parent
// contest is IN_PROGRESS and each user may vote once per photo.
func (h *Handler) votePhoto(c *gin.Context) {
	userID := c.GetString("userID")
	photoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	photo, err := database.GetPhotoByID(h.db, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "photo not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	contest, err := database.GetContestByID(h.db, photo.ContestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if contest.Status != models.StatusInProgress {
		util.Error(c, http.StatusForbidden, "voting is only allowed while the contest is in progress")
		return
	}

	now := time.Now()
	if err := database.CastVote(h.db, photoID, userID, now); err != nil {
		if errors.Is(err, database.ErrAlreadyVoted) {
			util.Error(c, http.StatusConflict, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.broker.PublishEvent(pubsub.FeedEvent{
		Event:     "vote_cast",
		ContestID: photo.ContestID,
		PhotoID:   photoID,
		UserID:    userID,
		At:        now,
	})
	util.Success(c, nil, "Vote recorded")
}

func (h *Handler) servePhoto(c *gin.Context) {
	path, err := h.store.Path(c.Param("filename"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	c.File(path)
}
