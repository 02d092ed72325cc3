package user

import (
	"errors"
	"net/http"

	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) getUserProfile(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}
	util.Success(c, user, "ok")
}

func (h *Handler) updateUserProfile(c *gin.Context) {
	userID := c.GetString("userID")
	profile, err := database.GetUserProfile(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}

	var reqBody struct {
		Bio             string `json:"bio"`
		ProfileImageURL string `json:"profile_image_url"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	profile.Bio = reqBody.Bio
	profile.ProfileImageURL = reqBody.ProfileImageURL
	if err := database.UpdateUserProfile(h.db, profile); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, profile, "Profile updated")
}

func (h *Handler) getPublicUserProfile(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	util.Success(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"profile":  user.Profile,
	}, "User profile retrieved")
}

// getUserHistory returns the caller's submissions together with any
// finalized results they earned.
func (h *Handler) getUserHistory(c *gin.Context) {
	userID := c.GetString("userID")

	photos, err := database.GetPhotosByUser(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	results, err := database.GetResultsForUser(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	util.Success(c, gin.H{
		"photos":  photos,
		"results": results,
	}, "User history retrieved")
}
