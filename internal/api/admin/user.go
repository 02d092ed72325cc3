package admin

import (
	"errors"
	"net/http"

	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) getAllUsers(c *gin.Context) {
	users, err := database.GetAllUsers(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, users, "Users retrieved")
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	util.Success(c, user, "User retrieved")
}
