package user

import (
	"errors"
	"net/http"

	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleContestFeedWs streams a contest's live activity feed (submissions,
// votes, announcements) over a websocket.
func (h *Handler) handleContestFeedWs(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := database.GetContestByID(h.db, contestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, "contest not found")
		} else {
			c.String(http.StatusInternalServerError, "database error")
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := h.broker.Subscribe(pubsub.ContestFeedTopic(contestID))
	defer unsubscribe()

	// Detect the client going away so the subscription is released.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, open := <-events:
			if !open {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.S().Warnf("error writing to websocket: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
