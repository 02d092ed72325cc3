package admin

import (
	"github.com/nagasawakenji/walkfind/internal/api"
	"github.com/nagasawakenji/walkfind/internal/config"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewAdminRouter creates and configures the admin Gin engine. It is served
// on its own listen address and is expected to sit behind network-level
// access control.
func NewAdminRouter(cfg *config.Config, db *gorm.DB, broker *pubsub.Broker) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, broker)

	v1 := r.Group("/api/v1")
	{
		// Contest management
		contests := v1.Group("/contests")
		{
			contests.GET("", h.getAllContests)
			contests.POST("", h.createContest)
			contests.GET("/:id", h.getContest)
			contests.PUT("/:id", h.updateContest)
			contests.DELETE("/:id", h.deleteContest)
			contests.POST("/:id/refresh-ranks", h.refreshContestRanks)
		}

		// Manual batch triggers
		batch := v1.Group("/batch")
		{
			batch.POST("/contest-status", h.runStatusBatch)
			batch.POST("/result-calculation", h.runCalculationBatch)
		}

		// User management
		users := v1.Group("/users")
		{
			users.GET("", h.getAllUsers)
			users.GET("/:id", h.getUser)
		}
	}

	return r
}
