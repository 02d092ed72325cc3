package user

import (
	"github.com/nagasawakenji/walkfind/internal/api"
	"github.com/nagasawakenji/walkfind/internal/config"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"github.com/nagasawakenji/walkfind/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewUserRouter creates and configures the public-facing Gin engine.
func NewUserRouter(
	cfg *config.Config,
	db *gorm.DB,
	store *storage.PhotoStore,
	broker *pubsub.Broker) *gin.Engine {

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, store, broker)

	v1 := r.Group("/api/v1")
	{
		// Auth
		authGroup := v1.Group("/auth")
		{
			authGroup.GET("/status", h.getAuthStatus)

			if cfg.Auth.Cognito.Enabled {
				cognitoGroup := authGroup.Group("/cognito")
				cognitoGroup.GET("/login", h.cognitoHandler.Login)
				cognitoGroup.GET("/callback", h.cognitoHandler.Callback)
			}

			if cfg.Auth.Local.Enabled {
				localAuthGroup := authGroup.Group("/local")
				{
					localAuthGroup.POST("/register", h.localRegister)
					localAuthGroup.POST("/login", h.localLogin)
				}
			}
		}

		// Live contest activity feed
		v1.GET("/ws/contests/:id/feed", h.handleContestFeedWs)

		// Publicly accessible info
		v1.GET("/contests", h.getActiveContests)
		v1.GET("/contests/announced", h.getAnnouncedContests)
		v1.GET("/contests/:id", h.getContest)
		v1.GET("/contests/:id/photos", h.getContestPhotos)
		v1.GET("/contests/:id/results", h.getContestResults)
		v1.GET("/contests/:id/winners", h.getContestWinners)
		v1.GET("/users/:id", h.getPublicUserProfile)

		// Publicly accessible assets
		v1.GET("/assets/photos/:filename", h.servePhoto)

		// Authenticated routes
		authed := v1.Group("/")
		authed.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret))
		{
			profile := authed.Group("/user")
			{
				profile.GET("/profile", h.getUserProfile)
				profile.PATCH("/profile", h.updateUserProfile)
				profile.GET("/history", h.getUserHistory)
			}

			authed.POST("/contests/:id/photos", h.submitPhoto)
			authed.POST("/photos/:id/vote", h.votePhoto)
		}
	}

	return r
}
