package user

import (
	"github.com/nagasawakenji/walkfind/internal/auth"
	"github.com/nagasawakenji/walkfind/internal/config"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"github.com/nagasawakenji/walkfind/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the user API handlers.
type Handler struct {
	cfg            *config.Config
	db             *gorm.DB
	store          *storage.PhotoStore
	broker         *pubsub.Broker
	cognitoHandler *auth.CognitoHandler
}

// NewHandler creates a new user handler with its dependencies. The Cognito
// handler is only constructed when that login path is enabled, since building
// it performs OIDC discovery against the issuer.
func NewHandler(
	cfg *config.Config,
	db *gorm.DB,
	store *storage.PhotoStore,
	broker *pubsub.Broker,
) *Handler {
	h := &Handler{
		cfg:    cfg,
		db:     db,
		store:  store,
		broker: broker,
	}
	if cfg.Auth.Cognito.Enabled {
		cognitoHandler, err := auth.NewCognitoHandler(cfg, db)
		if err != nil {
			zap.S().Fatalf("failed to initialize cognito auth: %v", err)
		}
		h.cognitoHandler = cognitoHandler
	}
	return h
}
