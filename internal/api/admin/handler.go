package admin

import (
	"github.com/nagasawakenji/walkfind/internal/config"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the admin API handlers.
type Handler struct {
	cfg    *config.Config
	db     *gorm.DB
	broker *pubsub.Broker
}

// NewHandler creates a new admin handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB, broker *pubsub.Broker) *Handler {
	return &Handler{
		cfg:    cfg,
		db:     db,
		broker: broker,
	}
}
