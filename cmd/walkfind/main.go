package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nagasawakenji/walkfind/internal/api/admin"
	"github.com/nagasawakenji/walkfind/internal/api/user"
	"github.com/nagasawakenji/walkfind/internal/batch"
	"github.com/nagasawakenji/walkfind/internal/config"
	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/pubsub"
	"github.com/nagasawakenji/walkfind/internal/storage"

	"go.uber.org/zap"
)

var Version = "dev-build"

func main() {

	fmt.Fprintf(os.Stderr, "WalkFind %s - Photo Contest Server\n\n", Version)

	// config
	var configPath string
	flag.StringVar(&configPath, "c", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// logger
	var logger *zap.Logger
	if cfg.Logger.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		zap.S().Fatalf("failed to initialize database: %v", err)
	}
	zap.S().Info("database initialized successfully")

	// photo storage
	store, err := storage.NewPhotoStore(cfg.Storage.Photos)
	if err != nil {
		zap.S().Fatalf("failed to initialize photo storage: %v", err)
	}

	// activity feed broker
	broker := pubsub.NewBroker()

	// periodic contest jobs
	scheduler := batch.NewScheduler(cfg, db, broker)
	if cfg.Batch.Enabled {
		go scheduler.Run()
		zap.S().Info("batch scheduler started")
	} else {
		zap.S().Warn("batch scheduler disabled, contest lifecycle only advances via admin triggers")
	}

	// API routers
	userEngine := user.NewUserRouter(cfg, db, store, broker)
	adminEngine := admin.NewAdminRouter(cfg, db, broker)

	// start servers
	go func() {
		zap.S().Infof("starting user server at %s", cfg.Listen)
		if err := userEngine.Run(cfg.Listen); err != nil {
			zap.S().Fatalf("failed to start user server: %v", err)
		}
	}()

	if cfg.Admin.Enabled {
		go func() {
			zap.S().Infof("starting admin server at %s", cfg.Admin.Listen)
			if err := adminEngine.Run(cfg.Admin.Listen); err != nil {
				zap.S().Fatalf("failed to start admin server: %v", err)
			}
		}()
	}

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	if cfg.Batch.Enabled {
		scheduler.Stop()
	}
	zap.S().Info("shutting down server...")
}
