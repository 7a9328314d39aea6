package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"cnkcrm/internal/config"
	"cnkcrm/internal/database"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/modules/auth"
	"cnkcrm/internal/modules/notification"
	"cnkcrm/internal/pkg/jwt"
	"cnkcrm/internal/pkg/logger"
	"cnkcrm/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	db, err := database.Connect(cfg.Database.DSN, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := store.Migrate(ctx, db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}
	hub := livequery.NewHub()
	s := store.New(db, hub)

	deleted, err := notification.NewCenter(s.Notifications, hub, zl).PruneRead(ctx, cfg.Notifications.Keep)
	if err != nil {
		zl.Fatal("cleanup notifications failed", zap.Error(err))
	}

	// Resume drops a stored session that no longer validates.
	sessions := auth.NewService(s.Users, s.Settings, jwt.New(cfg.Session.Secret, cfg.Session.TTL), zl)
	_, err = sessions.Resume(ctx)
	sessionKept := err == nil

	zl.Info("cleanup completed", zap.Int("notifications", deleted), zap.Bool("session_kept", sessionKept))
}
