package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"cnkcrm/internal/config"
	"cnkcrm/internal/database"
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
		zl.Fatal("DB connection failed", zap.Error(err))
	}
	if err := store.Migrate(ctx, db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	if err := database.Seed(ctx, store.New(db, nil), zl); err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}

	zl.Info("seed completed")
	for _, u := range database.DefaultUsers {
		zl.Info("account", zap.String("username", u.Username), zap.String("password", u.Password), zap.String("role", string(u.Role)))
	}
}
