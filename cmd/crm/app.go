package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cnkcrm/internal/config"
	"cnkcrm/internal/database"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/modules/agent"
	"cnkcrm/internal/modules/auth"
	"cnkcrm/internal/modules/crm"
	"cnkcrm/internal/modules/erp"
	"cnkcrm/internal/modules/notification"
	"cnkcrm/internal/modules/personnel"
	"cnkcrm/internal/modules/prediction"
	"cnkcrm/internal/modules/reconciliation"
	"cnkcrm/internal/modules/reminder"
	"cnkcrm/internal/pkg/ai"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/pkg/jwt"
	"cnkcrm/internal/store"
)

// app holds every service of one process, all bound to the same store.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	hub   *livequery.Hub

	center         *notification.Center
	repo           *crm.Repository
	auth           *auth.Service
	erp            *erp.Service
	prediction     *prediction.Service
	agent          *agent.Agent
	reminders      *reminder.Scanner
	reconciliation *reconciliation.Service
	personnel      *personnel.Service

	close func()
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	db, err := database.Connect(cfg.Database.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := store.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	hub := livequery.NewHub()
	s := store.New(db, hub)
	now := clock.System

	center := notification.NewCenter(s.Notifications, hub, log.Named("notification"))
	repo := crm.NewRepository(s, hub, center, log.Named("crm"))
	aiClient := ai.NewClient(ai.Simulator{Latency: cfg.Latency.AI}, log.Named("ai"))
	erpSvc := erp.NewService(s, repo, log.Named("erp"), erp.WithLatency(cfg.Latency.ERP))
	predictions := prediction.NewService(repo, now)

	a := &app{
		cfg:            cfg,
		log:            log,
		store:          s,
		hub:            hub,
		center:         center,
		repo:           repo,
		auth:           auth.NewService(s.Users, s.Settings, jwt.New(cfg.Session.Secret, cfg.Session.TTL), log.Named("auth"), auth.WithLatency(cfg.Latency.Auth)),
		erp:            erpSvc,
		prediction:     predictions,
		agent:          agent.New(repo, aiClient, predictions, center, s.AISettings, log.Named("agent"), now),
		reminders:      reminder.NewScanner(repo, center, s.Settings, cfg.Location(), log.Named("reminder"), now),
		reconciliation: reconciliation.NewService(s, erpSvc, aiClient, hub, log.Named("reconciliation"), now),
		personnel:      personnel.NewService(s, log.Named("personnel"), now),
	}
	a.close = func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return a, nil
}
