package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const slowQueryThreshold = 200 * time.Millisecond

// Connect opens postgres for postgres:// DSNs and the embedded sqlite database otherwise.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormLogger(log)}

	if IsPostgres(dsn) {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using embedded sqlite", zap.String("dsn", dsn))
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// sqlite allows one writer; a single connection also keeps in-memory databases alive
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// MemoryDSN names a private in-memory sqlite database.
func MemoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func gormLogger(log *zap.Logger) logger.Interface {
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
