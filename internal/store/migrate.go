package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cnkcrm/internal/domain"
)

var ErrSchemaTooNew = errors.New("database schema is newer than this build")

type schemaMeta struct {
	ID         int `gorm:"primaryKey"`
	Version    int
	MigratedAt time.Time
}

func (schemaMeta) TableName() string { return "schema_meta" }

// Models lists every persisted entity.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Customer{},
		&domain.Appointment{},
		&domain.Interview{},
		&domain.Offer{},
		&domain.Task{},
		&domain.Notification{},
		&domain.Reconciliation{},
		&domain.ERPSettings{},
		&domain.StockItem{},
		&domain.Invoice{},
		&domain.EmailDraft{},
		&domain.AISettings{},
		&domain.LeaveRequest{},
		&domain.KmRecord{},
		&domain.Setting{},
	}
}

// Migrate brings the schema up to SchemaVersion and records it.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMeta{}); err != nil {
		return &StorageError{Op: "migrate", Table: "schema_meta", Err: err}
	}

	var meta schemaMeta
	err := db.Take(&meta, 1).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return &StorageError{Op: "migrate", Table: "schema_meta", Err: err}
	case meta.Version > SchemaVersion:
		return fmt.Errorf("%w: have %d, build supports %d", ErrSchemaTooNew, meta.Version, SchemaVersion)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return &StorageError{Op: "migrate", Table: "*", Err: err}
	}

	meta = schemaMeta{ID: 1, Version: SchemaVersion, MigratedAt: time.Now().UTC()}
	if err := db.Save(&meta).Error; err != nil {
		return &StorageError{Op: "migrate", Table: "schema_meta", Err: err}
	}
	return nil
}

// Version reads the recorded schema version, zero when never migrated.
func Version(ctx context.Context, db *gorm.DB) (int, error) {
	var meta schemaMeta
	err := db.WithContext(ctx).Take(&meta, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, &StorageError{Op: "version", Table: "schema_meta", Err: err}
	}
	return meta.Version, nil
}
