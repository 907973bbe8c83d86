package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, then applies any
// idempotent SQL patches that the SQL migrations may have missed on older
// deployments. Schema is managed exclusively via the migrations/ directory;
// AutoMigrate stays off so decimal precision and constraints remain under
// explicit DDL control.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that migrations added after initial
// deployment. Each statement is guarded by an existence check so re-running on
// an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// retry columns on event_deliveries — ADD COLUMN IF NOT EXISTS is idempotent
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'event_deliveries') THEN
		    ALTER TABLE event_deliveries ADD COLUMN IF NOT EXISTS retry_count   INT         NOT NULL DEFAULT 0;
		    ALTER TABLE event_deliveries ADD COLUMN IF NOT EXISTS next_retry_at TIMESTAMPTZ;
		    ALTER TABLE event_deliveries ADD COLUMN IF NOT EXISTS last_error    TEXT;
		  END IF;
		END $$`,
		// partial index for the retry cron query
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'event_deliveries')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_event_deliveries_pending_retry') THEN
		    CREATE INDEX idx_event_deliveries_pending_retry
		        ON event_deliveries (next_retry_at)
		        WHERE status = 'pending' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
