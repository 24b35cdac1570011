package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/agenda-engine/internal/config"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Overlap is decided here, not in Go: two live appointments of one provider can never
// share an instant. Cancelled rows leave the constraint so their time is free again.
var constraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_interval_valid') THEN
			ALTER TABLE appointments
				ADD CONSTRAINT appointments_interval_valid CHECK (start_time < end_time);
		END IF;
	END $$`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap') THEN
			ALTER TABLE appointments
				ADD CONSTRAINT appointments_no_overlap EXCLUDE USING gist (
					provider_id WITH =,
					tstzrange(start_time, end_time, '[)') WITH &&
				) WHERE (status <> 'cancelled');
		END IF;
	END $$`,
}

// Migrate creates the schema, installs the overlap constraint and backfills tenant zones.
func Migrate(db *gorm.DB, defaultTimezone string) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Provider{},
		&models.WorkingHours{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
		&models.DeliveryRecord{},
		&models.RunLock{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := installConstraints(db); err != nil {
		return err
	}

	return db.Exec(`
        UPDATE tenants
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, defaultTimezone).Error
}

func installConstraints(db *gorm.DB) error {
	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install constraints: %w", err)
		}
	}
	return nil
}
