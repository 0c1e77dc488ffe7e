package server

import (
	"fmt"
	"time"

	"github.com/Alp4ka/keyset/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase opens the configured dialect and migrates the models.
func OpenDatabase(cfg config.DatabaseConf) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported dialect '%s'", cfg.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: now,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open %s database: %w", cfg.Dialect, err)
	}

	if cfg.Dialect == "sqlite" {
		// An in-memory database exists per connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err = db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("cannot migrate: %w", err)
	}

	return db, nil
}

// now is the clock of automatic timestamps. Temporal cursors hold epoch
// seconds, so stored values must not be finer than that.
func now() time.Time {
	return normalizeTime(time.Now())
}
