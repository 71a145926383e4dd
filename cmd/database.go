package cmd

import (
	"fmt"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// initDB opens one pgx pool and shares it between sqlx (read side) and gorm.
func initDB(cfg internal.DatabaseConfig, debug bool) (*gorm.DB, *sqlx.DB, error) {
	const driver = "pgx"

	readDB, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	readDB.SetMaxIdleConns(cfg.MaxIdleConns)
	readDB.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		readDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		readDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	level := gormLogger.Warn
	if debug {
		level = gormLogger.Info
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: readDB.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		_ = readDB.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return db, readDB, nil
}
