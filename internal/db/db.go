package db

import (
	"fmt"
	"time"

	"github.com/zbigniewzolnierowicz/recipes-api/internal/config"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/db/migrations"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectTimeout = 1 * time.Minute
	retryInterval  = 5 * time.Second
)

// New creates a new database connection and makes sure the schema exists.
func New(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDev() {
		level = gormlogger.Info
	}

	database, err := connectToDatabaseWithRetry(cfg.EnvVars.DatabaseUrl, level)
	if err != nil {
		return nil, err
	}

	if err := migrations.EnsureSchema(database); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return database, nil
}

// connectToDatabaseWithRetry connects to the database and retries if necessary.
func connectToDatabaseWithRetry(databaseURL string, level gormlogger.LogLevel) (*gorm.DB, error) {
	logger.Get().Info("connecting to database")
	var database *gorm.DB
	var err error

	start := time.Now()
	for {
		database, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.NewGormLogger(level),
		})
		if err == nil {
			break
		}
		if time.Since(start) > connectTimeout {
			return nil, fmt.Errorf("could not connect to database after %s: %w", connectTimeout, err)
		}
		logger.Get().Warn("could not connect to database, retrying...", zap.Error(err))
		time.Sleep(retryInterval)
	}

	return database, nil
}
