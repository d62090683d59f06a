package storage

import (
	"fmt"
	"strings"

	"frontline-server/pkg/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryDSN - общая in-memory база sqlite, для тестов и прогонов без диска.
const MemoryDSN = "file::memory:?cache=shared"

// Config - куда писать журнал боев.
type Config struct {
	Driver string // sqlite | postgres
	Path   string // файл sqlite, пусто - в памяти
	DSN    string // строка подключения postgres
}

// Open подключает базу по конфигу.
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch strings.ToLower(cfg.Driver) {
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres storage requires a DSN")
		}
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		logger.Log.WithField("component", "storage").Info("Connected to Postgres")
		return db, nil

	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = MemoryDSN
		}
		db, err := gorm.Open(sqlite.Open(path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", path, err)
		}
		for _, pragma := range []string{
			"PRAGMA journal_mode = WAL;",
			"PRAGMA synchronous = NORMAL;",
			"PRAGMA foreign_keys = ON;",
		} {
			if err := db.Exec(pragma).Error; err != nil {
				return nil, fmt.Errorf("error setting PRAGMA: %w", err)
			}
		}
		logger.Log.WithField("component", "storage").WithField("path", path).Info("Using SQLite battle journal")
		return db, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
