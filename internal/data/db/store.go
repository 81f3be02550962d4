package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

// StoreMode selects the backing database.
type StoreMode string

const (
	// StoreOffline keeps everything in a local SQLite file.
	StoreOffline StoreMode = "offline"
	// StoreConnected talks to Postgres.
	StoreConnected StoreMode = "connected"
)

func ParseStoreMode(s string) (StoreMode, error) {
	switch StoreMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", StoreOffline:
		return StoreOffline, nil
	case StoreConnected:
		return StoreConnected, nil
	default:
		return "", fmt.Errorf("unknown store mode %q (want offline or connected)", s)
	}
}

type Options struct {
	Mode StoreMode

	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresSSLMode  string

	SlowQuery time.Duration
}

// Store is an open database plus the mode it was opened in.
type Store interface {
	DB() *gorm.DB
	Mode() StoreMode
	Close() error
}

func Open(opts Options, log *logger.Logger) (Store, error) {
	switch opts.Mode {
	case StoreConnected:
		return NewPostgresService(opts, log)
	case StoreOffline, "":
		return NewSQLiteService(opts, log)
	default:
		return nil, fmt.Errorf("unsupported store mode %q", opts.Mode)
	}
}

// gormWriter routes GORM's own logging through the service logger.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func newGormLogger(log *logger.Logger, slow time.Duration) gormLogger.Interface {
	if slow <= 0 {
		slow = time.Second
	}
	return gormLogger.New(gormWriter{log: log}, gormLogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func closeDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
