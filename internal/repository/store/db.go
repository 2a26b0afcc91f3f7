package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/retailpulse/pos-insights/internal/config"
)

// DB wraps the sqlx pool with a semaphore that caps concurrent write
// transactions. SQLite holds a single writer lock, so uncapped writers
// would just pile up on SQLITE_BUSY.
type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

var (
	dbInstance *DB
	dbErr      error
	once       sync.Once
)

// Open connects to the snapshot database. Driver "sqlite3" (the default)
// reads the POS export file; "pgx" targets Postgres with the same schema.
// The first call decides the outcome; repeat calls return the same pool or
// the same connection error.
func Open(cfg *config.DatabaseConfig) (*DB, error) {
	once.Do(func() {
		driver := cfg.Driver
		if driver == "" {
			driver = "sqlite3"
		}

		var db *sqlx.DB
		db, dbErr = sqlx.Connect(driver, dsn(cfg, driver))
		if dbErr != nil {
			return
		}

		maxWriters := int64(10)
		if driver == "sqlite3" {
			// One connection, one writer: sqlite gives no row-level locking.
			db.SetMaxOpenConns(1)
			maxWriters = 1
		} else {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
		}

		dbInstance = &DB{
			DB:  db,
			sem: semaphore.NewWeighted(maxWriters),
		}
	})

	return dbInstance, dbErr
}

func dsn(cfg *config.DatabaseConfig, driver string) string {
	if driver == "sqlite3" {
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.Path)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// WithTx executes a function within a write transaction.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}
