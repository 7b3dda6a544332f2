package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/events"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - no schema
// 1 - inventory, schedule and append-only stock_logs
const currentSchemaVersion = 1

// timeLayout is fixed width so that text ordering matches chronological ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Option configures a Store
type Option func(*Store)

// WithFeed shares a change feed with the store
func WithFeed(feed *events.Feed) Option {
	return func(s *Store) { s.feed = feed }
}

// WithClock sets the clock used to stamp change events
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store is a SQLite implementation of repositories.Store.
//
// Write groups run in BEGIN IMMEDIATE transactions, so the write lock is taken before
// the group reads anything and every read inside it is fresh. Quantity changes are
// additionally applied as compare-and-swap updates against the value read.
type Store struct {
	db     *sql.DB
	feed   *events.Feed
	now    func() time.Time
	logger *slog.Logger
}

// Verify interface compliance
var _ repositories.Store = (*Store)(nil)

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode so readers never block on the writer
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - immediate transaction locking
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("open database: empty path")
	}

	db, err := sql.Open("sqlite3", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{db: db, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.feed == nil {
		s.feed = events.NewFeed(s.logger)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Feed returns the change feed subscribers are attached to
func (s *Store) Feed() *events.Feed {
	return s.feed
}

// Subscribe registers handler for changes committed through this store
func (s *Store) Subscribe(handler repositories.ChangeHandler, collections ...repositories.Collection) func() {
	return s.feed.Subscribe(handler, collections...)
}

// RunInTransaction runs fn in a database transaction and commits its writes as one group
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repositories.Transaction) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback() // No-op if committed

	tx := &transaction{ctx: ctx, tx: sqlTx, now: s.now()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		s.logger.Warn("write group rejected", "changes", len(tx.changes), "error", err)
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.feed.Publish(tx.changes...)
	return nil
}

// applyPragmas sets required SQLite configuration
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and records the schema version
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// transaction implements repositories.Transaction over a *sql.Tx
type transaction struct {
	ctx     context.Context
	tx      *sql.Tx
	now     time.Time
	changes []repositories.ChangeEvent
}

func (t *transaction) record(collection repositories.Collection, op repositories.ChangeOp, id string) {
	t.changes = append(t.changes, events.NewChange(collection, op, id, t.now))
}
