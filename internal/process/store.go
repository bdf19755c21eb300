package process

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"retitle/internal/config"
)

// ErrNotFound is returned when a process row does not exist.
var ErrNotFound = errors.New("process not found")

// Store manages process persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const processColumns = "id, title, project, ruleset, swapped_out, created_at, updated_at"

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the process database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database answers queries.
func (s *Store) Ping(ctx context.Context) error {
	var n int
	return s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM processes").Scan(&n)
}

// Create inserts a new process record.
func (s *Store) Create(ctx context.Context, title, project, ruleset string) (*Process, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO processes (title, project, ruleset, swapped_out, created_at, updated_at)
         VALUES (?, ?, ?, 0, ?, ?)`,
		title,
		strings.TrimSpace(project),
		strings.TrimSpace(ruleset),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert process: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a process by identifier. A missing row yields nil, nil.
func (s *Store) GetByID(ctx context.Context, id int64) (*Process, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+processColumns+` FROM processes WHERE id = ?`, id)
	p, err := scanProcess(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get process: %w", err)
	}
	return p, nil
}

// List returns all processes ordered by identifier.
func (s *Store) List(ctx context.Context) ([]*Process, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+processColumns+` FROM processes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	defer rows.Close()

	var out []*Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("scan process: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processes: %w", err)
	}
	return out, nil
}

// Save persists the mutable fields of an existing process.
func (s *Store) Save(ctx context.Context, p *Process) error {
	if p == nil {
		return errors.New("process is nil")
	}
	updated := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE processes
         SET title = ?, project = ?, ruleset = ?, swapped_out = ?, updated_at = ?
         WHERE id = ?`,
		p.Title,
		p.Project,
		p.Ruleset,
		boolToInt(p.SwappedOut),
		updated.Format(time.RFC3339Nano),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update process: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update process: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update process %d: %w", p.ID, ErrNotFound)
	}
	p.UpdatedAt = updated
	return nil
}

// SetSwapped marks a process's data as swapped out (or back in).
func (s *Store) SetSwapped(ctx context.Context, id int64, swapped bool) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE processes SET swapped_out = ?, updated_at = ? WHERE id = ?`,
		boolToInt(swapped),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update swap state: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update swap state %d: %w", id, ErrNotFound)
	}
	return nil
}

// AddLog appends a message to a process log.
func (s *Store) AddLog(ctx context.Context, processID int64, level LogLevel, message string) error {
	if _, ok := ParseLogLevel(string(level)); !ok {
		return fmt.Errorf("add process log: unknown level %q", level)
	}
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO process_log (process_id, level, message, created_at) VALUES (?, ?, ?, ?)`,
		processID,
		string(level),
		message,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("add process log: %w", err)
	}
	return nil
}

// Log returns the log entries of a process, oldest first.
func (s *Store) Log(ctx context.Context, processID int64) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT id, process_id, level, message, created_at FROM process_log WHERE process_id = ? ORDER BY id`,
		processID,
	)
	if err != nil {
		return nil, fmt.Errorf("query process log: %w", err)
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var (
			entry      LogEntry
			level      string
			createdRaw string
		)
		if err := rows.Scan(&entry.ID, &entry.ProcessID, &level, &entry.Message, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan process log: %w", err)
		}
		entry.Level = LogLevel(level)
		if created, err := parseTimeString(createdRaw); err == nil {
			entry.CreatedAt = created
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate process log: %w", err)
	}
	return out, nil
}

func scanProcess(scanner interface{ Scan(dest ...any) error }) (*Process, error) {
	var (
		p          Process
		swapped    int64
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&p.ID, &p.Title, &p.Project, &p.Ruleset, &swapped, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	p.SwappedOut = swapped != 0
	if created, err := parseTimeString(createdRaw); err == nil {
		p.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		p.UpdatedAt = updated
	}
	return &p, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
