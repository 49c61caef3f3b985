package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/kuitang/notes-rest/internal/errs"
	"github.com/kuitang/notes-rest/internal/notes"
)

// DefaultOpTimeout bounds a single store operation, including time spent
// waiting for a pool connection. Expiry surfaces as errs.Unavailable.
const DefaultOpTimeout = 5 * time.Second

// timeFormat matches the strftime('%Y-%m-%dT%H:%M:%fZ') defaults in the schema.
const timeFormat = "2006-01-02T15:04:05.000Z"

// NoteStore issues parameterized queries against the notes table and maps
// rows to notes.Note values, one-to-one, with no business interpretation.
// It implements notes.Store.
type NoteStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewNoteStore wraps an open database as a NoteStore. timeout of 0 means
// DefaultOpTimeout.
func NewNoteStore(sqlDB *sql.DB, timeout time.Duration) *NoteStore {
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	return &NoteStore{db: sqlDB, timeout: timeout}
}

// DB returns the underlying sql.DB for direct access when needed.
func (s *NoteStore) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *NoteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *NoteStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// List returns one window of notes in store default order.
func (s *NoteStore) List(ctx context.Context, limit, offset int) ([]notes.Note, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, is_published, created_at, updated_at
		FROM notes
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, classify("list notes", err)
	}
	defer rows.Close()

	var result []notes.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, classify("scan note row", err)
		}
		result = append(result, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate note rows", err)
	}
	return result, nil
}

// Create inserts a new note and returns the persisted row including the
// store-assigned timestamps. A duplicate title surfaces as errs.Conflict.
func (s *NoteStore) Create(ctx context.Context, id, title, content string, isPublished bool) (*notes.Note, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, content, is_published)
		VALUES (?, ?, ?, ?)
	`, id, title, content, boolToInt(isPublished))
	if err != nil {
		return nil, classify("create note", err)
	}

	return s.getByID(ctx, id)
}

// GetByID returns the note with the given id, or errs.NotFound.
func (s *NoteStore) GetByID(ctx context.Context, id string) (*notes.Note, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.getByID(ctx, id)
}

func (s *NoteStore) getByID(ctx context.Context, id string) (*notes.Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, is_published, created_at, updated_at
		FROM notes
		WHERE id = ?
	`, id)

	note, err := scanNote(row)
	if err != nil {
		return nil, classify("get note", err)
	}
	return note, nil
}

// Update applies the patch in a single atomic statement. Fields left nil in
// the patch bind NULL and are preserved via COALESCE, so concurrent updates
// to disjoint fields of the same note cannot lose each other's writes. The
// schema trigger refreshes updated_at.
func (s *NoteStore) Update(ctx context.Context, id string, patch notes.NotePatch) (*notes.Note, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			is_published = COALESCE(?, is_published)
		WHERE id = ?
	`, nullableString(patch.Title), nullableString(patch.Content), nullableBool(patch.IsPublished), id)
	if err != nil {
		return nil, classify("update note", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, classify("update note", err)
	}
	if affected == 0 {
		return nil, errs.New(errs.NotFound, "note not found")
	}

	return s.getByID(ctx, id)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*notes.Note, error) {
	var (
		note        notes.Note
		isPublished int64
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &isPublished, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	note.IsPublished = isPublished != 0

	created, err := parseStoreTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseStoreTime(updatedAt)
	if err != nil {
		return nil, err
	}
	note.CreatedAt = created
	note.UpdatedAt = updated
	return &note, nil
}

func parseStoreTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, fmt.Errorf("malformed store timestamp %q: %w", value, err)
	}
	t = t.UTC()
	return &t, nil
}

// FormatStoreTime renders a time the way the store does. Exposed for tests
// that seed rows directly.
func FormatStoreTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

// classify maps raw store errors into the errs taxonomy. Driver error types
// never leak past this function.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errs.New(errs.NotFound, "note not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errs.Wrap(errs.Unavailable, "store unavailable", err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique,
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return errs.Wrap(errs.Conflict, "a note with this title already exists", err)
		case sqliteErr.Code == sqlite3.ErrBusy,
			sqliteErr.Code == sqlite3.ErrLocked,
			sqliteErr.Code == sqlite3.ErrCantOpen:
			return errs.Wrap(errs.Unavailable, "store unavailable", err)
		}
	}

	return errs.Wrap(errs.Internal, op+" failed", err)
}
