package db

// Schema contains the SQL statements for the notes database.
//
// Timestamps are stored as RFC 3339 text with millisecond precision and are
// assigned by the store: defaults cover creation, the trigger refreshes
// updated_at on every row update. Title uniqueness is enforced here so a
// violation always surfaces as a constraint error, never as a silent
// overwrite.
const Schema = `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY CHECK(length(id) = 36),
    title TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    is_published INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at);

-- Trigger: refresh updated_at on every row update. Recursive triggers are
-- off by default in SQLite, so the inner UPDATE does not re-fire this.
CREATE TRIGGER IF NOT EXISTS notes_touch_updated_at AFTER UPDATE ON notes
FOR EACH ROW
BEGIN
    UPDATE notes SET updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
    WHERE id = NEW.id;
END;
`
