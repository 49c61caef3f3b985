package notes

import (
	"context"
	"time"
)

// Note represents a note record as stored and as served.
type Note struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// CreateNoteParams contains parameters for creating a note.
// IsPublished is a pointer to distinguish "omitted" (defaults to false)
// from an explicit false.
type CreateNoteParams struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPublished *bool  `json:"is_published,omitempty"`
}

// NotePatch contains the optional fields of a partial update.
// A nil field means "leave unchanged"; the store preserves it atomically.
type NotePatch struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// IsEmpty reports whether the patch specifies no fields at all.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.IsPublished == nil
}

// ListParams contains pagination parameters. Nil fields take defaults
// (page 1, limit DefaultLimit).
type ListParams struct {
	Page  *int
	Limit *int
}

// Store is the data access contract the service depends on. It is satisfied
// by db.NoteStore in production and by test doubles in unit tests.
// Implementations classify all failures into errs codes and never surface
// driver-specific error types.
type Store interface {
	List(ctx context.Context, limit, offset int) ([]Note, error)
	Create(ctx context.Context, id, title, content string, isPublished bool) (*Note, error)
	GetByID(ctx context.Context, id string) (*Note, error)
	Update(ctx context.Context, id string, patch NotePatch) (*Note, error)
}
