// Package notes implements the note lifecycle rules: identifier generation,
// defaulting, pagination arithmetic, and partial-update delegation. It has no
// knowledge of HTTP; transport adaptation lives in internal/api.
package notes

import (
	"context"

	"github.com/google/uuid"
	"github.com/kuitang/notes-rest/internal/errs"
)

const (
	// DefaultLimit is the page size used when the caller does not specify one.
	DefaultLimit = 10

	// MaxLimit bounds a single list query so one request cannot trigger an
	// unbounded store scan.
	MaxLimit = 1000
)

// Service handles note operations using a Store.
type Service struct {
	store Store
}

// NewService creates a notes service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListNotes retrieves one page of notes. Page defaults to 1 (minimum 1).
// Limit defaults to DefaultLimit when unset, is clamped to MaxLimit, and a
// literal 0 is honored and yields an empty page.
func (s *Service) ListNotes(ctx context.Context, params ListParams) ([]Note, error) {
	page := 1
	if params.Page != nil && *params.Page > 1 {
		page = *params.Page
	}

	limit := DefaultLimit
	if params.Limit != nil {
		limit = *params.Limit
		if limit < 0 {
			limit = DefaultLimit
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
	}

	offset := (page - 1) * limit

	records, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	// Response shape currently equals storage shape; the explicit mapping is
	// kept so the wire contract stays stable if the schema drifts.
	out := make([]Note, 0, len(records))
	for _, rec := range records {
		out = append(out, Note{
			ID:          rec.ID,
			Title:       rec.Title,
			Content:     rec.Content,
			IsPublished: rec.IsPublished,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		})
	}
	return out, nil
}

// CreateNote assigns a fresh v4 UUID, defaults is_published to false when
// omitted, and persists the note. A duplicate title surfaces as a conflict
// error from the store.
func (s *Service) CreateNote(ctx context.Context, params CreateNoteParams) (*Note, error) {
	if params.Title == "" {
		return nil, errs.New(errs.InvalidArgument, "title is required")
	}

	isPublished := false
	if params.IsPublished != nil {
		isPublished = *params.IsPublished
	}

	id := uuid.New().String()
	return s.store.Create(ctx, id, params.Title, params.Content, isPublished)
}

// GetNote retrieves a single note by its identifier.
func (s *Service) GetNote(ctx context.Context, id string) (*Note, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

// UpdateNote applies a partial update. The patch is delegated to the store
// untouched: unspecified fields are preserved there in a single atomic
// statement, so no read-then-merge race exists at this layer.
func (s *Service) UpdateNote(ctx context.Context, id string, patch NotePatch) (*Note, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, patch)
}

// ValidateID checks that id is a canonical 36-character UUID.
// uuid.Parse accepts several alternate encodings (braces, URN, bare hex);
// the length check pins the canonical form the API requires.
func ValidateID(id string) error {
	if len(id) != 36 {
		return errs.New(errs.InvalidArgument, "invalid note id")
	}
	if _, err := uuid.Parse(id); err != nil {
		return errs.Wrap(errs.InvalidArgument, "invalid note id", err)
	}
	return nil
}
