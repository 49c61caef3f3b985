package db_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/notes-rest/internal/db"
	"github.com/kuitang/notes-rest/internal/errs"
	"github.com/kuitang/notes-rest/internal/notes"
	"github.com/kuitang/notes-rest/internal/testdb"
)

var storeCounter int
var storeCounterMu sync.Mutex

func newTestStore(t *testing.T) *db.NoteStore {
	t.Helper()

	storeCounterMu.Lock()
	storeCounter++
	name := fmt.Sprintf("notestore-test-%d", storeCounter)
	storeCounterMu.Unlock()

	store, err := testdb.NewNoteStoreInMemory(name)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreate(t *testing.T, store *db.NoteStore, title, content string, published bool) *notes.Note {
	t.Helper()
	note, err := store.Create(context.Background(), uuid.New().String(), title, content, published)
	require.NoError(t, err)
	return note
}

func TestCreate_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := uuid.New().String()
	created, err := store.Create(ctx, id, "First Note", "Some content", true)
	require.NoError(t, err)

	require.Equal(t, id, created.ID)
	require.Equal(t, "First Note", created.Title)
	require.Equal(t, "Some content", created.Content)
	require.True(t, created.IsPublished)
	require.NotNil(t, created.CreatedAt)
	require.NotNil(t, created.UpdatedAt)
	require.False(t, created.UpdatedAt.Before(*created.CreatedAt))

	fetched, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, created, fetched)
}

func TestCreate_DuplicateTitleIsConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, store, "Unique Title", "one", false)

	_, err := store.Create(ctx, uuid.New().String(), "Unique Title", "two", false)
	require.Error(t, err)
	require.Equal(t, errs.Conflict, errs.CodeOf(err))
}

func TestGetByID_MissingIsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), uuid.New().String())
	require.Error(t, err)
	require.Equal(t, errs.NotFound, errs.CodeOf(err))
}

func TestUpdate_MissingIsNotFound(t *testing.T) {
	store := newTestStore(t)

	title := "new title"
	_, err := store.Update(context.Background(), uuid.New().String(), notes.NotePatch{Title: &title})
	require.Error(t, err)
	require.Equal(t, errs.NotFound, errs.CodeOf(err))
}

func TestUpdate_PartialPatchPreservesOtherFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, "Original Title", "original content", false)

	// The schema stores millisecond timestamps; make sure the update lands
	// in a later millisecond.
	time.Sleep(20 * time.Millisecond)

	newContent := "rewritten content"
	updated, err := store.Update(ctx, created.ID, notes.NotePatch{Content: &newContent})
	require.NoError(t, err)

	require.Equal(t, "Original Title", updated.Title)
	require.Equal(t, "rewritten content", updated.Content)
	require.False(t, updated.IsPublished)
	require.Equal(t, *created.CreatedAt, *updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(*created.UpdatedAt),
		"updated_at %v should advance past %v", updated.UpdatedAt, created.UpdatedAt)
}

func TestUpdate_PublishFlagOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, "Draft", "body", false)

	published := true
	updated, err := store.Update(ctx, created.ID, notes.NotePatch{IsPublished: &published})
	require.NoError(t, err)
	require.True(t, updated.IsPublished)
	require.Equal(t, created.Title, updated.Title)
	require.Equal(t, created.Content, updated.Content)
}

func TestUpdate_DuplicateTitleIsConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, store, "Taken", "a", false)
	other := mustCreate(t, store, "Free", "b", false)

	taken := "Taken"
	_, err := store.Update(ctx, other.ID, notes.NotePatch{Title: &taken})
	require.Error(t, err)
	require.Equal(t, errs.Conflict, errs.CodeOf(err))
}

func TestUpdate_ConcurrentDisjointFieldsBothSurvive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, "Contended", "original", false)

	newContent := "updated content"
	published := true

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := store.Update(ctx, created.ID, notes.NotePatch{Content: &newContent})
		errCh <- err
	}()
	go func() {
		defer wg.Done()
		_, err := store.Update(ctx, created.ID, notes.NotePatch{IsPublished: &published})
		errCh <- err
	}()
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	final, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "updated content", final.Content)
	require.True(t, final.IsPublished)
	require.Equal(t, "Contended", final.Title)
}

func TestList_PaginationWindows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreate(t, store, fmt.Sprintf("Note %d", i), "content", false)
	}

	page1, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := store.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	page3, err := store.List(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, page3, 1)

	// Windows must not overlap.
	seen := map[string]bool{}
	for _, n := range append(append(page1, page2...), page3...) {
		require.False(t, seen[n.ID], "note %s appeared in two windows", n.ID)
		seen[n.ID] = true
	}
	require.Len(t, seen, 5)
}

func TestList_ZeroLimitReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, store, "Only", "content", false)

	result, err := store.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, result)
}

func TestList_OffsetPastEndReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, store, "Only", "content", false)

	result, err := store.List(ctx, 10, 100)
	require.NoError(t, err)
	require.Empty(t, result)
}

func TestCreate_CanceledContextIsUnavailable(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, uuid.New().String(), "Never", "content", false)
	require.Error(t, err)
	require.Equal(t, errs.Unavailable, errs.CodeOf(err))
}

func TestFormatStoreTime_MatchesSchemaPrecision(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)
	require.Equal(t, "2026-03-14T15:09:26.535Z", db.FormatStoreTime(ts))
}
