package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sydlexius/kala/internal/cache"
	"github.com/sydlexius/kala/internal/database"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "kala.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db, dbPath
}

func TestStatus(t *testing.T) {
	db, dbPath := setupTestDB(t)
	store := cache.NewSQLite(db, time.Hour)
	ctx := context.Background()
	if err := store.Set(ctx, "a", cache.Entry{ImageURL: "https://example.org/a.jpg", Found: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "b", cache.Entry{}); err != nil {
		t.Fatal(err)
	}

	svc := NewService(db, dbPath, store, testLogger())
	st, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.DBFileSize <= 0 {
		t.Error("expected positive DB file size")
	}
	if st.PageSize <= 0 || st.PageCount <= 0 {
		t.Errorf("page size %d count %d", st.PageSize, st.PageCount)
	}
	if st.Entries != 2 || st.Found != 1 {
		t.Errorf("entries = %d found = %d", st.Entries, st.Found)
	}
	if st.LastRunAt != "" {
		t.Error("expected empty last run time initially")
	}
}

func TestRunPrunesAndRecords(t *testing.T) {
	db, dbPath := setupTestDB(t)
	store := cache.NewSQLite(db, time.Hour)
	ctx := context.Background()

	old := cache.Entry{ImageURL: "https://example.org/old.jpg", Found: true, CachedAt: time.Now().Add(-2 * time.Hour)}
	if err := store.Set(ctx, "old", old); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "fresh", cache.Entry{ImageURL: "https://example.org/new.jpg", Found: true}); err != nil {
		t.Fatal(err)
	}

	svc := NewService(db, dbPath, store, testLogger())
	pruned, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	st, err := svc.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 1 {
		t.Errorf("entries after prune = %d", st.Entries)
	}
	if st.LastRunAt == "" {
		t.Error("expected last run time to be recorded")
	}
}

type failingPruner struct{}

func (failingPruner) Prune(context.Context) (int64, error) {
	return 0, errors.New("disk I/O error")
}

func TestRunPruneError(t *testing.T) {
	db, dbPath := setupTestDB(t)
	svc := NewService(db, dbPath, failingPruner{}, testLogger())
	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected prune error")
	}
}

func TestRunWithoutPruner(t *testing.T) {
	db, dbPath := setupTestDB(t)
	svc := NewService(db, dbPath, nil, testLogger())
	if n, err := svc.Run(context.Background()); err != nil || n != 0 {
		t.Fatalf("Run = %d, %v", n, err)
	}
}

func TestVacuum(t *testing.T) {
	db, dbPath := setupTestDB(t)
	svc := NewService(db, dbPath, nil, testLogger())
	if err := svc.Vacuum(context.Background()); err != nil {
		t.Fatalf("Vacuum: %v", err)
	}
}

func TestStartScheduler(t *testing.T) {
	db, dbPath := setupTestDB(t)
	svc := NewService(db, dbPath, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartScheduler(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := svc.Status(context.Background())
		if err == nil && st.LastRunAt != "" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scheduler never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
