package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/littercam/littercam/internal/db"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewRepository(database.Conn())
}

func testRecording(sessionID string, seq int) *Recording {
	opened := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(seq) * 5 * time.Minute)
	return &Recording{
		ID:        NewID(),
		SessionID: sessionID,
		Seq:       seq,
		Path:      "/mnt/video_storage/recording_20250601_120000_part00" + string(rune('0'+seq)) + ".mp4",
		Frames:    1500,
		FPS:       29.7,
		OpenedAt:  opened,
		ClosedAt:  opened.Add(5 * time.Minute),
		CreatedAt: opened.Add(5 * time.Minute),
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := testRecording("session-a", 1)
	if err := repo.CreateRecording(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ListSessionRecordings(ctx, "session-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("recordings = %d, want 1", len(got))
	}
	if got[0].ID != rec.ID || got[0].Seq != 1 || got[0].Frames != 1500 {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
	if got[0].FPS != 29.7 {
		t.Errorf("fps = %v, want 29.7", got[0].FPS)
	}
	if !got[0].OpenedAt.Equal(rec.OpenedAt) {
		t.Errorf("opened_at = %v, want %v", got[0].OpenedAt, rec.OpenedAt)
	}
}

func TestRepository_SessionOrderedBySeq(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, seq := range []int{3, 1, 2} {
		if err := repo.CreateRecording(ctx, testRecording("session-b", seq)); err != nil {
			t.Fatalf("create seq %d: %v", seq, err)
		}
	}

	got, err := repo.ListSessionRecordings(ctx, "session-b")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("recordings = %d, want 3", len(got))
	}
	for i, rec := range got {
		if rec.Seq != i+1 {
			t.Errorf("position %d has seq %d", i, rec.Seq)
		}
	}
}

func TestRepository_DuplicateSeqRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateRecording(ctx, testRecording("session-c", 1)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateRecording(ctx, testRecording("session-c", 1)); err == nil {
		t.Error("expected unique constraint error for duplicate (session, seq), got none")
	}
}

func TestRepository_CountAndLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for seq := 1; seq <= 5; seq++ {
		if err := repo.CreateRecording(ctx, testRecording("session-d", seq)); err != nil {
			t.Fatalf("create seq %d: %v", seq, err)
		}
	}

	count, err := repo.CountRecordings(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}

	got, err := repo.ListRecordings(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limited list = %d, want 2", len(got))
	}
}
