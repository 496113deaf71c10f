package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/timmy/brandshot/internal/domain"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "screenshots.json"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

func TestSaveAssignsIDAndTimestamps(t *testing.T) {
	s := tempStore(t)

	rec, err := s.Save(domain.ScreenshotRecord{
		URL:    "https://example.com",
		Status: domain.ScreenshotStatusPending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected generated ID")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("expected timestamps assigned")
	}
}

func TestGetAllNewestFirst(t *testing.T) {
	s := tempStore(t)

	first, _ := s.Save(domain.ScreenshotRecord{URL: "https://a.example.com"})
	second, _ := s.Save(domain.ScreenshotRecord{URL: "https://b.example.com"})
	third, _ := s.Save(domain.ScreenshotRecord{URL: "https://c.example.com"})

	all := s.GetAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].ID != third.ID || all[1].ID != second.ID || all[2].ID != first.ID {
		t.Errorf("expected newest-first order, got %s, %s, %s", all[0].URL, all[1].URL, all[2].URL)
	}
}

func TestCorruptedFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenshots.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("expected corrupted store to open, got %v", err)
	}
	if got := len(s.GetAll()); got != 0 {
		t.Errorf("expected empty store, got %d records", got)
	}

	// The store must still accept new writes.
	if _, err := s.Save(domain.ScreenshotRecord{URL: "https://example.com"}); err != nil {
		t.Errorf("unexpected error saving after corruption: %v", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenshots.json")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	saved, err := s.Save(domain.ScreenshotRecord{URL: "https://example.com", Status: domain.ScreenshotStatusPending})
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	all := reopened.GetAll()
	if len(all) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(all))
	}
	if all[0].ID != saved.ID {
		t.Errorf("expected record %s, got %s", saved.ID, all[0].ID)
	}
}

func TestUpdateStatus(t *testing.T) {
	s := tempStore(t)

	rec, _ := s.Save(domain.ScreenshotRecord{URL: "https://example.com", Status: domain.ScreenshotStatusPending})

	if !s.UpdateStatus(rec.ID, StatusUpdate{
		Status:    domain.ScreenshotStatusCompleted,
		ImageData: "data:image/png;base64,AAAA",
	}) {
		t.Fatal("expected update to succeed")
	}
	if s.UpdateStatus("missing", StatusUpdate{Status: domain.ScreenshotStatusFailed}) {
		t.Error("expected false for unknown record")
	}

	all := s.GetAll()
	if all[0].Status != domain.ScreenshotStatusCompleted {
		t.Errorf("expected completed, got %s", all[0].Status)
	}
	if all[0].ImageData == "" {
		t.Error("expected image data set")
	}
}

func TestMarkCompletedIsMonotonic(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	rec, _ := s.Save(domain.ScreenshotRecord{URL: "https://example.com", Status: domain.ScreenshotStatusPending})

	if err := s.MarkFailed(ctx, rec.ID, "render failed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A terminal record must not transition again.
	if err := s.MarkCompleted(ctx, rec.ID, &domain.ScreenshotRecord{ImageData: "data:image/png;base64,AAAA"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := s.GetAll()
	if all[0].Status != domain.ScreenshotStatusFailed {
		t.Errorf("expected record to stay failed, got %s", all[0].Status)
	}
	if all[0].ImageData != "" {
		t.Error("expected no image data on failed record")
	}
}

func TestGetPendingReturnsOnlyPending(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	pending, _ := s.Save(domain.ScreenshotRecord{URL: "https://a.example.com", Status: domain.ScreenshotStatusPending})
	done, _ := s.Save(domain.ScreenshotRecord{URL: "https://b.example.com", Status: domain.ScreenshotStatusPending})
	if err := s.MarkCompleted(ctx, done.ID, &domain.ScreenshotRecord{ImageData: "data:image/png;base64,AAAA"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 pending record, got %d", len(got))
	}
	if got[0].ID != pending.ID {
		t.Errorf("expected pending record %s, got %s", pending.ID, got[0].ID)
	}
}

func TestAttachHighlights(t *testing.T) {
	s := tempStore(t)

	rec, _ := s.Save(domain.ScreenshotRecord{URL: "https://example.com"})

	highlights := []domain.Highlight{
		{
			ID:          "h1",
			Bounds:      domain.Bounds{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2},
			Explanation: "primary CTA",
			Category:    domain.HighlightCategoryCTA,
		},
	}
	if !s.AttachHighlights(rec.ID, highlights) {
		t.Fatal("expected highlights attached")
	}
	if s.AttachHighlights("missing", highlights) {
		t.Error("expected false for unknown record")
	}

	all := s.GetAll()
	if len(all[0].Highlights) != 1 || all[0].Highlights[0].ID != "h1" {
		t.Errorf("expected attached highlight, got %+v", all[0].Highlights)
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)

	rec, _ := s.Save(domain.ScreenshotRecord{URL: "https://example.com"})

	if !s.Delete(rec.ID) {
		t.Error("expected delete to succeed")
	}
	if s.Delete(rec.ID) {
		t.Error("expected second delete to fail")
	}
	if got := len(s.GetAll()); got != 0 {
		t.Errorf("expected empty store, got %d records", got)
	}
}
