// Package store provides the local record store backing the
// unauthenticated demo workflow: a single file holding one JSON array of
// screenshot records, with no schema versioning.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/logger"
)

// FileStore persists screenshot records as a JSON array in one file.
// Reads of a corrupted payload degrade to an empty list rather than
// failing; only out-of-space write errors are surfaced to callers, so UI
// polling loops stay resilient to transient serialization errors.
// Assumes a single process owns the file.
type FileStore struct {
	path string

	mu      sync.Mutex
	records []domain.ScreenshotRecord
}

// StatusUpdate is a partial update applied by UpdateStatus.
type StatusUpdate struct {
	Status    domain.ScreenshotStatus
	ImageData string
	Error     string
}

// Open loads the store from disk, creating the directory if needed.
func Open(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	s := &FileStore{path: path}
	s.records = s.load()
	return s, nil
}

// load reads the JSON array from disk. Any read or decode failure
// degrades to an empty list.
func (s *FileStore) load() []domain.ScreenshotRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []domain.ScreenshotRecord{}
	}

	var records []domain.ScreenshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("Record store payload corrupted, starting empty: %v", err)
		return []domain.ScreenshotRecord{}
	}
	return records
}

// persist writes the full array back to disk. Returns ErrStoreFull for
// out-of-space errors; any other failure is logged and swallowed.
func (s *FileStore) persist() error {
	data, err := json.Marshal(s.records)
	if err != nil {
		logger.Error("Failed to encode record store: %v", err)
		return nil
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
			return domain.ErrStoreFull
		}
		logger.Error("Failed to write record store: %v", err)
		return nil
	}
	return nil
}

// Save persists a record, generating an ID and timestamps.
// Parameters:
//   - rec: record to persist; ID and CreatedAt are assigned here.
// Returns:
//   - *domain.ScreenshotRecord: the persisted record.
//   - error: domain.ErrStoreFull when storage is exhausted; nil otherwise.
func (s *FileStore) Save(rec domain.ScreenshotRecord) (*domain.ScreenshotRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.New().String()
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.records = append(s.records, rec)
	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return nil, err
	}
	return &rec, nil
}

// UpdateStatus applies a partial update to one record.
// Returns false when the record does not exist or the write failed
// silently.
func (s *FileStore) UpdateStatus(id string, update StatusUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if update.Status != "" {
			s.records[i].Status = update.Status
		}
		if update.ImageData != "" {
			s.records[i].ImageData = update.ImageData
		}
		if update.Error != "" {
			s.records[i].Error = update.Error
		}
		s.records[i].UpdatedAt = time.Now()
		return s.persist() == nil
	}
	return false
}

// AttachHighlights replaces a record's analysis results.
// Returns false when the record does not exist.
func (s *FileStore) AttachHighlights(id string, highlights []domain.Highlight) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		s.records[i].Highlights = domain.HighlightList(highlights)
		s.records[i].UpdatedAt = time.Now()
		return s.persist() == nil
	}
	return false
}

// GetAll returns all records sorted newest-first.
func (s *FileStore) GetAll() []domain.ScreenshotRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ScreenshotRecord, len(s.records))
	// Insertion order is oldest-first; reverse for newest-first.
	for i, rec := range s.records {
		out[len(s.records)-1-i] = rec
	}
	return out
}

// GetPending returns pending records in insertion order, matching the
// order the poller processes them in.
func (s *FileStore) GetPending(ctx context.Context) ([]domain.ScreenshotRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ScreenshotRecord
	for _, rec := range s.records {
		if rec.Status == domain.ScreenshotStatusPending {
			out = append(out, rec)
		}
	}
	return out, nil
}

// MarkCompleted transitions a pending record to completed with its image.
// A record already in a terminal status is left untouched.
func (s *FileStore) MarkCompleted(ctx context.Context, id string, update *domain.ScreenshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id || s.records[i].Status != domain.ScreenshotStatusPending {
			continue
		}
		s.records[i].Status = domain.ScreenshotStatusCompleted
		s.records[i].ImageData = update.ImageData
		s.records[i].StorageKey = update.StorageKey
		s.records[i].Width = update.Width
		s.records[i].Height = update.Height
		s.records[i].Format = update.Format
		s.records[i].UpdatedAt = time.Now()
		return s.persist()
	}
	return nil
}

// MarkFailed transitions a pending record to failed.
func (s *FileStore) MarkFailed(ctx context.Context, id string, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id || s.records[i].Status != domain.ScreenshotStatusPending {
			continue
		}
		s.records[i].Status = domain.ScreenshotStatusFailed
		s.records[i].Error = reason
		s.records[i].UpdatedAt = time.Now()
		return s.persist()
	}
	return nil
}

// Delete removes one record. Returns false when the record is absent.
func (s *FileStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.persist() == nil
		}
	}
	return false
}

// Clear removes all records.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = []domain.ScreenshotRecord{}
	_ = s.persist()
}
