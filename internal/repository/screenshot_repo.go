package repository

import (
	"context"
	"errors"

	"github.com/timmy/brandshot/internal/domain"
	"gorm.io/gorm"
)

// ScreenshotRepository handles screenshot record persistence.
type ScreenshotRepository struct {
	db *gorm.DB
}

// NewScreenshotRepository creates a new ScreenshotRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ScreenshotRepository: repository instance bound to db.
func NewScreenshotRepository(db *gorm.DB) *ScreenshotRepository {
	return &ScreenshotRepository{db: db}
}

// Create inserts a new screenshot record.
func (r *ScreenshotRepository) Create(ctx context.Context, rec *domain.ScreenshotRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// GetByID retrieves a record by its ID.
// Returns a NotFoundError when no record exists.
func (r *ScreenshotRepository) GetByID(ctx context.Context, id string) (*domain.ScreenshotRecord, error) {
	var rec domain.ScreenshotRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "screenshot", ID: id}
		}
		return nil, err
	}
	return &rec, nil
}

// List retrieves records newest-first with pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.ScreenshotRecord: matching records.
//   - int64: total record count for the envelope.
//   - error: non-nil if the query fails.
func (r *ScreenshotRepository) List(ctx context.Context, limit, offset int) ([]domain.ScreenshotRecord, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.ScreenshotRecord{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recs []domain.ScreenshotRecord
	if err := r.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	return recs, count, nil
}

// GetPending retrieves pending records in insertion order for the poller.
func (r *ScreenshotRepository) GetPending(ctx context.Context) ([]domain.ScreenshotRecord, error) {
	var recs []domain.ScreenshotRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", domain.ScreenshotStatusPending).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// MarkCompleted transitions a pending record to completed with its image.
// The status filter in the WHERE clause keeps transitions monotonic: a
// record that already reached a terminal status is never rewritten.
func (r *ScreenshotRepository) MarkCompleted(ctx context.Context, id string, update *domain.ScreenshotRecord) error {
	return r.db.WithContext(ctx).
		Model(&domain.ScreenshotRecord{}).
		Where("id = ? AND status = ?", id, domain.ScreenshotStatusPending).
		Updates(map[string]interface{}{
			"status":      domain.ScreenshotStatusCompleted,
			"image_data":  update.ImageData,
			"storage_key": update.StorageKey,
			"width":       update.Width,
			"height":      update.Height,
			"format":      update.Format,
		}).Error
}

// MarkFailed transitions a pending record to failed with an error message.
func (r *ScreenshotRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.db.WithContext(ctx).
		Model(&domain.ScreenshotRecord{}).
		Where("id = ? AND status = ?", id, domain.ScreenshotStatusPending).
		Updates(map[string]interface{}{
			"status": domain.ScreenshotStatusFailed,
			"error":  reason,
		}).Error
}

// AttachHighlights stores the analysis result on a record.
func (r *ScreenshotRepository) AttachHighlights(ctx context.Context, id string, highlights domain.HighlightList) error {
	return r.db.WithContext(ctx).
		Model(&domain.ScreenshotRecord{}).
		Where("id = ?", id).
		Update("highlights", highlights).Error
}

// Delete removes a record by ID.
func (r *ScreenshotRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.ScreenshotRecord{}, "id = ?", id).Error
}
