package service

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/provider"
)

// DefaultPollInterval is the fixed delay between poller ticks.
const DefaultPollInterval = 3 * time.Second

// RecordStore is the slice of a screenshot store the poller needs. Both
// the database repository and the file store satisfy it.
type RecordStore interface {
	GetPending(ctx context.Context) ([]domain.ScreenshotRecord, error)
	MarkCompleted(ctx context.Context, id string, update *domain.ScreenshotRecord) error
	MarkFailed(ctx context.Context, id, reason string) error
}

// StatusPoller drives pending screenshot records to a terminal state by
// checking their provider status URLs on a fixed interval. Records are
// checked sequentially in stored order; a transient check failure leaves
// the record pending for the next tick.
type StatusPoller struct {
	capture  *CaptureService
	stores   []RecordStore
	interval time.Duration
	logger   *logger.Logger
}

// NewStatusPoller creates a poller over one or more record stores.
// Parameters:
//   - capture: service used to resolve status URLs.
//   - interval: tick interval; DefaultPollInterval when <= 0.
//   - log: logger instance.
//   - stores: stores scanned for pending records each tick.
// Returns:
//   - *StatusPoller: initialized poller.
func NewStatusPoller(capture *CaptureService, interval time.Duration, log *logger.Logger, stores ...RecordStore) *StatusPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusPoller{
		capture:  capture,
		stores:   stores,
		interval: interval,
		logger:   log,
	}
}

// Run blocks until ctx is cancelled, ticking at the configured interval.
// The interval is fixed: there is no backoff and no cap on how long a
// record may stay pending.
func (p *StatusPoller) Run(ctx context.Context) {
	ctx = logger.SetComponent(ctx, "poller")
	p.logger.WithField("interval", p.interval.String()).Info("Status poller started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Status poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// PollOnce runs a single resolution pass outside the ticker loop.
func (p *StatusPoller) PollOnce(ctx context.Context) {
	p.tick(ctx)
}

// tick scans every store for pending records and resolves each in turn.
func (p *StatusPoller) tick(ctx context.Context) {
	for _, store := range p.stores {
		pending, err := store.GetPending(ctx)
		if err != nil {
			p.logger.WithError(err).Error("Failed to list pending records")
			continue
		}
		for i := range pending {
			p.resolve(ctx, store, &pending[i])
		}
	}
}

// resolve performs one status check for one record. Terminal provider
// states cause a single status write; anything transient is skipped and
// retried on the next tick.
func (p *StatusPoller) resolve(ctx context.Context, store RecordStore, rec *domain.ScreenshotRecord) {
	log := p.logger.WithFields(logger.Fields{
		logger.FieldRecordID: rec.ID,
		logger.FieldRenderID: rec.RenderID,
	})

	if rec.StatusURL == "" {
		if err := store.MarkFailed(ctx, rec.ID, "record has no status URL"); err != nil {
			log.WithError(err).Error("Failed to mark record failed")
		}
		return
	}

	result, err := p.capture.CheckStatus(ctx, rec.StatusURL)
	if err != nil {
		if errors.Is(err, ErrRenderMissingURL) {
			if err := store.MarkFailed(ctx, rec.ID, err.Error()); err != nil {
				log.WithError(err).Error("Failed to mark record failed")
			}
			return
		}
		// Transient: the record stays pending and is retried next tick.
		log.WithError(err).Warn("Status check failed, will retry")
		return
	}

	switch {
	case provider.IsSuccess(result.Status):
		update := &domain.ScreenshotRecord{
			ImageData: result.ImageData,
			Width:     result.Width,
			Height:    result.Height,
			Format:    result.Format,
		}
		if key, err := p.capture.Archive(ctx, rec.ID, result.ImageData); err != nil {
			log.WithError(err).Warn("Failed to archive capture")
		} else {
			update.StorageKey = key
		}
		if err := store.MarkCompleted(ctx, rec.ID, update); err != nil {
			log.WithError(err).Error("Failed to mark record completed")
			return
		}
		log.Info("Record completed")
	case provider.IsFailure(result.Status):
		if err := store.MarkFailed(ctx, rec.ID, "provider reported render failure"); err != nil {
			log.WithError(err).Error("Failed to mark record failed")
			return
		}
		log.Info("Record failed")
	default:
		log.WithField(logger.FieldStatus, result.Status).Debug("Record still pending")
	}
}
