package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/imagemeta"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/provider"
	"github.com/timmy/brandshot/internal/storage"
	"github.com/timmy/brandshot/internal/vision"
)

// ErrRenderMissingURL marks a terminal-success provider response that
// lacks a render URL: the render is complete but there is nothing to
// fetch. This is a hard error, not a retry condition.
var ErrRenderMissingURL = errors.New("provider reported success without a render URL")

// Provider abstracts the screenshot rendering API so the orchestration
// service can be exercised against a stub in tests.
type Provider interface {
	StartCapture(ctx context.Context, pageURL string, opts provider.CaptureOptions) (*provider.RenderJob, error)
	CheckStatus(ctx context.Context, statusURL string) (*provider.RenderStatus, error)
	FetchImage(ctx context.Context, renderURL string) (string, error)
}

// CaptureDefaults carries the render options applied to every capture.
type CaptureDefaults struct {
	Format   string
	Quality  int
	FullPage bool
}

// CaptureService validates capture requests, starts renders for the
// requested device profiles, and resolves completed renders into image
// payloads.
type CaptureService struct {
	provider Provider
	analyzer vision.Analyzer
	archive  *storage.CaptureArchive
	logger   *logger.Logger
	defaults CaptureDefaults
}

// NewCaptureService creates a new capture orchestration service.
// Parameters:
//   - prov: screenshot provider client.
//   - analyzer: vision analyzer for highlight detection.
//   - archive: optional capture archive; nil disables archiving.
//   - log: logger instance.
//   - defaults: render options applied to every capture.
// Returns:
//   - *CaptureService: initialized service.
func NewCaptureService(prov Provider, analyzer vision.Analyzer, archive *storage.CaptureArchive, log *logger.Logger, defaults CaptureDefaults) *CaptureService {
	return &CaptureService{
		provider: prov,
		analyzer: analyzer,
		archive:  archive,
		logger:   log,
		defaults: defaults,
	}
}

// log returns a logger from context if available, otherwise returns the default logger
func (s *CaptureService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// CaptureMetadata echoes what was requested.
type CaptureMetadata struct {
	URL           string               `json:"url"`
	DeviceProfile domain.DeviceProfile `json:"deviceProfile"`
	RequestedAt   time.Time            `json:"requestedAt"`
}

// CaptureResult is the outcome of one started render.
type CaptureResult struct {
	RenderID  string          `json:"renderId"`
	StatusURL string          `json:"statusUrl"`
	Metadata  CaptureMetadata `json:"metadata"`
}

// CaptureBothRequest asks for captures of one URL across device profiles.
// Both profiles default to true when unset.
type CaptureBothRequest struct {
	URL            string
	CaptureDesktop *bool
	CaptureMobile  *bool
}

// CaptureBothResult holds per-profile results. A field is nil when that
// profile was not requested or its capture failed; there is no atomicity
// across the pair.
type CaptureBothResult struct {
	Desktop      *CaptureResult `json:"desktop,omitempty"`
	Mobile       *CaptureResult `json:"mobile,omitempty"`
	DesktopError string         `json:"desktopError,omitempty"`
	MobileError  string         `json:"mobileError,omitempty"`
}

// validateURL rejects malformed input before any network call is made.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.NewValidationError("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.NewValidationError("URL must use http or https: %q", rawURL)
	}
	if u.Host == "" {
		return domain.NewValidationError("URL missing host: %q", rawURL)
	}
	return nil
}

// Capture starts one render for the given device profile.
// A ValidationError is returned for malformed URLs before the provider
// is contacted.
func (s *CaptureService) Capture(ctx context.Context, rawURL string, device domain.DeviceProfile) (*CaptureResult, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	job, err := s.provider.StartCapture(ctx, rawURL, provider.CaptureOptions{
		Format:        s.defaults.Format,
		FullPage:      s.defaults.FullPage,
		Quality:       s.defaults.Quality,
		DeviceProfile: device,
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldRenderID: job.RenderID,
		"device":             string(device),
	}).Info("Render started")

	return &CaptureResult{
		RenderID:  job.RenderID,
		StatusURL: job.StatusURL,
		Metadata: CaptureMetadata{
			URL:           rawURL,
			DeviceProfile: device,
			RequestedAt:   time.Now(),
		},
	}, nil
}

// CaptureBoth starts one render per requested device profile. Captures
// are issued sequentially; a failure on one profile does not roll back
// the other. The returned error is non-nil only when the URL is invalid
// or every requested capture failed.
func (s *CaptureService) CaptureBoth(ctx context.Context, req CaptureBothRequest) (*CaptureBothResult, error) {
	if err := validateURL(req.URL); err != nil {
		return nil, err
	}

	wantDesktop := req.CaptureDesktop == nil || *req.CaptureDesktop
	wantMobile := req.CaptureMobile == nil || *req.CaptureMobile
	if !wantDesktop && !wantMobile {
		return nil, domain.NewValidationError("at least one device profile must be requested")
	}

	result := &CaptureBothResult{}
	var firstErr error

	if wantDesktop {
		desktop, err := s.Capture(ctx, req.URL, domain.DeviceDesktop)
		if err != nil {
			result.DesktopError = err.Error()
			firstErr = err
			s.log(ctx).WithError(err).Error("Desktop capture failed")
		} else {
			result.Desktop = desktop
		}
	}

	if wantMobile {
		mobile, err := s.Capture(ctx, req.URL, domain.DeviceMobile)
		if err != nil {
			result.MobileError = err.Error()
			if firstErr == nil {
				firstErr = err
			}
			s.log(ctx).WithError(err).Error("Mobile capture failed")
		} else {
			result.Mobile = mobile
		}
	}

	if result.Desktop == nil && result.Mobile == nil {
		return nil, firstErr
	}
	return result, nil
}

// StatusResult is the resolved state of one render. ImageData is set only
// when the provider reported terminal success and the image was fetched.
type StatusResult struct {
	Status    string `json:"status"`
	RenderURL string `json:"renderUrl,omitempty"`
	ImageData string `json:"imageData,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Format    string `json:"format,omitempty"`
}

// CheckStatus polls a provider status URL. On terminal success the final
// image is fetched, probed, and attached; success without a render URL is
// ErrRenderMissingURL.
func (s *CaptureService) CheckStatus(ctx context.Context, statusURL string) (*StatusResult, error) {
	status, err := s.provider.CheckStatus(ctx, statusURL)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{Status: status.Status, RenderURL: status.RenderURL}
	if !provider.IsSuccess(status.Status) {
		return result, nil
	}

	if status.RenderURL == "" {
		return nil, ErrRenderMissingURL
	}

	imageData, err := s.provider.FetchImage(ctx, status.RenderURL)
	if err != nil {
		return nil, err
	}
	result.ImageData = imageData

	if meta, err := imagemeta.ProbeDataURL(imageData); err == nil {
		result.Width = meta.Width
		result.Height = meta.Height
		result.Format = meta.Format
	} else {
		s.log(ctx).WithError(err).Warn("Failed to probe capture dimensions")
	}

	return result, nil
}

// Archive uploads a completed capture to object storage and returns the
// storage key. Archiving is best-effort when storage is not configured.
func (s *CaptureService) Archive(ctx context.Context, recordID, imageData string) (string, error) {
	if s.archive == nil {
		return "", nil
	}
	return s.archive.PutCapture(ctx, recordID, imageData)
}

// Analyze runs highlight detection on a captured image through the
// configured vision backend.
func (s *CaptureService) Analyze(ctx context.Context, imageData string) ([]domain.Highlight, error) {
	if imageData == "" {
		return nil, domain.NewValidationError("imageData is required")
	}

	start := time.Now()
	highlights, err := s.analyzer.Analyze(ctx, imageData)
	if err != nil {
		return nil, err
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldCount:      len(highlights),
		logger.FieldProvider:   s.analyzer.Name(),
	}).Info(ctx, "Vision analysis completed")

	return highlights, nil
}
