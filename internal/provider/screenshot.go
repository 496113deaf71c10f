package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/brandshot/internal/domain"
)

const serviceName = "screenshot provider"

// fetchImageTimeout bounds the final image download. Start and status
// calls carry no explicit deadline; a hung provider call is bounded only
// by the platform request timeout.
const fetchImageTimeout = 60 * time.Second

// Viewport presets sent to the provider per device profile.
var deviceViewports = map[domain.DeviceProfile]struct {
	Width     int
	Height    int
	UserAgent string
}{
	domain.DeviceDesktop: {
		Width:  1920,
		Height: 1080,
	},
	domain.DeviceMobile: {
		Width:     390,
		Height:    844,
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	},
}

// Config holds configuration for the screenshot provider client.
type Config struct {
	BaseURL   string
	AccessKey string
}

// Client talks to the external asynchronous screenshot rendering API:
// submit a render, then poll the provider-issued status URL.
type Client struct {
	client    *resty.Client
	baseURL   string
	accessKey string
}

// CaptureOptions controls one render request.
type CaptureOptions struct {
	Format        string
	FullPage      bool
	Quality       int
	DeviceProfile domain.DeviceProfile
}

// RenderJob identifies a provider-side render and its status-check URL.
type RenderJob struct {
	RenderID  string `json:"renderId"`
	StatusURL string `json:"statusUrl"`
}

// RenderStatus is the provider's opaque status for a render. RenderURL is
// set once the render is terminal-successful.
type RenderStatus struct {
	Status    string `json:"status"`
	RenderURL string `json:"renderUrl,omitempty"`
}

// IsSuccess reports whether a provider status string is terminal-success.
// Only the literal values "succeeded" and "done" qualify.
func IsSuccess(status string) bool {
	return status == "succeeded" || status == "done"
}

// IsFailure reports whether a provider status string is terminal-failure.
func IsFailure(status string) bool {
	return status == "failed"
}

// New creates a new screenshot provider client.
func New(cfg *Config) *Client {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		client:    client,
		baseURL:   cfg.BaseURL,
		accessKey: cfg.AccessKey,
	}
}

type renderRequest struct {
	URL            string `json:"url"`
	Format         string `json:"format"`
	FullPage       bool   `json:"full_page"`
	ImageQuality   int    `json:"image_quality,omitempty"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
	UserAgent      string `json:"user_agent,omitempty"`
	Async          bool   `json:"async"`
}

type renderResponse struct {
	RenderID  string `json:"render_id"`
	StatusURL string `json:"status_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type statusResponse struct {
	Status    string `json:"status"`
	RenderURL string `json:"render_url,omitempty"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StartCapture issues an asynchronous render request.
// Parameters:
//   - ctx: context for cancellation.
//   - pageURL: page to render.
//   - opts: render options including device profile.
// Returns:
//   - *RenderJob: render ID and status-check URL issued by the provider.
//   - error: ExternalServiceError on non-2xx or a response missing required fields.
func (c *Client) StartCapture(ctx context.Context, pageURL string, opts CaptureOptions) (*RenderJob, error) {
	viewport := deviceViewports[opts.DeviceProfile]
	if viewport.Width == 0 {
		viewport = deviceViewports[domain.DeviceDesktop]
	}

	req := renderRequest{
		URL:            pageURL,
		Format:         opts.Format,
		FullPage:       opts.FullPage,
		ImageQuality:   opts.Quality,
		ViewportWidth:  viewport.Width,
		ViewportHeight: viewport.Height,
		UserAgent:      viewport.UserAgent,
		Async:          true,
	}

	var resp renderResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.accessKey).
		SetBody(req).
		SetResult(&resp).
		Post(c.baseURL + "/v1/renders")

	if err != nil {
		return nil, &domain.ExternalServiceError{Service: serviceName, Err: err}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return nil, &domain.ExternalServiceError{Service: serviceName, Err: errors.New(errMsg)}
	}

	if resp.RenderID == "" || resp.StatusURL == "" {
		return nil, &domain.ExternalServiceError{
			Service: serviceName,
			Err:     errors.New("render response missing render_id or status_url"),
		}
	}

	return &RenderJob{RenderID: resp.RenderID, StatusURL: resp.StatusURL}, nil
}

// CheckStatus polls a provider-issued status URL.
// The returned status is the provider's opaque string; callers decide
// terminality via IsSuccess/IsFailure.
func (c *Client) CheckStatus(ctx context.Context, statusURL string) (*RenderStatus, error) {
	var resp statusResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.accessKey).
		SetResult(&resp).
		Get(statusURL)

	if err != nil {
		return nil, &domain.ExternalServiceError{Service: serviceName, Err: err}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, &domain.ExternalServiceError{Service: serviceName, Err: errors.New(errMsg)}
	}

	return &RenderStatus{Status: resp.Status, RenderURL: resp.RenderURL}, nil
}

// FetchImage downloads a completed render and returns it as a base64 data
// URL. An authenticated request is attempted first; on 401/403 the fetch
// is retried once without credentials, since some provider render URLs
// are pre-signed and reject extra auth headers.
// Returns a domain.ErrFetchTimeout-wrapped error when the deadline elapses.
func (c *Client) FetchImage(ctx context.Context, renderURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchImageTimeout)
	defer cancel()

	httpResp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.accessKey).
		Get(renderURL)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", domain.ErrFetchTimeout, fetchImageTimeout)
		}
		return "", &domain.ExternalServiceError{Service: serviceName, Err: err}
	}

	// Pre-signed URLs are public; our credentials can invalidate the signature.
	if httpResp.StatusCode() == http.StatusUnauthorized || httpResp.StatusCode() == http.StatusForbidden {
		httpResp, err = c.client.R().
			SetContext(ctx).
			Get(renderURL)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("%w after %s", domain.ErrFetchTimeout, fetchImageTimeout)
			}
			return "", &domain.ExternalServiceError{Service: serviceName, Err: err}
		}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return "", &domain.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("HTTP %d fetching render", httpResp.StatusCode()),
		}
	}

	body := httpResp.Body()
	contentType := httpResp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	encoded := base64.StdEncoding.EncodeToString(body)
	return fmt.Sprintf("data:%s;base64,%s", contentType, encoded), nil
}
