package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/timmy/brandshot/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return New(&Config{BaseURL: baseURL, AccessKey: "test-key"})
}

func TestStartCapture(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectErr   bool
		errContains string
	}{
		{
			name:   "accepted render",
			status: http.StatusCreated,
			body:   `{"render_id":"r-1","status_url":"https://api.example.com/v1/renders/r-1"}`,
		},
		{
			name:        "provider error status",
			status:      http.StatusUnprocessableEntity,
			body:        `{"error":{"message":"unsupported format"}}`,
			expectErr:   true,
			errContains: "unsupported format",
		},
		{
			name:        "response missing status url",
			status:      http.StatusCreated,
			body:        `{"render_id":"r-1"}`,
			expectErr:   true,
			errContains: "status_url",
		},
		{
			name:        "response missing render id",
			status:      http.StatusCreated,
			body:        `{"status_url":"https://api.example.com/v1/renders/r-1"}`,
			expectErr:   true,
			errContains: "render_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/renders" {
					t.Errorf("expected POST /v1/renders, got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("expected bearer auth header, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			job, err := newTestClient(srv.URL).StartCapture(context.Background(), "https://example.com", CaptureOptions{
				Format:        "webp",
				DeviceProfile: domain.DeviceDesktop,
			})

			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var extErr *domain.ExternalServiceError
				if !errors.As(err, &extErr) {
					t.Fatalf("expected ExternalServiceError, got %T", err)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error to contain %q, got %q", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if job.RenderID != "r-1" {
				t.Errorf("expected render ID r-1, got %q", job.RenderID)
			}
			if job.StatusURL == "" {
				t.Error("expected status URL in render job")
			}
		})
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name              string
		status            int
		body              string
		expectErr         bool
		expectedStatus    string
		expectedRenderURL string
	}{
		{
			name:           "still processing",
			status:         http.StatusOK,
			body:           `{"status":"processing"}`,
			expectedStatus: "processing",
		},
		{
			name:              "succeeded with render url",
			status:            http.StatusOK,
			body:              `{"status":"succeeded","render_url":"https://cdn.example.com/r-1.webp"}`,
			expectedStatus:    "succeeded",
			expectedRenderURL: "https://cdn.example.com/r-1.webp",
		},
		{
			name:           "failed render",
			status:         http.StatusOK,
			body:           `{"status":"failed"}`,
			expectedStatus: "failed",
		},
		{
			name:      "non-2xx",
			status:    http.StatusBadGateway,
			body:      `{"error":{"message":"upstream down"}}`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			status, err := newTestClient(srv.URL).CheckStatus(context.Background(), srv.URL+"/v1/renders/r-1")

			if tt.expectErr {
				var extErr *domain.ExternalServiceError
				if !errors.As(err, &extErr) {
					t.Fatalf("expected ExternalServiceError, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if status.Status != tt.expectedStatus {
				t.Errorf("expected status %q, got %q", tt.expectedStatus, status.Status)
			}
			if status.RenderURL != tt.expectedRenderURL {
				t.Errorf("expected render URL %q, got %q", tt.expectedRenderURL, status.RenderURL)
			}
		})
	}
}

func TestFetchImageEncodesDataURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		w.Write([]byte("webp-bytes"))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).FetchImage(context.Background(), srv.URL+"/r-1.webp")
	if err != nil {
		t.Fatal(err)
	}

	expected := "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("webp-bytes"))
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestFetchImageRetriesUnauthenticated(t *testing.T) {
	tests := []struct {
		name       string
		authStatus int
	}{
		{name: "401 presigned url", authStatus: http.StatusUnauthorized},
		{name: "403 presigned url", authStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				// Pre-signed URL behavior: the extra auth header invalidates
				// the signature, an anonymous request succeeds.
				if r.Header.Get("Authorization") != "" {
					w.WriteHeader(tt.authStatus)
					return
				}
				w.Header().Set("Content-Type", "image/png")
				w.Write([]byte("png-bytes"))
			}))
			defer srv.Close()

			got, err := newTestClient(srv.URL).FetchImage(context.Background(), srv.URL+"/r-1.png")
			if err != nil {
				t.Fatal(err)
			}
			if requests != 2 {
				t.Errorf("expected one retry without credentials, got %d requests", requests)
			}
			if !strings.HasPrefix(got, "data:image/png;base64,") {
				t.Errorf("expected png data URL, got %q", got)
			}
		})
	}
}

func TestFetchImageFailsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchImage(context.Background(), srv.URL+"/gone.webp")

	var extErr *domain.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
}

func TestFetchImageTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).FetchImage(ctx, srv.URL+"/slow.webp")
	if !errors.Is(err, domain.ErrFetchTimeout) {
		t.Fatalf("expected ErrFetchTimeout, got %v", err)
	}
}
