package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/provider"
	"github.com/timmy/brandshot/internal/service"
	"github.com/timmy/brandshot/internal/store"
)

// stubProvider returns fixed render jobs without network access.
type stubProvider struct {
	startCalls int
	status     *provider.RenderStatus
	imageData  string
}

func (s *stubProvider) StartCapture(ctx context.Context, pageURL string, opts provider.CaptureOptions) (*provider.RenderJob, error) {
	s.startCalls++
	return &provider.RenderJob{
		RenderID:  "render-" + string(opts.DeviceProfile),
		StatusURL: "https://api.example.com/v1/renders/render-" + string(opts.DeviceProfile),
	}, nil
}

func (s *stubProvider) CheckStatus(ctx context.Context, statusURL string) (*provider.RenderStatus, error) {
	return s.status, nil
}

func (s *stubProvider) FetchImage(ctx context.Context, renderURL string) (string, error) {
	return s.imageData, nil
}

func newTestRouter(t *testing.T, stub *stubProvider) (*gin.Engine, *store.FileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fileStore, err := store.Open(filepath.Join(t.TempDir(), "screenshots.json"))
	if err != nil {
		t.Fatal(err)
	}

	captureService := service.NewCaptureService(stub, nil, nil, logger.NewDefault(), service.CaptureDefaults{
		Format:   "webp",
		Quality:  80,
		FullPage: true,
	})
	h := NewScreenshotHandler(captureService, fileStore)

	r := gin.New()
	r.POST("/api/screenshot", h.Capture)
	r.GET("/api/screenshot/status", h.Status)
	r.GET("/api/screenshot/records", h.ListRecords)
	return r, fileStore
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCaptureEndpointCreatesPendingRecords(t *testing.T) {
	stub := &stubProvider{}
	r, fileStore := newTestRouter(t, stub)

	w := doJSON(t, r, http.MethodPost, "/api/screenshot",
		`{"url":"https://example.com","brandName":"Example","pageType":"homepage"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if stub.startCalls != 2 {
		t.Errorf("expected captures for both profiles, got %d", stub.startCalls)
	}

	records, err := fileStore.GetPending(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 pending records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Status != domain.ScreenshotStatusPending {
			t.Errorf("expected pending status, got %s", rec.Status)
		}
		if rec.StatusURL == "" {
			t.Error("expected status URL persisted")
		}
	}
}

func TestCaptureEndpointMirrorsPrimaryRender(t *testing.T) {
	tests := []struct {
		name             string
		body             string
		expectedRenderID string
	}{
		{
			name:             "default profiles mirror desktop",
			body:             `{"url":"https://example.com"}`,
			expectedRenderID: "render-desktop",
		},
		{
			name:             "mobile only mirrors mobile",
			body:             `{"url":"https://example.com","captureDesktop":false,"captureMobile":true}`,
			expectedRenderID: "render-mobile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, &stubProvider{})

			w := doJSON(t, r, http.MethodPost, "/api/screenshot", tt.body)
			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
			}

			var resp struct {
				Success   bool   `json:"success"`
				RenderID  string `json:"renderId"`
				StatusURL string `json:"statusUrl"`
				Metadata  struct {
					URL string `json:"url"`
				} `json:"metadata"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if !resp.Success {
				t.Error("expected success flag")
			}
			if resp.RenderID != tt.expectedRenderID {
				t.Errorf("expected renderId %q, got %q", tt.expectedRenderID, resp.RenderID)
			}
			if resp.StatusURL == "" {
				t.Error("expected top-level statusUrl")
			}
			if resp.Metadata.URL != "https://example.com" {
				t.Errorf("expected metadata to echo the URL, got %q", resp.Metadata.URL)
			}
		})
	}
}

func TestCaptureEndpointRejectsInvalidURL(t *testing.T) {
	stub := &stubProvider{}
	r, _ := newTestRouter(t, stub)

	w := doJSON(t, r, http.MethodPost, "/api/screenshot", `{"url":"not-a-url"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if stub.startCalls != 0 {
		t.Errorf("expected no provider calls, got %d", stub.startCalls)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.ToLower(resp["error"]), "url") {
		t.Errorf("expected error to mention the URL, got %q", resp["error"])
	}
}

func TestCaptureEndpointRejectsUnknownPageType(t *testing.T) {
	stub := &stubProvider{}
	r, _ := newTestRouter(t, stub)

	w := doJSON(t, r, http.MethodPost, "/api/screenshot",
		`{"url":"https://example.com","pageType":"landing-zone"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if stub.startCalls != 0 {
		t.Errorf("expected no provider calls for invalid page type, got %d", stub.startCalls)
	}
}

func TestStatusEndpointRequiresStatusURL(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/screenshot/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStatusEndpointReturnsImageOnSuccess(t *testing.T) {
	stub := &stubProvider{
		status: &provider.RenderStatus{
			Status:    "succeeded",
			RenderURL: "https://cdn.example.com/r1.webp",
		},
		imageData: "data:image/webp;base64,AAAA",
	}
	r, _ := newTestRouter(t, stub)

	req := httptest.NewRequest(http.MethodGet,
		"/api/screenshot/status?statusUrl=https://api.example.com/v1/renders/r1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp service.StatusResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "succeeded" {
		t.Errorf("expected status succeeded, got %q", resp.Status)
	}
	if resp.ImageData != stub.imageData {
		t.Errorf("expected image data in response, got %q", resp.ImageData)
	}
}

func TestListRecordsEndpoint(t *testing.T) {
	r, fileStore := newTestRouter(t, &stubProvider{})

	if _, err := fileStore.Save(domain.ScreenshotRecord{URL: "https://example.com"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/screenshot/records", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data  []domain.ScreenshotRecord `json:"data"`
		Count int                       `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || len(resp.Data) != 1 {
		t.Errorf("expected 1 record, got count=%d len=%d", resp.Count, len(resp.Data))
	}
}
