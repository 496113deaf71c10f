package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/overlay"
	"github.com/timmy/brandshot/internal/service"
	"github.com/timmy/brandshot/internal/store"
)

// ScreenshotHandler handles public capture, status and analysis endpoints.
type ScreenshotHandler struct {
	captureService *service.CaptureService
	fileStore      *store.FileStore
}

// NewScreenshotHandler creates a new screenshot handler.
// Parameters:
//   - captureService: capture orchestration service.
//   - fileStore: local record store backing public captures.
// Returns:
//   - *ScreenshotHandler: initialized handler.
func NewScreenshotHandler(captureService *service.CaptureService, fileStore *store.FileStore) *ScreenshotHandler {
	return &ScreenshotHandler{
		captureService: captureService,
		fileStore:      fileStore,
	}
}

// CaptureRequest is the body of POST /api/screenshot.
type CaptureRequest struct {
	URL            string `json:"url" binding:"required"`
	BrandName      string `json:"brandName"`
	PageType       string `json:"pageType"`
	CaptureDesktop *bool  `json:"captureDesktop"`
	CaptureMobile  *bool  `json:"captureMobile"`
}

// Capture handles POST /api/screenshot. It starts renders for the
// requested device profiles and persists one pending record per render.
func (h *ScreenshotHandler) Capture(c *gin.Context) {
	var req CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	pageType := domain.PageTypeOther
	if req.PageType != "" {
		parsed, ok := domain.ParsePageType(req.PageType)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown page type: " + req.PageType,
			})
			return
		}
		pageType = parsed
	}

	result, err := h.captureService.CaptureBoth(c.Request.Context(), service.CaptureBothRequest{
		URL:            req.URL,
		CaptureDesktop: req.CaptureDesktop,
		CaptureMobile:  req.CaptureMobile,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	records := make([]domain.ScreenshotRecord, 0, 2)
	for _, started := range []*service.CaptureResult{result.Desktop, result.Mobile} {
		if started == nil {
			continue
		}
		rec, err := h.fileStore.Save(domain.ScreenshotRecord{
			URL:           req.URL,
			BrandName:     req.BrandName,
			PageType:      string(pageType),
			DeviceProfile: started.Metadata.DeviceProfile,
			Status:        domain.ScreenshotStatusPending,
			RenderID:      started.RenderID,
			StatusURL:     started.StatusURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		records = append(records, *rec)
	}

	resp := gin.H{
		"success":  true,
		"captures": result,
		"records":  records,
	}
	// The primary render is mirrored at the top level so single-capture
	// callers can read renderId/statusUrl without unwrapping captures.
	primary := result.Desktop
	if primary == nil {
		primary = result.Mobile
	}
	if primary != nil {
		resp["renderId"] = primary.RenderID
		resp["statusUrl"] = primary.StatusURL
		resp["metadata"] = primary.Metadata
	}

	c.JSON(http.StatusCreated, resp)
}

// Status handles GET /api/screenshot/status. The statusUrl query
// parameter is the provider status URL returned at capture time.
func (h *ScreenshotHandler) Status(c *gin.Context) {
	statusURL := c.Query("statusUrl")
	if statusURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'statusUrl' is required",
		})
		return
	}

	result, err := h.captureService.CheckStatus(c.Request.Context(), statusURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    result.Status,
		"renderUrl": result.RenderURL,
		"imageData": result.ImageData,
		"width":     result.Width,
		"height":    result.Height,
		"format":    result.Format,
	})
}

// AnalyzeRequest is the body of POST /api/screenshot/analyze. When both
// display dimensions are given, each highlight's normalized bounds are
// also mapped to pixel rects for that viewport.
type AnalyzeRequest struct {
	ImageData     string `json:"imageData" binding:"required"`
	RecordID      string `json:"recordId"`
	DisplayWidth  int    `json:"displayWidth"`
	DisplayHeight int    `json:"displayHeight"`
}

// Analyze handles POST /api/screenshot/analyze. Detected highlights are
// attached to the local record when a recordId is supplied.
func (h *ScreenshotHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	highlights, err := h.captureService.Analyze(c.Request.Context(), req.ImageData)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.RecordID != "" {
		h.fileStore.AttachHighlights(req.RecordID, highlights)
	}

	resp := gin.H{
		"success":    true,
		"highlights": highlights,
		"count":      len(highlights),
	}
	if req.DisplayWidth > 0 && req.DisplayHeight > 0 {
		resp["overlays"] = overlay.MapAll(highlights, req.DisplayWidth, req.DisplayHeight)
	}

	c.JSON(http.StatusOK, resp)
}

// ListRecords handles GET /api/screenshot/records, newest first.
func (h *ScreenshotHandler) ListRecords(c *gin.Context) {
	records := h.fileStore.GetAll()
	c.JSON(http.StatusOK, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// DeleteRecord handles DELETE /api/screenshot/records/:id.
func (h *ScreenshotHandler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	if !h.fileStore.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found: " + id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
