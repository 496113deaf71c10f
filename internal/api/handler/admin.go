package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/provider"
	"github.com/timmy/brandshot/internal/repository"
	"github.com/timmy/brandshot/internal/service"
)

// AdminHandler handles authenticated catalog management and
// database-persisted screenshot operations.
type AdminHandler struct {
	captureService *service.CaptureService
	catalogService *service.CatalogService
	screenshotRepo *repository.ScreenshotRepository
	logger         *logger.Logger
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - captureService: capture orchestration service.
//   - catalogService: catalog service instance.
//   - screenshotRepo: database-backed screenshot repository.
//   - log: logger instance.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(captureService *service.CaptureService, catalogService *service.CatalogService, screenshotRepo *repository.ScreenshotRepository, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		captureService: captureService,
		catalogService: catalogService,
		screenshotRepo: screenshotRepo,
		logger:         log,
	}
}

// AdminCaptureRequest is the body of POST /api/admin/screenshots. The
// record is linked to a cataloged brand.
type AdminCaptureRequest struct {
	BrandID        string `json:"brand_id" binding:"required"`
	PageTypeSlug   string `json:"page_type_slug" binding:"required"`
	PageURL        string `json:"page_url" binding:"required"`
	CaptureDesktop *bool  `json:"capture_desktop"`
	CaptureMobile  *bool  `json:"capture_mobile"`
}

// CreateScreenshot handles POST /api/admin/screenshots. The render is
// started and a pending record is persisted to the database, where the
// poller drives it to a terminal state.
func (h *AdminHandler) CreateScreenshot(c *gin.Context) {
	var req AdminCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	pageType, ok := domain.ParsePageType(req.PageTypeSlug)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown page type: " + req.PageTypeSlug,
		})
		return
	}

	brand, err := h.catalogService.GetBrandByID(c.Request.Context(), req.BrandID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.captureService.CaptureBoth(c.Request.Context(), service.CaptureBothRequest{
		URL:            req.PageURL,
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
		rec := domain.ScreenshotRecord{
			ID:            uuid.New().String(),
			URL:           req.PageURL,
			BrandName:     brand.Name,
			PageType:      string(pageType),
			DeviceProfile: started.Metadata.DeviceProfile,
			Status:        domain.ScreenshotStatusPending,
			RenderID:      started.RenderID,
			StatusURL:     started.StatusURL,
		}
		if err := h.screenshotRepo.Create(c.Request.Context(), &rec); err != nil {
			respondError(c, err)
			return
		}
		records = append(records, rec)
	}

	resp := gin.H{
		"success":  true,
		"captures": result,
		"records":  records,
	}
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

// ScreenshotStatus handles GET and POST /api/admin/screenshots/status,
// proxying an arbitrary provider status URL. GET takes a statusUrl query
// parameter; POST takes it in the JSON body.
func (h *AdminHandler) ScreenshotStatus(c *gin.Context) {
	statusURL := c.Query("statusUrl")
	if statusURL == "" && c.Request.Method == http.MethodPost {
		var body struct {
			StatusURL string `json:"statusUrl"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			statusURL = body.StatusURL
		}
	}
	if statusURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "statusUrl is required",
		})
		return
	}

	result, err := h.captureService.CheckStatus(c.Request.Context(), statusURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListScreenshots handles GET /api/admin/screenshots, newest first.
func (h *AdminHandler) ListScreenshots(c *gin.Context) {
	limit, offset := pagination(c)
	records, count, err := h.screenshotRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    records,
		"count":   count,
		"hasMore": int64(offset+len(records)) < count,
	})
}

// GetScreenshot handles GET /api/admin/screenshots/:id.
func (h *AdminHandler) GetScreenshot(c *gin.Context) {
	rec, err := h.screenshotRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RefreshScreenshot handles POST /api/admin/screenshots/:id/refresh. It
// performs one immediate status check instead of waiting for the next
// poller tick.
func (h *AdminHandler) RefreshScreenshot(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.screenshotRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rec.Status.IsTerminal() {
		c.JSON(http.StatusOK, rec)
		return
	}

	result, err := h.captureService.CheckStatus(ctx, rec.StatusURL)
	if err != nil {
		respondError(c, err)
		return
	}
	switch {
	case result.ImageData != "":
		err = h.screenshotRepo.MarkCompleted(ctx, rec.ID, &domain.ScreenshotRecord{
			ImageData: result.ImageData,
			Width:     result.Width,
			Height:    result.Height,
			Format:    result.Format,
		})
		if err != nil {
			respondError(c, err)
			return
		}
	case provider.IsFailure(result.Status):
		if err := h.screenshotRepo.MarkFailed(ctx, rec.ID, "provider reported render failure"); err != nil {
			respondError(c, err)
			return
		}
	}

	rec, err = h.screenshotRepo.GetByID(ctx, rec.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteScreenshot handles DELETE /api/admin/screenshots/:id.
func (h *AdminHandler) DeleteScreenshot(c *gin.Context) {
	if err := h.screenshotRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// BrandRequest is the body for brand create and update calls.
type BrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
	CategoryID  string `json:"categoryId"`
}

// CreateBrand handles POST /api/admin/brands.
func (h *AdminHandler) CreateBrand(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	brand := domain.Brand{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
		CategoryID:  req.CategoryID,
	}
	if err := h.catalogService.CreateBrand(c.Request.Context(), &brand); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brand)
}

// UpdateBrand handles PUT /api/admin/brands/:id.
func (h *AdminHandler) UpdateBrand(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	brand := domain.Brand{
		ID:          c.Param("id"),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
		CategoryID:  req.CategoryID,
	}
	if err := h.catalogService.UpdateBrand(c.Request.Context(), &brand); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

// DeleteBrand handles DELETE /api/admin/brands/:id.
func (h *AdminHandler) DeleteBrand(c *gin.Context) {
	if err := h.catalogService.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
