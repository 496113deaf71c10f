package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/timmy/brandshot/internal/service"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// CatalogHandler handles public brand, category and discovery endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
// Parameters:
//   - catalogService: catalog service instance.
// Returns:
//   - *CatalogHandler: initialized handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// pagination reads limit/offset query parameters with sane bounds.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// ListBrands handles GET /api/brands. An optional category query
// parameter filters by category slug.
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.catalogService.ListBrands(c.Request.Context(), c.Query("category"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBrand handles GET /api/brands/:slug.
func (h *CatalogHandler) GetBrand(c *gin.Context) {
	detail, err := h.catalogService.GetBrand(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  categories,
		"count": len(categories),
	})
}

// Discover handles GET /api/discover/:type, listing pages of one page
// type across every brand.
func (h *CatalogHandler) Discover(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.catalogService.Discover(c.Request.Context(), c.Param("type"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetPage handles GET /api/pages/:id.
func (h *CatalogHandler) GetPage(c *gin.Context) {
	page, err := h.catalogService.GetPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
