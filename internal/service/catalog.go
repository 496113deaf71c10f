package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/repository"
)

// CatalogService exposes the brand, category and page catalog to the API
// layer with a consistent list envelope.
type CatalogService struct {
	repo   *repository.CatalogRepository
	logger *logger.Logger
}

func NewCatalogService(repo *repository.CatalogRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: log}
}

// BrandList is a paginated brand listing.
type BrandList struct {
	Data    []domain.Brand `json:"data"`
	Count   int64          `json:"count"`
	HasMore bool           `json:"hasMore"`
}

// PageList is a paginated page listing.
type PageList struct {
	Data    []domain.Page `json:"data"`
	Count   int64         `json:"count"`
	HasMore bool          `json:"hasMore"`
}

// ListBrands returns brands, optionally filtered to one category slug.
func (s *CatalogService) ListBrands(ctx context.Context, categorySlug string, limit, offset int) (*BrandList, error) {
	brands, count, err := s.repo.ListBrands(ctx, categorySlug, limit, offset)
	if err != nil {
		return nil, err
	}
	return &BrandList{
		Data:    brands,
		Count:   count,
		HasMore: int64(offset+len(brands)) < count,
	}, nil
}

// BrandDetail is one brand plus its catalogued pages.
type BrandDetail struct {
	domain.Brand
	Pages []domain.Page `json:"pages"`
}

// GetBrand returns one brand by slug together with its pages.
func (s *CatalogService) GetBrand(ctx context.Context, slug string) (*BrandDetail, error) {
	if slug == "" {
		return nil, domain.NewValidationError("brand slug is required")
	}
	brand, pages, err := s.repo.GetBrandBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &BrandDetail{Brand: *brand, Pages: pages}, nil
}

// ListCategories returns every category.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// Discover lists pages of one page type across all brands. The type may
// be given as a slug or a display label.
func (s *CatalogService) Discover(ctx context.Context, pageType string, limit, offset int) (*PageList, error) {
	parsed, ok := domain.ParsePageType(pageType)
	if !ok {
		return nil, domain.NewValidationError("unknown page type: %q", pageType)
	}
	pages, count, err := s.repo.ListPagesByType(ctx, parsed, limit, offset)
	if err != nil {
		return nil, err
	}
	return &PageList{
		Data:    pages,
		Count:   count,
		HasMore: int64(offset+len(pages)) < count,
	}, nil
}

// GetBrandByID returns one brand by primary key.
func (s *CatalogService) GetBrandByID(ctx context.Context, id string) (*domain.Brand, error) {
	if id == "" {
		return nil, domain.NewValidationError("brand id is required")
	}
	return s.repo.GetBrandByID(ctx, id)
}

// GetPage returns one page by ID with its brand preloaded.
func (s *CatalogService) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	if id == "" {
		return nil, domain.NewValidationError("page id is required")
	}
	return s.repo.GetPageByID(ctx, id)
}

// CreateBrand validates and persists a new brand. A slug is derived from
// the name when not supplied.
func (s *CatalogService) CreateBrand(ctx context.Context, brand *domain.Brand) error {
	if brand.Name == "" {
		return domain.NewValidationError("brand name is required")
	}
	if brand.Slug == "" {
		brand.Slug = Slugify(brand.Name)
	}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return err
	}
	s.logger.WithField(logger.FieldBrand, brand.Slug).Info("Brand created")
	return nil
}

// UpdateBrand applies changes to an existing brand.
func (s *CatalogService) UpdateBrand(ctx context.Context, brand *domain.Brand) error {
	if brand.ID == "" {
		return domain.NewValidationError("brand id is required")
	}
	return s.repo.UpdateBrand(ctx, brand)
}

// DeleteBrand removes a brand by ID.
func (s *CatalogService) DeleteBrand(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("brand id is required")
	}
	return s.repo.DeleteBrand(ctx, id)
}

// Slugify lowercases a name and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
