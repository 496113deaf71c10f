package repository

import (
	"context"
	"errors"

	"github.com/timmy/brandshot/internal/domain"
	"gorm.io/gorm"
)

// CatalogRepository handles brand, page, and category data operations.
// Referential integrity (Page → Brand → Category) is enforced by the
// database, not by application logic.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListBrands retrieves brands with pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - categorySlug: optional category filter; empty means all.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.Brand: matching brands with their categories preloaded.
//   - int64: total matching count.
//   - error: non-nil if the query fails.
func (r *CatalogRepository) ListBrands(ctx context.Context, categorySlug string, limit, offset int) ([]domain.Brand, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Brand{})
	if categorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = brands.category_id").
			Where("categories.slug = ?", categorySlug)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var brands []domain.Brand
	if err := query.
		Preload("Category").
		Limit(limit).
		Offset(offset).
		Order("brands.created_at DESC").
		Find(&brands).Error; err != nil {
		return nil, 0, err
	}
	return brands, count, nil
}

// GetBrandBySlug retrieves a brand and its pages by slug.
func (r *CatalogRepository) GetBrandBySlug(ctx context.Context, slug string) (*domain.Brand, []domain.Page, error) {
	var brand domain.Brand
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&brand, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &domain.NotFoundError{Resource: "brand", ID: slug}
		}
		return nil, nil, err
	}

	var pages []domain.Page
	if err := r.db.WithContext(ctx).
		Where("brand_id = ?", brand.ID).
		Order("created_at DESC").
		Find(&pages).Error; err != nil {
		return nil, nil, err
	}
	return &brand, pages, nil
}

// GetBrandByID retrieves a brand by primary key.
func (r *CatalogRepository) GetBrandByID(ctx context.Context, id string) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "brand", ID: id}
		}
		return nil, err
	}
	return &brand, nil
}

// CreateBrand inserts a new brand.
func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *domain.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

// UpdateBrand updates an existing brand.
// Returns a NotFoundError when the brand does not exist.
func (r *CatalogRepository) UpdateBrand(ctx context.Context, brand *domain.Brand) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Brand{}).
		Where("id = ?", brand.ID).
		Updates(brand)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "brand", ID: brand.ID}
	}
	return nil
}

// DeleteBrand removes a brand by ID.
func (r *CatalogRepository) DeleteBrand(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Brand{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "brand", ID: id}
	}
	return nil
}

// ListCategories retrieves all categories ordered by name.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListPagesByType retrieves pages of one page type for the discovery
// gallery, newest-first with pagination.
func (r *CatalogRepository) ListPagesByType(ctx context.Context, pageType domain.PageType, limit, offset int) ([]domain.Page, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Page{}).Where("page_type = ?", pageType)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var pages []domain.Page
	if err := query.
		Preload("Brand").
		Preload("Brand.Category").
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&pages).Error; err != nil {
		return nil, 0, err
	}
	return pages, count, nil
}

// GetPageByID retrieves a single page with its brand.
func (r *CatalogRepository) GetPageByID(ctx context.Context, id string) (*domain.Page, error) {
	var page domain.Page
	if err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Brand.Category").
		First(&page, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "page", ID: id}
		}
		return nil, err
	}
	return &page, nil
}

// CreatePage inserts a new page record.
func (r *CatalogRepository) CreatePage(ctx context.Context, page *domain.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

// UpsertCategory inserts a category or returns the existing one with the
// same slug.
func (r *CatalogRepository) UpsertCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var existing domain.Category
	err := r.db.WithContext(ctx).First(&existing, "slug = ?", category.Slug).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpsertBrand inserts a brand or returns the existing one with the same
// slug.
func (r *CatalogRepository) UpsertBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	var existing domain.Brand
	err := r.db.WithContext(ctx).First(&existing, "slug = ?", brand.Slug).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

// PageExists checks whether a brand already has a page for a URL and type.
func (r *CatalogRepository) PageExists(ctx context.Context, brandID string, pageType domain.PageType, url string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Page{}).
		Where("brand_id = ? AND page_type = ? AND url = ?", brandID, pageType, url).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// BrandExists checks whether a brand exists by ID.
func (r *CatalogRepository) BrandExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Brand{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
