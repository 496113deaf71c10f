package domain

import "time"

// PageType identifies the kind of e-commerce page a screenshot captures.
type PageType string

const (
	PageTypeHomepage PageType = "homepage"
	PageTypeProduct  PageType = "product"
	PageTypeCategory PageType = "category"
	PageTypeAbout    PageType = "about"
	PageTypeCheckout PageType = "checkout"
	PageTypeOther    PageType = "other"
)

// PageTypes lists the full page type vocabulary.
var PageTypes = []PageType{
	PageTypeHomepage,
	PageTypeProduct,
	PageTypeCategory,
	PageTypeAbout,
	PageTypeCheckout,
	PageTypeOther,
}

// PageTypeLabels maps slugs to display names accepted on submission.
var PageTypeLabels = map[PageType]string{
	PageTypeHomepage: "Homepage",
	PageTypeProduct:  "Product Page",
	PageTypeCategory: "Category Page",
	PageTypeAbout:    "About Page",
	PageTypeCheckout: "Checkout",
	PageTypeOther:    "Other",
}

// ParsePageType resolves a slug or display name to a PageType.
// Parameters:
//   - s: page type slug or display label.
// Returns:
//   - PageType: resolved page type.
//   - bool: false if s is not in the vocabulary.
func ParsePageType(s string) (PageType, bool) {
	for _, pt := range PageTypes {
		if s == string(pt) || s == PageTypeLabels[pt] {
			return pt, true
		}
	}
	return "", false
}

// Category groups brands in the public discovery gallery.
type Category struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex:idx_categories_slug" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string {
	return "categories"
}

// Brand represents one cataloged e-commerce brand.
type Brand struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Slug        string    `gorm:"type:text;not null;uniqueIndex:idx_brands_slug" json:"slug"`
	WebsiteURL  string    `gorm:"type:text" json:"website_url"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CategoryID  string    `gorm:"type:text;index:idx_brands_category" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Brand.
func (Brand) TableName() string {
	return "brands"
}

// Page represents one captured page belonging to a brand.
type Page struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	BrandID      string    `gorm:"type:text;not null;index:idx_pages_brand" json:"brand_id"`
	Brand        *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	PageType     PageType  `gorm:"type:text;index:idx_pages_type" json:"page_type"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	ScreenshotID string    `gorm:"type:text" json:"screenshot_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for Page.
func (Page) TableName() string {
	return "pages"
}
