package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/repository"
	"github.com/timmy/brandshot/internal/service"
)

// Manifest is the JSON format consumed by the seeder: a category tree of
// brands and their known pages.
type Manifest struct {
	Categories []CategoryEntry `json:"categories"`
}

// CategoryEntry is one category and the brands filed under it.
type CategoryEntry struct {
	Name   string       `json:"name"`
	Slug   string       `json:"slug"`
	Brands []BrandEntry `json:"brands"`
}

// BrandEntry is one brand plus the pages worth capturing.
type BrandEntry struct {
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	WebsiteURL  string      `json:"websiteUrl"`
	Description string      `json:"description"`
	Pages       []PageEntry `json:"pages"`
}

// PageEntry is one capturable page of a brand.
type PageEntry struct {
	PageType string `json:"pageType"`
	URL      string `json:"url"`
}

// Stats summarizes one seeding run.
type Stats struct {
	Categories int
	Brands     int
	Pages      int
	Skipped    int
}

// Seeder loads a catalog manifest into the database. Existing categories
// and brands are matched by slug; pages are deduplicated by brand, type
// and URL, so re-running a manifest is safe.
type Seeder struct {
	repo   *repository.CatalogRepository
	logger *logger.Logger
}

func NewSeeder(repo *repository.CatalogRepository, log *logger.Logger) *Seeder {
	return &Seeder{repo: repo, logger: log}
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Run applies one manifest to the catalog.
func (s *Seeder) Run(ctx context.Context, m *Manifest) (*Stats, error) {
	stats := &Stats{}

	for _, catEntry := range m.Categories {
		if catEntry.Name == "" || catEntry.Slug == "" {
			return stats, domain.NewValidationError("category requires name and slug")
		}
		category, err := s.repo.UpsertCategory(ctx, &domain.Category{
			ID:   uuid.New().String(),
			Name: catEntry.Name,
			Slug: catEntry.Slug,
		})
		if err != nil {
			return stats, err
		}
		stats.Categories++

		for _, brandEntry := range catEntry.Brands {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			if brandEntry.Name == "" {
				return stats, domain.NewValidationError("brand in category %q requires a name", catEntry.Slug)
			}
			slug := brandEntry.Slug
			if slug == "" {
				slug = service.Slugify(brandEntry.Name)
			}
			brand, err := s.repo.UpsertBrand(ctx, &domain.Brand{
				ID:          uuid.New().String(),
				Name:        brandEntry.Name,
				Slug:        slug,
				WebsiteURL:  brandEntry.WebsiteURL,
				Description: brandEntry.Description,
				CategoryID:  category.ID,
			})
			if err != nil {
				return stats, err
			}
			stats.Brands++

			for _, pageEntry := range brandEntry.Pages {
				added, err := s.seedPage(ctx, brand.ID, pageEntry)
				if err != nil {
					return stats, err
				}
				if added {
					stats.Pages++
				} else {
					stats.Skipped++
				}
			}
		}
	}

	s.logger.WithFields(logger.Fields{
		"categories": stats.Categories,
		"brands":     stats.Brands,
		"pages":      stats.Pages,
		"skipped":    stats.Skipped,
	}).Info("Catalog seeding completed")

	return stats, nil
}

func (s *Seeder) seedPage(ctx context.Context, brandID string, entry PageEntry) (bool, error) {
	pageType, ok := domain.ParsePageType(entry.PageType)
	if !ok {
		return false, domain.NewValidationError("unknown page type: %q", entry.PageType)
	}
	if entry.URL == "" {
		return false, domain.NewValidationError("page of type %q requires a URL", entry.PageType)
	}

	exists, err := s.repo.PageExists(ctx, brandID, pageType, entry.URL)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = s.repo.CreatePage(ctx, &domain.Page{
		ID:       uuid.New().String(),
		BrandID:  brandID,
		PageType: pageType,
		URL:      entry.URL,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
