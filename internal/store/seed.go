package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"fintracker/internal/logging"
	"fintracker/internal/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed default_categories.yaml
var defaultCategoriesYAML []byte

// catalogFile is the YAML layout of a category catalog.
type catalogFile struct {
	Categories []models.Category `yaml:"categories"`
}

// DefaultCategories returns the built-in catalog without IDs.
func DefaultCategories() ([]models.Category, error) {
	return parseCatalog(defaultCategoriesYAML)
}

// LoadCatalogFile reads a catalog from a YAML file, either under a top-level
// "categories" key or as a bare list.
func LoadCatalogFile(path string) ([]models.Category, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) ([]models.Category, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Categories) > 0 {
		return validateCatalog(file.Categories)
	}

	var list []models.Category
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	return validateCatalog(list)
}

func validateCatalog(categories []models.Category) ([]models.Category, error) {
	for i, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		if !c.Type.Valid() {
			return nil, fmt.Errorf("catalog entry %q has invalid type %q", c.Name, c.Type)
		}
	}
	return categories, nil
}

// SeedCategories stores categories for a user that has none yet. Entries
// carrying a legacy ID get a deterministic UUID derived from the user and
// that ID. It reports how many categories were created.
func (s *GormStore) SeedCategories(ctx context.Context, userID string, categories []models.Category) (int, error) {
	existing, err := s.GetAllCategories(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.Info("Catalog already present, skipping seed",
			logging.F(logging.FieldUserID, userID),
			logging.F(logging.FieldCount, len(existing)))
		return 0, nil
	}

	seed := make([]models.Category, len(categories))
	copy(seed, categories)
	for i := range seed {
		if seed[i].ID == "" && seed[i].LegacyID != "" {
			seed[i].ID = SeedCategoryID(userID, seed[i].LegacyID)
		}
	}
	if err := s.CreateCategories(ctx, seed, userID); err != nil {
		return 0, err
	}
	return len(seed), nil
}

// SeedDefaultCategories seeds the built-in catalog for userID.
func (s *GormStore) SeedDefaultCategories(ctx context.Context, userID string) (int, error) {
	categories, err := DefaultCategories()
	if err != nil {
		return 0, err
	}
	return s.SeedCategories(ctx, userID, categories)
}

// SeedCategoryID derives the UUID a seeded category gets for a user.
func SeedCategoryID(userID, legacyID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(userID+"/category/"+legacyID)).String()
}
