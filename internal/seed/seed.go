package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/campusnet/internal/app/models"
	"gopkg.in/yaml.v3"
)

// CategoryStore creates event categories and types idempotently
type CategoryStore interface {
	EnsureCategory(ctx context.Context, name string) (int64, error)
	EnsureEventType(ctx context.Context, categoryID int64, name string) (int64, error)
}

// CollegeStore inserts colleges that are not present yet
type CollegeStore interface {
	EnsureColleges(ctx context.Context, colleges []*appModels.College) (int64, error)
}

// Catalog is the reference data loaded at startup
type Catalog struct {
	Categories []Category     `yaml:"categories"`
	Colleges   []CollegeEntry `yaml:"colleges"`
}

// Category is an event category and its types
type Category struct {
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
}

// CollegeEntry is one college row
type CollegeEntry struct {
	Name  string `yaml:"name"`
	State string `yaml:"state"`
}

// DefaultCatalog is used when no reference data file exists
func DefaultCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{
			{Name: "Technical", Types: []string{"Hackathon", "Workshop", "Coding Contest"}},
			{Name: "Cultural", Types: []string{"Dance", "Music", "Drama"}},
			{Name: "Sports", Types: []string{"Cricket", "Football", "Athletics"}},
			{Name: "Academic", Types: []string{"Seminar", "Conference", "Guest Lecture"}},
		},
	}
}

// LoadCatalog reads reference data from a YAML file. A missing file yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	catalog := &Catalog{}
	if err := yaml.Unmarshal(raw, catalog); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(catalog.Categories) == 0 {
		catalog.Categories = DefaultCatalog().Categories
	}
	return catalog, nil
}

// CreateDefaultData makes sure every category, event type and college in the catalog exists.
// It keeps going after individual failures and returns them joined.
func CreateDefaultData(ctx context.Context, catalog *Catalog, categories CategoryStore, colleges CollegeStore, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating reference data (event categories, colleges)...")
	var finalErr error

	for _, category := range catalog.Categories {
		categoryID, err := categories.EnsureCategory(ctx, category.Name)
		if err != nil {
			lgr.Error().Err(err).Str("category", category.Name).Msg("Error creating event category")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		for _, typeName := range category.Types {
			if _, err := categories.EnsureEventType(ctx, categoryID, typeName); err != nil {
				lgr.Error().Err(err).Str("category", category.Name).Str("type", typeName).Msg("Error creating event type")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	rows := make([]*appModels.College, 0, len(catalog.Colleges))
	for _, entry := range catalog.Colleges {
		if entry.Name == "" {
			continue
		}
		college := &appModels.College{Name: entry.Name}
		if entry.State != "" {
			state := entry.State
			college.State = &state
		}
		rows = append(rows, college)
	}

	added, err := colleges.EnsureColleges(ctx, rows)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating colleges")
		finalErr = errors.Join(finalErr, err)
	} else if added > 0 {
		lgr.Info().Int64("added", added).Msg("Colleges seeded")
	}

	return finalErr
}
