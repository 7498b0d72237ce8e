package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/campusnet/internal/app/models"
)

type fakeCategories struct {
	categories map[string]int64
	types      map[int64][]string
	failOn     string
}

func (f *fakeCategories) EnsureCategory(_ context.Context, name string) (int64, error) {
	if name == f.failOn {
		return 0, errors.New("boom")
	}
	if id, ok := f.categories[name]; ok {
		return id, nil
	}
	id := int64(len(f.categories) + 1)
	f.categories[name] = id
	return id, nil
}

func (f *fakeCategories) EnsureEventType(_ context.Context, categoryID int64, name string) (int64, error) {
	for _, existing := range f.types[categoryID] {
		if existing == name {
			return 1, nil
		}
	}
	f.types[categoryID] = append(f.types[categoryID], name)
	return int64(len(f.types[categoryID])), nil
}

type fakeColleges struct {
	got []*appModels.College
}

func (f *fakeColleges) EnsureColleges(_ context.Context, colleges []*appModels.College) (int64, error) {
	f.got = append(f.got, colleges...)
	return int64(len(colleges)), nil
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{categories: map[string]int64{}, types: map[int64][]string{}}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	catalog, err := LoadCatalog(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), catalog)

	path := filepath.Join(dir, "seed.yaml")
	content := "colleges:\n  - name: Xavier College - Mumbai\n    state: Maharashtra\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err = LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Colleges, 1)
	assert.Equal(t, "Maharashtra", catalog.Colleges[0].State)
	assert.NotEmpty(t, catalog.Categories, "categories fall back to defaults")

	require.NoError(t, os.WriteFile(path, []byte("colleges: ["), 0o600))
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	categories := newFakeCategories()
	colleges := &fakeColleges{}
	catalog := &Catalog{
		Categories: []Category{{Name: "Technical", Types: []string{"Hackathon", "Workshop"}}},
		Colleges:   []CollegeEntry{{Name: "Xavier College"}, {Name: ""}, {Name: "Loyola College", State: "Tamil Nadu"}},
	}

	require.NoError(t, CreateDefaultData(context.Background(), catalog, categories, colleges, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(context.Background(), catalog, categories, colleges, zerolog.Nop()))

	assert.Len(t, categories.categories, 1)
	assert.Equal(t, []string{"Hackathon", "Workshop"}, categories.types[1])
	require.Len(t, colleges.got, 4)
	assert.Nil(t, colleges.got[0].State)
	require.NotNil(t, colleges.got[1].State)
	assert.Equal(t, "Tamil Nadu", *colleges.got[1].State)
}

func TestCreateDefaultDataJoinsErrors(t *testing.T) {
	categories := newFakeCategories()
	categories.failOn = "Cultural"
	catalog := &Catalog{Categories: []Category{{Name: "Cultural", Types: []string{"Dance"}}, {Name: "Sports", Types: []string{"Cricket"}}}}

	err := CreateDefaultData(context.Background(), catalog, categories, &fakeColleges{}, zerolog.Nop())
	assert.Error(t, err)
	assert.Contains(t, categories.categories, "Sports")
}
