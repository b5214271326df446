package upload

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openreel/openreel-backend/pkg/db/models"
	"github.com/openreel/openreel-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS catalog_records (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  series_id TEXT,
  season_number INTEGER,
  episode_number INTEGER,
  storage_type TEXT NOT NULL DEFAULT 'gcs',
  object_key TEXT NOT NULL UNIQUE,
  playback_url TEXT NOT NULL,
  poster_url TEXT,
  trailer_url TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  uploaded_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedCatalogRecord(t *testing.T, repo *Repository, key string) *models.CatalogRecord {
	t.Helper()
	rec, err := repo.Create(context.Background(), &models.CatalogRecord{
		ID:          uuid.New(),
		Kind:        enums.CatalogKindMovie,
		Title:       "Heat",
		StorageType: enums.StorageTypeGCS,
		ObjectKey:   key,
		PlaybackURL: "https://storage.googleapis.com/bucket/" + key,
		Status:      enums.CatalogStatusActive,
	})
	require.NoError(t, err)
	return rec
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))

	created := seedCatalogRecord(t, repo, "movies/abc.mp4")

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ObjectKey, found.ObjectKey)
	assert.Equal(t, enums.CatalogStatusActive, found.Status)

	byKey, err := repo.FindByObjectKey(context.Background(), "movies/abc.mp4")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)
}

func TestRepositoryRejectsDuplicateObjectKey(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))

	seedCatalogRecord(t, repo, "movies/abc.mp4")
	_, err := repo.Create(context.Background(), &models.CatalogRecord{
		ID:          uuid.New(),
		Kind:        enums.CatalogKindMovie,
		Title:       "Heat 2",
		StorageType: enums.StorageTypeGCS,
		ObjectKey:   "movies/abc.mp4",
		PlaybackURL: "https://storage.googleapis.com/bucket/movies/abc.mp4",
		Status:      enums.CatalogStatusActive,
	})
	require.Error(t, err)
}

func TestRepositorySetPosterAndTrailerURL(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	rec := seedCatalogRecord(t, repo, "movies/abc.mp4")

	require.NoError(t, repo.SetPosterURL(context.Background(), rec.ID, "https://cdn/poster.png"))
	require.NoError(t, repo.SetTrailerURL(context.Background(), rec.ID, "https://cdn/trailer.mp4"))

	found, err := repo.FindByID(context.Background(), rec.ID)
	require.NoError(t, err)
	require.NotNil(t, found.PosterURL)
	assert.Equal(t, "https://cdn/poster.png", *found.PosterURL)
	require.NotNil(t, found.TrailerURL)
	assert.Equal(t, "https://cdn/trailer.mp4", *found.TrailerURL)
}

func TestRepositoryMarkUnavailableByObjectKey(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	rec := seedCatalogRecord(t, repo, "movies/abc.mp4")

	touched, err := repo.MarkUnavailableByObjectKey(context.Background(), "movies/abc.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	found, err := repo.FindByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CatalogStatusUnavailable, found.Status)

	touched, err = repo.MarkUnavailableByObjectKey(context.Background(), "movies/ghost.mp4")
	require.NoError(t, err)
	assert.Zero(t, touched)
}
