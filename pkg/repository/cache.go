package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/Portafilter/pkg/offline"
)

// CachedAsset is one response stored by the offline controller, keyed by
// cache generation and URL.
type CachedAsset struct {
	Cache    string `gorm:"primaryKey"`
	URL      string `gorm:"primaryKey"`
	Status   int
	Header   datatypes.JSONType[http.Header]
	Body     []byte
	StoredAt time.Time
}

// AssetCache stores offline cache generations in the database so they
// survive restarts.
type AssetCache struct {
	repository *Repository
}

func (r *Repository) AssetCache() *AssetCache {
	return &AssetCache{repository: r}
}

func (a *AssetCache) Put(ctx context.Context, cache string, entry offline.Entry) error {
	asset := CachedAsset{
		Cache:    cache,
		URL:      entry.URL,
		Status:   entry.Status,
		Header:   datatypes.NewJSONType(entry.Header),
		Body:     entry.Body,
		StoredAt: entry.StoredAt,
	}

	result := a.repository.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache"}, {Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "header", "body", "stored_at"}),
	}).Create(&asset)

	return result.Error
}

func (a *AssetCache) Match(ctx context.Context, cache string, url string) (offline.Entry, bool, error) {
	var asset CachedAsset

	result := a.repository.DB.WithContext(ctx).Where("cache = ? AND url = ?", cache, url).First(&asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return offline.Entry{}, false, nil
		}

		return offline.Entry{}, false, result.Error
	}

	return offline.Entry{
		URL:      asset.URL,
		Status:   asset.Status,
		Header:   asset.Header.Data(),
		Body:     asset.Body,
		StoredAt: asset.StoredAt,
	}, true, nil
}

func (a *AssetCache) Caches(ctx context.Context) ([]string, error) {
	var caches []string

	result := a.repository.DB.WithContext(ctx).Model(&CachedAsset{}).Distinct("cache").Order("cache").Pluck("cache", &caches)
	if result.Error != nil {
		return nil, result.Error
	}

	return caches, nil
}

func (a *AssetCache) Delete(ctx context.Context, cache string) error {
	return a.repository.DB.WithContext(ctx).Where("cache = ?", cache).Delete(&CachedAsset{}).Error
}
