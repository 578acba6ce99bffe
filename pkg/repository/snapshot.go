package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Snapshot struct {
	Name      string `gorm:"primaryKey"`
	Document  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Repository) LoadSnapshot(ctx context.Context) ([]byte, bool, error) {
	var snapshot Snapshot

	result := r.DB.WithContext(ctx).Where("name = ?", r.SnapshotKey).First(&snapshot)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}

		r.Logger.Error("error loading snapshot", zap.String("key", r.SnapshotKey), zap.Error(result.Error))

		return nil, false, result.Error
	}

	return []byte(snapshot.Document), true, nil
}

// SaveSnapshot upserts the document in a single statement.
func (r *Repository) SaveSnapshot(ctx context.Context, document []byte) error {
	snapshot := Snapshot{Name: r.SnapshotKey, Document: datatypes.JSON(document)}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&snapshot)

	return result.Error
}
