package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"droscher.com/Portafilter/configs"
)

var ErrUnsupportedDriver = errors.New("unsupported storage driver")

type Repository struct {
	DB          *gorm.DB
	Logger      *zap.Logger
	SnapshotKey string
}

// SnapshotRepository holds the single persisted document of the log.
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context) ([]byte, bool, error)
	SaveSnapshot(ctx context.Context, document []byte) error
}

const (
	maxIdleTime = 5 * time.Minute
	maxLifetime = time.Hour
)

func Open(conf *configs.Config, logger *zap.Logger) (*Repository, error) {
	var dialector gorm.Dialector

	switch conf.Storage.Driver {
	case "sqlite":
		dialector = sqlite.Open(conf.Storage.Path)
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			conf.Storage.Host, conf.Storage.User, conf.Storage.Password, conf.Storage.Database, conf.Storage.Port)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, conf.Storage.Driver)
	}

	gormLogger := zapgorm2.New(logger)
	gormLogger.SetAsDefault()

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(conf.Storage.MaxIdleConnections)
	sqlDB.SetMaxOpenConns(conf.Storage.MaxOpenConnections)

	// sqlite allows a single writer.
	if conf.Storage.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	sqlDB.SetConnMaxIdleTime(maxIdleTime)
	sqlDB.SetConnMaxLifetime(maxLifetime)

	logger.Info("opened storage", zap.String("driver", conf.Storage.Driver))

	return &Repository{DB: db, Logger: logger, SnapshotKey: conf.Storage.SnapshotKey}, nil
}

func (r *Repository) Migrate() error {
	return r.DB.AutoMigrate(&Snapshot{}, &CachedAsset{})
}

func (r *Repository) Close() {
	sqlDB, err := r.DB.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}
