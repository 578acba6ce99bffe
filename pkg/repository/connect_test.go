package repository_test

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"droscher.com/Portafilter/configs"
	"droscher.com/Portafilter/pkg/repository"
)

const snapshotKey = "portafilter"

type RepositorySuite struct {
	suite.Suite
	DB           *gorm.DB
	mock         sqlmock.Sqlmock
	observedLogs *observer.ObservedLogs
	repository   repository.Repository
}

func (suite *RepositorySuite) SetupTest() {
	var (
		db              *sql.DB
		err             error
		observedZapCore zapcore.Core
	)

	observedZapCore, suite.observedLogs = observer.New(zap.InfoLevel)
	observedLogger := zap.New(observedZapCore)

	db, suite.mock, err = sqlmock.New()
	suite.Require().NoError(err)

	gormLogger := zapgorm2.New(observedLogger)
	gormLogger.SetAsDefault()

	suite.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{Logger: gormLogger})
	suite.NoError(err)

	suite.repository = repository.Repository{DB: suite.DB, Logger: observedLogger, SnapshotKey: snapshotKey}
}

// openSQLite returns a migrated repository backed by a private in-memory
// database.
func openSQLite(t *testing.T) *repository.Repository {
	t.Helper()

	logger := zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: zapgorm2.New(logger)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := &repository.Repository{DB: db, Logger: logger, SnapshotKey: snapshotKey}
	require.NoError(t, repo.Migrate())

	t.Cleanup(repo.Close)

	return repo
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	conf := &configs.Config{Storage: configs.Storage{Driver: "mysql"}}

	repo, err := repository.Open(conf, zaptest.NewLogger(t))

	require.ErrorIs(t, err, repository.ErrUnsupportedDriver)
	require.Nil(t, repo)
}

func TestOpen_SQLiteFile(t *testing.T) {
	conf := &configs.Config{Storage: configs.Storage{
		Driver:             "sqlite",
		Path:               t.TempDir() + "/portafilter.db",
		SnapshotKey:        snapshotKey,
		MaxIdleConnections: 1,
		MaxOpenConnections: 1,
	}}

	repo, err := repository.Open(conf, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Migrate())
	require.Equal(t, snapshotKey, repo.SnapshotKey)
}
