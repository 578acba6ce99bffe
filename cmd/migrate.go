package cmd

import (
	"go.uber.org/zap"

	"droscher.com/Portafilter/pkg/repository"
)

type MigrateCmd struct {
	ConfigFile string `default:".portafilter.toml" help:"Path to config file" short:"c"`
}

func (m *MigrateCmd) Run(cliContext *Context) error {
	logger := commandLogger(cliContext)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(cliContext, m.ConfigFile, logger)
	if err != nil {
		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		logger.Error("error migrating database", zap.Error(err))

		return err
	}

	logger.Info("database migrated", zap.String("driver", conf.Storage.Driver))

	return nil
}
