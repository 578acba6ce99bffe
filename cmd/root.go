package cmd

import (
	"context"

	"go.uber.org/zap"

	"droscher.com/Portafilter/configs"
	"droscher.com/Portafilter/pkg/confirm"
	"droscher.com/Portafilter/pkg/repository"
	"droscher.com/Portafilter/pkg/store"
)

type Context struct {
	Debug   bool
	EnvFile string
}

var CLI struct {
	Debug   bool   `help:"Enable debug mode"`
	EnvFile string `help:"Load environment variables from a dotenv file" type:"path"`

	Serve   ServeCmd   `cmd:"" default:"1"                          help:"Run the server"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations"`
	Export  ExportCmd  `cmd:"" help:"Write a backup of every bean and shot"`
	Import  ImportCmd  `cmd:"" help:"Replace the log with a backup"`
	Beans   BeansCmd   `cmd:"" help:"List beans with their best shot"`
}

// commandLogger is the logger for one-shot commands.
func commandLogger(cliContext *Context) *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	if !cliContext.Debug {
		logConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, _ := logConfig.Build()

	return logger
}

func loadConfig(cliContext *Context, configFile string, logger *zap.Logger) (*configs.Config, error) {
	if err := configs.LoadEnvFile(cliContext.EnvFile, logger); err != nil {
		logger.Error("error loading environment file", zap.Error(err))

		return nil, err
	}

	conf, err := configs.GetConfig(configFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return nil, err
	}

	return conf, nil
}

// openStore connects to the database, makes sure the schema exists and
// loads the log. Callers close the returned repository.
func openStore(ctx context.Context, conf *configs.Config, logger *zap.Logger) (*store.Store, *confirm.Registry, *repository.Repository, error) {
	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return nil, nil, nil, err
	}

	if err := repo.Migrate(); err != nil {
		repo.Close()
		logger.Error("error migrating database", zap.Error(err))

		return nil, nil, nil, err
	}

	confirmations := confirm.NewRegistry(logger)
	logStore := store.New(repo, confirmations, logger)

	if err := logStore.Load(ctx); err != nil {
		repo.Close()
		logger.Error("error loading log", zap.Error(err))

		return nil, nil, nil, err
	}

	return logStore, confirmations, repo, nil
}
