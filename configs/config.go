package configs

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"
	"go.uber.org/zap"
)

type Storage struct {
	Driver             string `default:"sqlite"`
	Path               string `default:"portafilter.db"`
	SnapshotKey        string `default:"portafilter"`
	Host               string `default:"localhost"`
	Port               int    `default:"5432"`
	User               string `default:"postgres"`
	Password           string
	Database           string `default:"postgres"`
	MaxIdleConnections int    `default:"2"`
	MaxOpenConnections int    `default:"4"`
}

type Server struct {
	Port int `default:"8080"`
}

type Cache struct {
	Name            string   `default:"portafilter"`
	Version         string   `validate:"required"`
	Origin          string
	Assets          []string `default:"[/,/index.html,/app.js,/styles.css,/manifest.json]"`
	ThirdPartyHosts []string
	BustParam       string `default:"v"`
	RootDocument    string `default:"/"`
	Discover        bool
}

type Backup struct {
	Product string `default:"portafilter"`
}

type Images struct {
	MaxDimension int `default:"400"`
}

type Config struct {
	Storage Storage
	Server  Server
	Cache   Cache
	Backup  Backup
	Images  Images
}

const envPrefix = "PORTAFILTER" // env prefix for env vars

var ErrConfiguration = errors.New("configuration error")

// LoadEnvFile exports the variables of a dotenv file so they can override
// the config file.
func LoadEnvFile(envFileName string, logger *zap.Logger) error {
	if envFileName == "" {
		return nil
	}

	logger.Info("Loading environment file", zap.String("file", envFileName))

	if err := godotenv.Load(envFileName); err != nil {
		return errors.Join(ErrConfiguration, err)
	}

	return nil
}

func GetConfig(configFileName string, logger *zap.Logger) (*Config, error) {
	config := Config{}
	homeDir, _ := os.UserHomeDir()

	logger.Info("Loading config", zap.String("file", configFileName))

	err := fig.Load(&config, fig.File(configFileName), fig.Dirs(".", homeDir), fig.UseEnv(envPrefix))
	if err != nil {
		if strings.Contains(err.Error(), "file not found") {
			logger.Warn("Could not find config file", zap.String("file", configFileName))

			err = fig.Load(&config, fig.IgnoreFile(), fig.UseEnv(envPrefix))
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	return &config, nil
}
