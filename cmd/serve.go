package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"droscher.com/Portafilter/configs"
	"droscher.com/Portafilter/pkg/offline"
	"droscher.com/Portafilter/pkg/repository"
	"droscher.com/Portafilter/pkg/server"
	"droscher.com/Portafilter/pkg/thumbnail"
)

const (
	timeout      = 5 * time.Second
	fetchTimeout = 30 * time.Second
)

type ServeCmd struct {
	ConfigFile string `default:".portafilter.toml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(cliContext *Context) error {
	logConfig := zap.NewProductionConfig()
	if cliContext.Debug {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(cliContext, s.ConfigFile, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logStore, confirmations, repo, err := openStore(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mux := http.NewServeMux()

	server.NewServer(logStore, confirmations, thumbnail.NewEncoder(conf.Images.MaxDimension), conf, logger).Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	if conf.Cache.Origin != "" {
		gateway, err := startOfflineCache(ctx, conf, repo, registry, logger)
		if err != nil {
			logger.Error("error starting offline cache", zap.Error(err))

			return err
		}

		mux.Handle("/", gateway)
	}

	address := fmt.Sprintf(":%d", conf.Server.Port)

	corsHandler := configureCORS(mux)
	serverHandler := h2c.NewHandler(corsHandler, &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           serverHandler,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := svr.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("address", address))

	err = svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

// startOfflineCache installs and activates the asset cache for this version
// and returns the handler that serves the app shell through it. A failed
// activation leaves the gateway passing requests straight to the origin.
func startOfflineCache(ctx context.Context, conf *configs.Config, repo *repository.Repository, registry prometheus.Registerer, logger *zap.Logger) (http.Handler, error) {
	controller, err := offline.NewController(offline.Config{
		Name:            conf.Cache.Name,
		Version:         conf.Cache.Version,
		Origin:          conf.Cache.Origin,
		Assets:          conf.Cache.Assets,
		ThirdPartyHosts: conf.Cache.ThirdPartyHosts,
		BustParam:       conf.Cache.BustParam,
		RootDocument:    conf.Cache.RootDocument,
		Discover:        conf.Cache.Discover,
	}, repo.AssetCache(), &http.Client{Timeout: fetchTimeout}, offline.NewMetrics(registry), logger)
	if err != nil {
		return nil, err
	}

	result, err := controller.Install(ctx)
	if err != nil {
		return nil, err
	}

	if result.Errors != nil {
		logger.Warn("some assets were not cached", zap.Int("failed", result.Failed), zap.Error(result.Errors))
	}

	if err := controller.Activate(ctx); err != nil {
		logger.Warn("cache activation failed", zap.String("cache", controller.CacheName()), zap.Error(err))
	}

	return server.NewGateway(conf.Cache.Origin, controller.Transport(), logger)
}

func configureCORS(mux *http.ServeMux) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"cache-control",
			"content-encoding",
			"content-length",
			"content-type",
			"origin",
			"referer",
			"user-agent",
		},
		ExposedHeaders: []string{
			"content-disposition",
			offline.HeaderCacheStatus,
		},
		MaxAge:             86400, // 24 hours
		OptionsPassthrough: false,
	})

	return corsOpts.Handler(mux)
}
