package cmd

import (
	"investment-agent/config"
	"investment-agent/internal/export"
	"investment-agent/internal/store"
	"investment-agent/pkg/cache"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/middleware"
	"investment-agent/pkg/perf"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	fileCache *cache.FileStore
	memCache  cache.Cache
	history   *store.HistoryStore
	settings  *store.SettingsStore
	exporter  *export.Writer
	collector *perf.Collector
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	fileCache, err := cache.NewFileStore(cfg.Cache.Dir, cfg.Cache.DefaultTTL, log)
	if err != nil {
		log.Error("Failed to create file cache", logger.ErrorField(err))
		return nil, err
	}

	history, err := store.NewHistoryStore(cfg.History.Dir, log)
	if err != nil {
		log.Error("Failed to create history store", logger.ErrorField(err))
		return nil, err
	}

	settings, err := store.NewSettingsStore(cfg.History.Dir, log)
	if err != nil {
		log.Error("Failed to create settings store", logger.ErrorField(err))
		return nil, err
	}

	exporter, err := export.NewWriter(cfg.Export.Dir, log)
	if err != nil {
		log.Error("Failed to create export writer", logger.ErrorField(err))
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewRateLimiterMiddleware())

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		echo:      e,
		fileCache: fileCache,
		memCache:  cache.NewInMemory(cfg.Cache.DefaultTTL, cfg.Cache.DefaultTTL),
		history:   history,
		settings:  settings,
		exporter:  exporter,
		collector: perf.NewCollector(log),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	return d.log.Sync()
}
