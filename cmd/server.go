package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"investment-agent/internal/delivery/http"
	"investment-agent/internal/repository"
	"investment-agent/internal/service"
	"investment-agent/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the investment dashboard API",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.cfg, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(
		appDep.cfg,
		appDep.log,
		repo,
		appDep.fileCache,
		appDep.memCache,
		appDep.history,
		appDep.exporter,
		appDep.collector,
	)

	httpHandler := http.NewHttpAPIHandler(
		appDep.echo,
		appDep.validator,
		appDep.log,
		services,
		appDep.fileCache,
		appDep.memCache,
		appDep.history,
		appDep.settings,
		appDep.collector,
	)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	janitor := startCacheJanitor(appDep)

	<-ctx.Done()
	appDep.log.Info("Shutting down gracefully...")

	if janitor != nil {
		<-janitor.Stop().Done()
	}
	if err := apiServer.Stop(); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}
	if err := appDep.Close(); err != nil {
		appDep.log.Error("Failed to close app dependency", logger.ErrorField(err))
	}
}

// startCacheJanitor schedules the expired-entry sweep. Expiry is lazy on
// read; the sweep only keeps the cache directory from growing unbounded.
func startCacheJanitor(appDep *AppDependency) *cron.Cron {
	spec := appDep.cfg.Maintenance.CacheSweepSpec
	if spec == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		removed := appDep.fileCache.SweepExpired()
		if removed > 0 {
			appDep.log.Info("Swept expired cache entries", logger.IntField("removed", removed))
		}
	})
	if err != nil {
		appDep.log.Error("Invalid cache sweep schedule",
			logger.StringField("spec", spec), logger.ErrorField(err))
		return nil
	}

	c.Start()
	return c
}
