package service

import (
	"investment-agent/config"
	"investment-agent/internal/export"
	"investment-agent/internal/repository"
	"investment-agent/internal/store"
	"investment-agent/pkg/cache"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/perf"
)

type Service struct {
	StockService      StockService
	ComparisonService ComparisonService
	ReportService     ReportService
	ExportService     ExportService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	fileCache *cache.FileStore,
	memCache cache.Cache,
	historyStore *store.HistoryStore,
	exporter *export.Writer,
	collector *perf.Collector,
) *Service {
	stockService := NewStockService(cfg, log, repo.MarketDataRepo, fileCache, memCache, collector)
	comparisonService := NewComparisonService(cfg, log, stockService, collector)
	reportService := NewReportService(cfg, log, stockService, repo.GeminiAIRepo, historyStore, collector)
	exportService := NewExportService(log, exporter)

	return &Service{
		StockService:      stockService,
		ComparisonService: comparisonService,
		ReportService:     reportService,
		ExportService:     exportService,
	}
}
