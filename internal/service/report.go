package service

import (
	"context"
	"fmt"
	"time"

	"investment-agent/config"
	"investment-agent/internal/dto"
	"investment-agent/internal/repository"
	"investment-agent/internal/store"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/perf"

	"golang.org/x/sync/errgroup"
)

type ReportService interface {
	GenerateReport(ctx context.Context, req dto.ReportRequest) (dto.ReportResult, error)
}

type reportService struct {
	cfg       *config.Config
	log       *logger.Logger
	stocks    StockService
	aiRepo    repository.AIRepository
	history   *store.HistoryStore
	collector *perf.Collector
}

func NewReportService(
	cfg *config.Config,
	log *logger.Logger,
	stocks StockService,
	aiRepo repository.AIRepository,
	history *store.HistoryStore,
	collector *perf.Collector,
) ReportService {
	return &reportService{
		cfg:       cfg,
		log:       log,
		stocks:    stocks,
		aiRepo:    aiRepo,
		history:   history,
		collector: collector,
	}
}

// GenerateReport fetches both summaries, asks the report generator for a
// narrative comparison, and appends the result to the analysis history.
func (s *reportService) GenerateReport(ctx context.Context, req dto.ReportRequest) (dto.ReportResult, error) {
	timer := s.collector.StartTimer("generate_report")
	defer timer.Stop()

	summaries := make([]dto.StockSummary, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range []string{req.Symbol1, req.Symbol2} {
		g.Go(func() error {
			summary, err := s.stocks.GetSummary(gctx, symbol, dto.DefaultPeriod)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.ReportResult{}, err
	}

	content, err := s.aiRepo.GenerateComparisonReport(ctx, summaries[0], summaries[1])
	if err != nil {
		return dto.ReportResult{}, err
	}

	stocks := fmt.Sprintf("%s vs %s", summaries[0].Symbol, summaries[1].Symbol)
	result := dto.ReportResult{
		Stocks:      stocks,
		Content:     content,
		GeneratedAt: time.Now(),
	}

	entry := dto.HistoryEntry{
		Timestamp: result.GeneratedAt,
		Stocks:    stocks,
		Type:      dto.AnalysisTypeComparison,
		Response:  content,
	}
	if err := s.history.Append(entry); err != nil {
		// The report is still worth returning; the log entry just went missing.
		s.log.ErrorContext(ctx, "failed to append analysis history", logger.ErrorField(err))
	}

	return result, nil
}
