package repository

import (
	"investment-agent/config"
	"investment-agent/pkg/logger"
)

type Repository struct {
	MarketDataRepo MarketDataRepository
	GeminiAIRepo   AIRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger) (*Repository, error) {
	geminiAIRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		MarketDataRepo: NewYahooFinanceRepository(cfg, log),
		GeminiAIRepo:   geminiAIRepo,
	}, nil
}
