package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"investment-agent/config"
	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/ratelimit"
	"investment-agent/pkg/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository is the narrative report generator. Its output is opaque
// markdown text; callers surface a single failure and do not retry.
type AIRepository interface {
	GenerateComparisonReport(ctx context.Context, summary1, summary2 dto.StockSummary) (string, error)
}

// geminiAIRepository generates comparison reports through the Google Gemini
// API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is not set", apperrors.ErrConfiguration)
	}

	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) GenerateComparisonReport(ctx context.Context, summary1, summary2 dto.StockSummary) (string, error) {
	prompt := r.promptComparisonReport(summary1, summary2)

	content, err := r.sendRequest(ctx, prompt)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to generate comparison report", logger.ErrorField(err))
		return "", fmt.Errorf("%w: %v", apperrors.ErrAnalysis, err)
	}

	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty response from report generator", apperrors.ErrAnalysis)
	}
	return content, nil
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to send request to gemini: %w", err)
	}

	return resp.Text(), nil
}

func (r *geminiAIRepository) promptComparisonReport(summary1, summary2 dto.StockSummary) string {
	var sb strings.Builder

	sb.WriteString("You are an investment analyst that researches stock prices, analyst recommendations, and stock fundamentals.\n")
	sb.WriteString(fmt.Sprintf("Compare both the stocks - %s and %s - and make a detailed report for an investor trying to invest and compare these stocks.\n\n", summary1.Symbol, summary2.Symbol))
	sb.WriteString("Instructions:\n")
	sb.WriteString("- Format your response using markdown and use tables to display data where possible.\n")
	sb.WriteString("- Provide actionable insights and recommendations.\n")
	sb.WriteString("- Include risk assessment in your analysis.\n")
	sb.WriteString("- Compare key metrics side-by-side.\n")
	sb.WriteString("- Highlight both strengths and weaknesses of each stock.\n\n")

	sb.WriteString("Computed metrics:\n")
	for _, s := range []dto.StockSummary{summary1, summary2} {
		sb.WriteString(fmt.Sprintf("\n%s (%s):\n", s.Symbol, s.Name))
		sb.WriteString(fmt.Sprintf("- Current price: %s\n", utils.FormatCurrency(s.CurrentPrice)))
		sb.WriteString(fmt.Sprintf("- Market cap: %s\n", utils.FormatCurrency(s.MarketCap)))
		sb.WriteString(fmt.Sprintf("- Volatility: %.2f%%, RSI: %.2f, Risk score: %.1f\n", s.Volatility, s.RSI, s.RiskScore))
		sb.WriteString(fmt.Sprintf("- Trend: %s (strength %.2f)\n", s.Trend.Trend, s.Trend.Strength))
		sb.WriteString(fmt.Sprintf("- Max drawdown: %.2f%%, Sharpe ratio: %.2f\n", s.Drawdown.MaxDrawdown, s.SharpeRatio))
	}

	return sb.String()
}
