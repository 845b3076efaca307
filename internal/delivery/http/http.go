package http

import (
	"errors"
	"net/http"

	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/internal/service"
	"investment-agent/internal/store"
	"investment-agent/pkg/cache"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/perf"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	log       *logger.Logger
	service   *service.Service
	fileCache *cache.FileStore
	memCache  cache.Cache
	history   *store.HistoryStore
	settings  *store.SettingsStore
	collector *perf.Collector
}

func NewHttpAPIHandler(
	e *echo.Echo,
	validator *goValidator.Validate,
	log *logger.Logger,
	svc *service.Service,
	fileCache *cache.FileStore,
	memCache cache.Cache,
	history *store.HistoryStore,
	settings *store.SettingsStore,
	collector *perf.Collector,
) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      e,
		validator: validator,
		log:       log,
		service:   svc,
		fileCache: fileCache,
		memCache:  memCache,
		history:   history,
		settings:  settings,
		collector: collector,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api/v1")
	h.SetupStocks(base)
	h.SetupAnalysis(base)
	h.SetupHistory(base)
	h.SetupExports(base)
	h.SetupAdmin(base)
}

// errorResponse maps domain sentinels to HTTP statuses so handlers stay
// uniform.
func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	h.log.ErrorContext(c.Request().Context(), "request failed", logger.ErrorField(err))

	switch {
	case errors.Is(err, apperrors.ErrInvalidSymbol):
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	case errors.Is(err, apperrors.ErrExport):
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	case errors.Is(err, apperrors.ErrDataFetch):
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, err.Error(), nil))
	case errors.Is(err, apperrors.ErrAnalysis):
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, err.Error(), nil))
	case errors.Is(err, apperrors.ErrCache):
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	default:
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "internal server error", nil))
	}
}
