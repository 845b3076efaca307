package http

import (
	"net/http"
	"strconv"

	"investment-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupHistory(base *echo.Group) {
	historyGroup := base.Group("/history")
	historyGroup.GET("", h.getHistory)
	historyGroup.DELETE("", h.clearHistory)
	historyGroup.GET("/stats", h.getHistoryStats)
}

func (h *HttpAPIHandler) getHistory(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid limit"))
		}
		limit = parsed
	}

	entries, err := h.history.Load(limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("history loaded", entries))
}

func (h *HttpAPIHandler) clearHistory(c echo.Context) error {
	if err := h.history.Clear(); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("history cleared", nil))
}

func (h *HttpAPIHandler) getHistoryStats(c echo.Context) error {
	stats, err := h.history.Stats()
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("history stats", stats))
}
