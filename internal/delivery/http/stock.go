package http

import (
	"net/http"

	"investment-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	stockGroup := base.Group("/stocks")
	stockGroup.GET("/:symbol/validate", h.validateSymbol)
	stockGroup.GET("/:symbol/summary", h.getSummary)
}

func (h *HttpAPIHandler) validateSymbol(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.service.StockService.ValidateSymbol(ctx, c.Param("symbol"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("symbol validated", result))
}

func (h *HttpAPIHandler) getSummary(c echo.Context) error {
	ctx := c.Request().Context()

	period := c.QueryParam("period")
	if period != "" && !dto.IsValidPeriod(period) {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid period"))
	}

	summary, err := h.service.StockService.GetSummary(ctx, c.Param("symbol"), period)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("summary built", summary))
}
