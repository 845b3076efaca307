package http

import (
	"net/http"

	"investment-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalysis(base *echo.Group) {
	base.POST("/comparisons", h.compareStocks)
	base.POST("/portfolio/metrics", h.portfolioMetrics)
	base.POST("/reports", h.generateReport)
}

func (h *HttpAPIHandler) compareStocks(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CompareRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if req.Period != "" && !dto.IsValidPeriod(req.Period) {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid period"))
	}

	result, err := h.service.ComparisonService.Compare(ctx, *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("comparison built", result))
}

func (h *HttpAPIHandler) portfolioMetrics(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.PortfolioRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.ComparisonService.PortfolioMetrics(ctx, *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("portfolio metrics computed", result))
}

func (h *HttpAPIHandler) generateReport(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.ReportRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.ReportService.GenerateReport(ctx, *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("report generated", result))
}
