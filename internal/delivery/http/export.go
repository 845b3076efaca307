package http

import (
	"net/http"

	"investment-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupExports(base *echo.Group) {
	exportGroup := base.Group("/exports")
	exportGroup.POST("", h.createExport)
	exportGroup.GET("", h.listExports)
}

func (h *HttpAPIHandler) createExport(c echo.Context) error {
	req := new(dto.ExportRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	path, err := h.service.ExportService.Export(*req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "export written", map[string]string{"path": path}))
}

func (h *HttpAPIHandler) listExports(c echo.Context) error {
	files, err := h.service.ExportService.History()
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("export files", files))
}
