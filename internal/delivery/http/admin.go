package http

import (
	"net/http"

	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAdmin(base *echo.Group) {
	cacheGroup := base.Group("/cache")
	cacheGroup.GET("/stats", h.getCacheStats)
	cacheGroup.DELETE("", h.clearCache)
	cacheGroup.DELETE("/:key", h.clearCacheKey)

	settingsGroup := base.Group("/settings")
	settingsGroup.GET("", h.getSettings)
	settingsGroup.PUT("", h.updateSettings)

	perfGroup := base.Group("/performance")
	perfGroup.GET("", h.getPerformance)
	perfGroup.DELETE("", h.resetPerformance)
}

func (h *HttpAPIHandler) getCacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("cache stats", h.fileCache.Stats()))
}

func (h *HttpAPIHandler) clearCache(c echo.Context) error {
	h.memCache.Flush()
	if !h.fileCache.ClearAll() {
		return h.errorResponse(c, apperrors.ErrCache)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("cache cleared", nil))
}

func (h *HttpAPIHandler) clearCacheKey(c echo.Context) error {
	key := c.Param("key")
	h.memCache.Delete(key)
	if !h.fileCache.Clear(key) {
		return h.errorResponse(c, apperrors.ErrCache)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("cache entry cleared", nil))
}

func (h *HttpAPIHandler) getSettings(c echo.Context) error {
	settings, err := h.settings.Get()
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("settings", settings))
}

func (h *HttpAPIHandler) updateSettings(c echo.Context) error {
	updates := make(map[string]any)
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("no settings provided"))
	}

	settings, err := h.settings.Update(updates)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("settings updated", settings))
}

func (h *HttpAPIHandler) getPerformance(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("performance stats", h.collector.Stats()))
}

func (h *HttpAPIHandler) resetPerformance(c echo.Context) error {
	h.collector.Reset()
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("performance stats reset", nil))
}
