package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type StatsHandler struct {
	stats ports.StatsService
}

func NewStatsHandler(stats ports.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Summary handles GET /api/stats.
//
// @Summary      Dashboard figures
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Stats
// @Failure      403  {object}  errorResponse
// @Router       /api/stats [get]
func (h *StatsHandler) Summary(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	stats, err := h.stats.Summary(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
