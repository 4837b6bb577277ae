package appointment

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alignwork/api/internal/platform/apperr"
)

type Handler struct {
	svc         *Service
	defaultZone string
}

func NewHandler(svc *Service, defaultZone string) *Handler {
	return &Handler{svc: svc, defaultZone: defaultZone}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("/summary", h.Summary)
	g.GET("/mega-stats", h.MegaStats)
	g.PATCH("/:id", h.UpdateStatus)
}

func tenantID(c echo.Context) (string, error) {
	tenant := c.QueryParam("tenantId")
	if tenant == "" {
		return "", apperr.ValidationField("tenantId", "required", "tenantId is required")
	}
	return tenant, nil
}

func (h *Handler) zone(c echo.Context) string {
	if tz := c.QueryParam("tz"); tz != "" {
		return tz
	}
	return h.defaultZone
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	a, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return apperr.ValidationField("id", "invalid", "id must be a positive integer")
	}
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), tenant, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Summary(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return err
	}
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return apperr.ValidationField("from", "invalid_datetime", "from must be an RFC 3339 instant")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return apperr.ValidationField("to", "invalid_datetime", "to must be an RFC 3339 instant")
	}

	sum, err := h.svc.Summarize(c.Request().Context(), tenant, from, to, h.zone(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) MegaStats(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return err
	}
	stats, hit, err := h.svc.MegaStats(c.Request().Context(), tenant, h.zone(c))
	if err != nil {
		return err
	}
	if hit {
		c.Response().Header().Set("X-Cache", "HIT")
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}
	return c.JSON(http.StatusOK, stats)
}
