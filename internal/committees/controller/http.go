package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	domain "github.com/wjlander/choo/internal/committees/domain"
)

type Controller struct {
	svc   domain.Service
	jwtMW echo.MiddlewareFunc
}

func New(svc domain.Service) *Controller {
	return &Controller{svc: svc}
}

// WithJWT injects a JWT middleware for these endpoints.
func (h *Controller) WithJWT(mw echo.MiddlewareFunc) *Controller { h.jwtMW = mw; return h }

func (h *Controller) Register(e *echo.Echo) {
	var mw []echo.MiddlewareFunc
	if h.jwtMW != nil {
		mw = append(mw, h.jwtMW)
	}
	e.GET("/api/v1/committee-positions", h.listPositions, mw...)
}

type positionResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// List Committee Positions godoc
// @Summary      List active committee positions
// @Description  Active positions of the caller's organization ordered by display order
// @Tags         committees
// @Produce      json
// @Success      200  {object}  []positionResp
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/committee-positions [get]
func (h *Controller) listPositions(c echo.Context) error {
	orgID, ok := amw.OrganizationID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	items, err := h.svc.ListActivePositions(c.Request().Context(), orgID)
	if err != nil {
		c.Logger().Errorf("list committee positions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load committee positions"})
	}
	out := make([]positionResp, 0, len(items))
	for _, p := range items {
		out = append(out, positionResp{
			ID:           p.ID.String(),
			Name:         p.Name,
			Description:  p.Description,
			DisplayOrder: p.DisplayOrder,
		})
	}
	return c.JSON(http.StatusOK, out)
}
