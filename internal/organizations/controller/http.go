package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	domain "github.com/wjlander/choo/internal/organizations/domain"
	"github.com/wjlander/choo/internal/platform/validation"
)

type Controller struct {
	svc   domain.Service
	jwtMW echo.MiddlewareFunc
}

func New(svc domain.Service) *Controller {
	return &Controller{svc: svc}
}

// WithJWT protects every route except creation.
func (h *Controller) WithJWT(mw echo.MiddlewareFunc) *Controller { h.jwtMW = mw; return h }

func (h *Controller) Register(e *echo.Echo) {
	var auth []echo.MiddlewareFunc
	if h.jwtMW != nil {
		auth = append(auth, h.jwtMW)
	}
	e.POST("/api/v1/organizations", h.createOrganization)
	e.GET("/api/v1/organizations", h.listOrganizations, auth...)
	e.GET("/api/v1/organizations/:id", h.getOrganization, auth...)
	e.PATCH("/api/v1/organizations/:id/deactivate", h.deactivateOrganization, auth...)
}

type createOrganizationReq struct {
	Name         string `json:"name" validate:"required"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

type organizationResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func toTimeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toResp(o domain.Organization) organizationResp {
	return organizationResp{
		ID:           o.ID.String(),
		Name:         o.Name,
		Slug:         o.Slug,
		ContactEmail: o.ContactEmail,
		IsActive:     o.IsActive,
		CreatedAt:    toTimeString(o.CreatedAt),
		UpdatedAt:    toTimeString(o.UpdatedAt),
	}
}

// sessionMatches enforces that the caller acts on its own organization when a
// session is present.
func (h *Controller) sessionMatches(c echo.Context, id uuid.UUID) bool {
	if h.jwtMW == nil {
		return true
	}
	oid, ok := amw.OrganizationID(c)
	return ok && oid == id
}

// Create Organization godoc
// @Summary      Create organization
// @Description  Creates a new organization; the slug is derived from the name when omitted
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        body  body  createOrganizationReq  true  "organization"
// @Success      201   {object}  organizationResp
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/organizations [post]
func (h *Controller) createOrganization(c echo.Context) error {
	var req createOrganizationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	o, err := h.svc.Create(c.Request().Context(), req.Name, req.Slug, req.ContactEmail)
	if errors.Is(err, domain.ErrDuplicate) {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toResp(o))
}

// Get Organization godoc
// @Summary      Get organization by ID
// @Tags         organizations
// @Produce      json
// @Param        id   path   string  true  "Organization ID (UUID)"
// @Success      200  {object}  organizationResp
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/organizations/{id} [get]
func (h *Controller) getOrganization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if !h.sessionMatches(c, id) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
	}
	o, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	return c.JSON(http.StatusOK, toResp(o))
}

// Deactivate Organization godoc
// @Summary      Deactivate organization
// @Tags         organizations
// @Param        id   path   string  true  "Organization ID (UUID)"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/organizations/{id}/deactivate [patch]
func (h *Controller) deactivateOrganization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if !h.sessionMatches(c, id) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

type listQuery struct {
	Q        string `query:"q"`
	Active   int    `query:"active"` // -1 any, 1 active, 0 inactive
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

type listResponse struct {
	Items      []organizationResp `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// List Organizations godoc
// @Summary      List organizations
// @Description  Lists the session organization, honouring the query and active filters
// @Tags         organizations
// @Produce      json
// @Param        q          query   string  false  "Search query"
// @Param        active     query   int     false  "-1 any, 1 active, 0 inactive"
// @Param        page       query   int     false  "Page number"
// @Param        page_size  query   int     false  "Page size"
// @Success      200  {object}  listResponse
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/organizations [get]
func (h *Controller) listOrganizations(c echo.Context) error {
	q := listQuery{Active: -1}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query"})
	}
	opts := domain.ListOptions{
		Query:    q.Q,
		Active:   q.Active,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	// A session only ever sees its own organization.
	if h.jwtMW != nil {
		oid, ok := amw.OrganizationID(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		opts.OrganizationID = oid
	}
	res, err := h.svc.List(c.Request().Context(), opts)
	if err != nil {
		c.Logger().Errorf("list organizations: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list organizations"})
	}
	items := make([]organizationResp, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, toResp(o))
	}
	return c.JSON(http.StatusOK, listResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	})
}
