package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	rl "github.com/wjlander/choo/internal/platform/ratelimit"
	"github.com/wjlander/choo/internal/platform/validation"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
	domain "github.com/wjlander/choo/internal/workflows/domain"
)

// Controller exposes workflow management, test sends and the trigger hook.
type Controller struct {
	svc    domain.Service
	engine domain.Engine

	jwtMW    echo.MiddlewareFunc
	rlStore  rl.Store
	settings sdomain.Service

	testLimit     int
	testWindow    time.Duration
	triggerLimit  int
	triggerWindow time.Duration
}

func New(svc domain.Service, engine domain.Engine) *Controller {
	return &Controller{
		svc:           svc,
		engine:        engine,
		testLimit:     10,
		testWindow:    time.Minute,
		triggerLimit:  120,
		triggerWindow: time.Minute,
	}
}

// WithJWT injects a JWT middleware for these endpoints.
func (h *Controller) WithJWT(mw echo.MiddlewareFunc) *Controller { h.jwtMW = mw; return h }

// WithRateLimit injects a shared Store for distributed rate limiting.
func (h *Controller) WithRateLimit(store rl.Store) *Controller { h.rlStore = store; return h }

// WithSettings enables per-organization rate limit overrides.
func (h *Controller) WithSettings(s sdomain.Service) *Controller { h.settings = s; return h }

// WithTestSendLimit sets the default test-send budget per organization.
func (h *Controller) WithTestSendLimit(limit int, window time.Duration) *Controller {
	if limit > 0 {
		h.testLimit = limit
	}
	if window > 0 {
		h.testWindow = window
	}
	return h
}

func (h *Controller) policy(name, limitKey, windowKey string, lim int, win time.Duration) echo.MiddlewareFunc {
	p := rl.Policy{
		Name:   name,
		Window: win,
		Limit:  lim,
		Key:    rl.KeyOrgOrIP(name, amw.OrganizationID),
	}
	if h.settings != nil {
		p.WindowFunc = func(c echo.Context) time.Duration {
			if oid, ok := amw.OrganizationID(c); ok {
				if d, err := h.settings.GetDuration(c.Request().Context(), windowKey, &oid, win); err == nil {
					return d
				}
			}
			return win
		}
		p.LimitFunc = func(c echo.Context) int {
			if oid, ok := amw.OrganizationID(c); ok {
				if v, err := h.settings.GetInt(c.Request().Context(), limitKey, &oid, lim); err == nil {
					return v
				}
			}
			return lim
		}
	}
	if h.rlStore != nil {
		return rl.MiddlewareWithStore(p, h.rlStore)
	}
	return rl.Middleware(p)
}

func (h *Controller) Register(e *echo.Echo) {
	var auth []echo.MiddlewareFunc
	if h.jwtMW != nil {
		auth = append(auth, h.jwtMW)
	}
	testMW := append(append([]echo.MiddlewareFunc{}, auth...),
		h.policy("workflows:test", sdomain.KeyRLTestSendLimit, sdomain.KeyRLTestSendWindow, h.testLimit, h.testWindow))
	triggerMW := append(append([]echo.MiddlewareFunc{}, auth...),
		h.policy("workflows:trigger", sdomain.KeyRLTriggerLimit, sdomain.KeyRLTriggerWindow, h.triggerLimit, h.triggerWindow))

	e.GET("/api/v1/workflows", h.list, auth...)
	e.POST("/api/v1/workflows", h.create, auth...)
	e.POST("/api/v1/workflows/trigger", h.trigger, triggerMW...)
	e.GET("/api/v1/workflows/:id", h.get, auth...)
	e.PUT("/api/v1/workflows/:id", h.update, auth...)
	e.PATCH("/api/v1/workflows/:id/toggle", h.toggle, auth...)
	e.DELETE("/api/v1/workflows/:id", h.delete, auth...)
	e.POST("/api/workflows/test", h.sendTest, testMW...)
}

// writeError maps domain errors onto HTTP responses.
func writeError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	var derr *domain.DeliveryError
	var serr *domain.StoreError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, validation.Failed(verr.Fields))
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "workflow not found"})
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.As(err, &derr):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "email delivery failed"})
	case errors.As(err, &serr):
		c.Logger().Errorf("workflows: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	c.Logger().Errorf("workflows: unexpected error: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func session(c echo.Context) (orgID, actorID uuid.UUID, ok bool) {
	orgID, ok = amw.OrganizationID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	actorID, _ = amw.OperatorID(c)
	return orgID, actorID, true
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}

func pathID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// List Workflows godoc
// @Summary      List workflows
// @Description  All workflows of the caller's organization, newest first
// @Tags         workflows
// @Produce      json
// @Success      200  {object}  listResp
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/workflows [get]
func (h *Controller) list(c echo.Context) error {
	orgID, _, ok := session(c)
	if !ok {
		return unauthorized(c)
	}
	items, err := h.svc.List(c.Request().Context(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	out := listResp{Items: make([]workflowResp, 0, len(items))}
	for _, w := range items {
		out.Items = append(out.Items, toResp(w))
	}
	return c.JSON(http.StatusOK, out)
}

// Create Workflow godoc
// @Summary      Create workflow
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        body  body  workflowRequest  true  "workflow"
// @Success      201  {object}  workflowResp
// @Failure      400  {object}  validation.ErrorBody
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/workflows [post]
func (h *Controller) create(c echo.Context) error {
	orgID, actorID, ok := session(c)
	if !ok {
		return unauthorized(c)
	}
	var req workflowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}
	w, err := h.svc.Create(c.Request().Context(), orgID, actorID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toResp(w))
}

func (h *Controller) get(c echo.Context) error {
	orgID, _, ok := session(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	w, err := h.svc.Get(c.Request().Context(), orgID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(w))
}

// Update Workflow godoc
// @Summary      Replace workflow
// @Description  Full replacement of the editable fields; omitted is_active keeps the current state
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "Workflow ID (UUID)"
// @Param        body  body  workflowRequest  true  "workflow"
// @Success      200  {object}  workflowResp
// @Failure      400  {object}  validation.ErrorBody
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/workflows/{id} [put]
func (h *Controller) update(c echo.Context) error {
	orgID, actorID, ok := session(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var req workflowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}
	w, err := h.svc.Update(c.Request().Context(), orgID, actorID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(w))
}

func (h *Controller) toggle(c echo.Context) error {
	orgID, actorID, ok := session(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	w, err := h.svc.Toggle(c.Request().Context(), orgID, actorID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(w))
}

func (h *Controller) delete(c echo.Context) error {
	orgID, actorID, ok := session(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.svc.Delete(c.Request().Context(), orgID, actorID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Send Test Email godoc
// @Summary      Send a test copy of a workflow
// @Description  Renders the workflow with testData (missing keys use sample values) and sends it only to testEmail
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        body  body  testSendReq  true  "test send"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  validation.ErrorBody
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/workflows/test [post]
func (h *Controller) sendTest(c echo.Context) error {
	var req testSendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	cred := domain.Credential{Token: amw.Token(c)}
	cred.OrganizationID, _ = amw.OrganizationID(c)
	cred.OperatorID, _ = amw.OperatorID(c)
	if !cred.Valid() {
		return writeError(c, domain.ErrUnauthenticated)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	wid, _ := uuid.Parse(req.WorkflowID)
	err := h.engine.SendTest(c.Request().Context(), cred, domain.TestSendRequest{
		WorkflowID: wid,
		TestEmail:  req.TestEmail,
		TestData:   domain.Variables(req.TestData),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Trigger Workflows godoc
// @Summary      Fire workflows for a membership event
// @Description  Runs every active workflow matching the event. Delivery problems are reported in the body; the response is always 202 once the event is accepted.
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        body  body  triggerReq  true  "trigger"
// @Success      202  {object}  triggerResp
// @Failure      400  {object}  validation.ErrorBody
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/workflows/trigger [post]
func (h *Controller) trigger(c echo.Context) error {
	orgID, _, ok := session(c)
	if !ok {
		return unauthorized(c)
	}
	var req triggerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	t := domain.Trigger{Event: domain.TriggerEvent(req.Event), Variables: domain.Variables(req.Variables)}
	if req.MemberID != "" {
		if id, err := uuid.Parse(req.MemberID); err == nil {
			t.MemberID = &id
		}
	}
	report := h.engine.Fire(c.Request().Context(), orgID, t)
	return c.JSON(http.StatusAccepted, toTriggerResp(report))
}
