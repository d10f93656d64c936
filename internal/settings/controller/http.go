package controller

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	evdomain "github.com/wjlander/choo/internal/events/domain"
	rl "github.com/wjlander/choo/internal/platform/ratelimit"
	"github.com/wjlander/choo/internal/platform/validation"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
)

// Controller exposes organization-scoped email delivery settings.
// Only the whitelisted keys below can be read or written.
type Controller struct {
	repo    sdomain.Repository
	service sdomain.Service
	// Injected concerns
	jwtMW   echo.MiddlewareFunc
	rlStore rl.Store
	pub     evdomain.Publisher
}

func New(repo sdomain.Repository, service sdomain.Service) *Controller {
	return &Controller{repo: repo, service: service}
}

// Register mounts settings endpoints under /api/v1.
func (h *Controller) Register(e *echo.Echo) {
	// Defaults: GET 60/min, PUT 10/min
	mkKey := func(prefix string) func(echo.Context) string {
		return func(c echo.Context) string { return prefix + ":org:" + c.Param("id") }
	}
	winF := func(key string, def time.Duration) func(echo.Context) time.Duration {
		return func(c echo.Context) time.Duration {
			if oid, err := uuid.Parse(c.Param("id")); err == nil {
				if d, err := h.service.GetDuration(c.Request().Context(), key, &oid, def); err == nil {
					return d
				}
			}
			return def
		}
	}
	limF := func(key string, def int) func(echo.Context) int {
		return func(c echo.Context) int {
			if oid, err := uuid.Parse(c.Param("id")); err == nil {
				if v, err := h.service.GetInt(c.Request().Context(), key, &oid, def); err == nil {
					return v
				}
			}
			return def
		}
	}

	getPolicy := rl.Policy{Name: "settings:get", Window: time.Minute, Limit: 60, Key: mkKey("settings:get"),
		WindowFunc: winF(sdomain.KeyRLSettingsGetWindow, time.Minute), LimitFunc: limF(sdomain.KeyRLSettingsGetLimit, 60)}
	putPolicy := rl.Policy{Name: "settings:put", Window: time.Minute, Limit: 10, Key: mkKey("settings:put"),
		WindowFunc: winF(sdomain.KeyRLSettingsPutWindow, time.Minute), LimitFunc: limF(sdomain.KeyRLSettingsPutLimit, 10)}

	var getRL, putRL echo.MiddlewareFunc
	if h.rlStore != nil {
		getRL = rl.MiddlewareWithStore(getPolicy, h.rlStore)
		putRL = rl.MiddlewareWithStore(putPolicy, h.rlStore)
	} else {
		getRL = rl.Middleware(getPolicy)
		putRL = rl.Middleware(putPolicy)
	}

	// Compose middleware per route
	getMW := []echo.MiddlewareFunc{}
	putMW := []echo.MiddlewareFunc{}
	if h.jwtMW != nil {
		getMW = append(getMW, h.jwtMW)
		putMW = append(putMW, h.jwtMW)
	}
	getMW = append(getMW, getRL)
	putMW = append(putMW, putRL)

	e.GET("/api/v1/organizations/:id/settings", h.getSettings, getMW...)
	e.PUT("/api/v1/organizations/:id/settings", h.putSettings, putMW...)
}

// WithJWT injects a JWT middleware for these endpoints.
func (h *Controller) WithJWT(mw echo.MiddlewareFunc) *Controller { h.jwtMW = mw; return h }

// WithRateLimit injects a shared Store for distributed rate limiting.
func (h *Controller) WithRateLimit(store rl.Store) *Controller { h.rlStore = store; return h }

// WithPublisher injects an audit event publisher.
func (h *Controller) WithPublisher(p evdomain.Publisher) *Controller { h.pub = p; return h }

type settingsResponse struct {
	EmailProvider   string `json:"email_provider"`
	SMTPHost        string `json:"smtp_host"`
	SMTPPort        string `json:"smtp_port"`
	SMTPUsername    string `json:"smtp_username"`
	SMTPPassword    string `json:"smtp_password,omitempty"` // masked
	SMTPFrom        string `json:"smtp_from"`
	BrevoAPIKey     string `json:"brevo_api_key,omitempty"` // masked
	BrevoSender     string `json:"brevo_sender"`
	SESRegion       string `json:"ses_region"`
	SESFrom         string `json:"ses_from"`
	DeliveryTimeout string `json:"delivery_timeout"`
}

type putSettingsRequest struct {
	EmailProvider   *string `json:"email_provider"`
	SMTPHost        *string `json:"smtp_host"`
	SMTPPort        *string `json:"smtp_port"`
	SMTPUsername    *string `json:"smtp_username"`
	SMTPPassword    *string `json:"smtp_password"`
	SMTPFrom        *string `json:"smtp_from"`
	BrevoAPIKey     *string `json:"brevo_api_key"`
	BrevoSender     *string `json:"brevo_sender"`
	SESRegion       *string `json:"ses_region"`
	SESFrom         *string `json:"ses_from"`
	DeliveryTimeout *string `json:"delivery_timeout"`
}

type field struct {
	key    string
	value  *string
	secret bool
}

func (r putSettingsRequest) fields() []field {
	return []field{
		{sdomain.KeyEmailProvider, r.EmailProvider, false},
		{sdomain.KeySMTPHost, r.SMTPHost, false},
		{sdomain.KeySMTPPort, r.SMTPPort, false},
		{sdomain.KeySMTPUsername, r.SMTPUsername, false},
		{sdomain.KeySMTPPassword, r.SMTPPassword, true},
		{sdomain.KeySMTPFrom, r.SMTPFrom, false},
		{sdomain.KeyBrevoAPIKey, r.BrevoAPIKey, true},
		{sdomain.KeyBrevoSender, r.BrevoSender, false},
		{sdomain.KeySESRegion, r.SESRegion, false},
		{sdomain.KeySESFrom, r.SESFrom, false},
		{sdomain.KeyWorkflowDeliveryTimeout, r.DeliveryTimeout, false},
	}
}

func (r putSettingsRequest) validate() map[string][]string {
	bad := map[string][]string{}
	trim := func(p *string) string { return strings.TrimSpace(*p) }
	if r.EmailProvider != nil {
		switch strings.ToLower(trim(r.EmailProvider)) {
		case "", "smtp", "brevo", "ses":
		default:
			bad["email_provider"] = append(bad["email_provider"], "must be one of smtp, brevo, ses")
		}
	}
	if r.SMTPPort != nil && trim(r.SMTPPort) != "" {
		if n, err := strconv.Atoi(trim(r.SMTPPort)); err != nil || n < 1 || n > 65535 {
			bad["smtp_port"] = append(bad["smtp_port"], "must be a port number")
		}
	}
	for name, p := range map[string]*string{"smtp_from": r.SMTPFrom, "brevo_sender": r.BrevoSender, "ses_from": r.SESFrom} {
		if p == nil || trim(p) == "" {
			continue
		}
		if _, err := mail.ParseAddress(trim(p)); err != nil {
			bad[name] = append(bad[name], "invalid email")
		}
	}
	if r.DeliveryTimeout != nil && trim(r.DeliveryTimeout) != "" {
		if d, err := time.ParseDuration(trim(r.DeliveryTimeout)); err != nil || d <= 0 {
			bad["delivery_timeout"] = append(bad["delivery_timeout"], "must be a positive duration")
		}
	}
	return bad
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// orgParam parses :id and enforces that it matches the session organization.
// A non-zero status means the request must be rejected with msg.
func orgParam(c echo.Context) (id uuid.UUID, status int, msg string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, http.StatusBadRequest, "invalid id"
	}
	oid, ok := amw.OrganizationID(c)
	if !ok {
		return uuid.Nil, http.StatusUnauthorized, "unauthorized"
	}
	if oid != id {
		return uuid.Nil, http.StatusForbidden, "forbidden"
	}
	return id, 0, ""
}

// Get Organization Settings godoc
// @Summary      Get email delivery settings
// @Description  Returns organization-scoped email settings; secrets are masked
// @Tags         organizations
// @Produce      json
// @Param        id   path   string  true  "Organization ID (UUID)"
// @Success      200  {object}  settingsResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/organizations/{id}/settings [get]
func (h *Controller) getSettings(c echo.Context) error {
	id, status, msg := orgParam(c)
	if status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}
	ctx := c.Request().Context()
	get := func(key string) string {
		v, _ := h.service.GetString(ctx, key, &id, "")
		return v
	}
	resp := settingsResponse{
		EmailProvider:   get(sdomain.KeyEmailProvider),
		SMTPHost:        get(sdomain.KeySMTPHost),
		SMTPPort:        get(sdomain.KeySMTPPort),
		SMTPUsername:    get(sdomain.KeySMTPUsername),
		SMTPPassword:    mask(get(sdomain.KeySMTPPassword)),
		SMTPFrom:        get(sdomain.KeySMTPFrom),
		BrevoAPIKey:     mask(get(sdomain.KeyBrevoAPIKey)),
		BrevoSender:     get(sdomain.KeyBrevoSender),
		SESRegion:       get(sdomain.KeySESRegion),
		SESFrom:         get(sdomain.KeySESFrom),
		DeliveryTimeout: get(sdomain.KeyWorkflowDeliveryTimeout),
	}
	return c.JSON(http.StatusOK, resp)
}

// Put Organization Settings godoc
// @Summary      Upsert email delivery settings
// @Description  Upserts organization email settings. Only whitelisted keys are accepted.
// @Tags         organizations
// @Accept       json
// @Param        id    path   string              true  "Organization ID (UUID)"
// @Param        body  body   putSettingsRequest  true  "settings"
// @Success      204
// @Failure      400  {object}  validation.ErrorBody
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/organizations/{id}/settings [put]
func (h *Controller) putSettings(c echo.Context) error {
	id, status, msg := orgParam(c)
	if status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}
	var req putSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if bad := req.validate(); len(bad) > 0 {
		return c.JSON(http.StatusBadRequest, validation.Failed(bad))
	}

	ctx := c.Request().Context()
	changed := make([]string, 0, 4)
	meta := map[string]string{}
	for _, f := range req.fields() {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if f.key == sdomain.KeyEmailProvider {
			v = strings.ToLower(v)
		}
		if err := h.repo.Upsert(ctx, f.key, &id, v, f.secret); err != nil {
			c.Logger().Errorf("settings upsert %s: %v", f.key, err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
		}
		changed = append(changed, f.key)
		if f.secret {
			meta[f.key] = "redacted"
		}
	}
	// Publish audit event (redact secrets)
	if h.pub != nil && len(changed) > 0 {
		meta["changed"] = strings.Join(changed, ",")
		actor, _ := amw.OperatorID(c)
		_ = h.pub.Publish(ctx, evdomain.Event{Type: "settings.update.success", OrganizationID: id, ActorID: actor, Meta: meta, Time: time.Now()})
	}
	return c.NoContent(http.StatusNoContent)
}
