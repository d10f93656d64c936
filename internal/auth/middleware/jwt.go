package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wjlander/choo/internal/config"
)

const (
	ctxOperatorIDKey     = "auth_operator_id"
	ctxOrganizationIDKey = "auth_organization_id"
	ctxTokenKey          = "auth_token"

	cookieName = "choo_session"
)

// NewJWT returns an Echo middleware that validates operator session JWTs and
// stores the operator, organization and raw token in the context.
func NewJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")

			// If no Authorization header, fall back to cookie-based session token
			if auth == "" {
				if cookie, err := c.Cookie(cookieName); err == nil && cookie != nil && cookie.Value != "" {
					auth = "Bearer " + cookie.Value
				}
			}

			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			tokStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			tok, err := jwt.Parse(tokStr, func(token *jwt.Token) (any, error) {
				return []byte(cfg.JWTSigningKey), nil
			}, jwt.WithLeeway(30*time.Second), jwt.WithIssuedAt(), jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			org, _ := claims["org"].(string)
			uid, err1 := uuid.Parse(sub)
			oid, err2 := uuid.Parse(org)
			if err1 != nil || err2 != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid subject or organization"})
			}

			c.Set(ctxOperatorIDKey, uid)
			c.Set(ctxOrganizationIDKey, oid)
			c.Set(ctxTokenKey, tokStr)
			return next(c)
		}
	}
}

// Sign issues an HS256 session token for an operator of an organization.
func Sign(cfg config.Config, operatorID, orgID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": operatorID.String(),
		"org": orgID.String(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"iss": cfg.PublicBaseURL,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSigningKey))
	return s, exp, err
}

// OperatorID returns the authenticated operator's ID from context.
func OperatorID(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(ctxOperatorIDKey)
	if v == nil {
		return uuid.UUID{}, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// OrganizationID returns the authenticated organization's ID from context.
func OrganizationID(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(ctxOrganizationIDKey)
	if v == nil {
		return uuid.UUID{}, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Token returns the raw bearer token that authenticated the request.
func Token(c echo.Context) string {
	s, _ := c.Get(ctxTokenKey).(string)
	return s
}
