package ratelimit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func serve(e *echo.Echo) int {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	return rec.Code
}

func TestMiddleware_BlocksAfterLimit(t *testing.T) {
	e := echo.New()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		Middleware(Policy{Name: "test", Limit: 2, Window: time.Minute}))

	assert.Equal(t, http.StatusOK, serve(e))
	assert.Equal(t, http.StatusOK, serve(e))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMiddleware_LimitFuncOverrides(t *testing.T) {
	e := echo.New()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		Middleware(Policy{Name: "test", Limit: 100, LimitFunc: func(echo.Context) int { return 1 }}))
	assert.Equal(t, http.StatusOK, serve(e))
	assert.Equal(t, http.StatusTooManyRequests, serve(e))
}

type stubStore struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubStore) Allow(_ echo.Context, key string, _ int, _ time.Duration) (bool, int, error) {
	s.keys = append(s.keys, key)
	return s.allowed, 7, s.err
}

func TestMiddlewareWithStore(t *testing.T) {
	org := uuid.New()
	keyFn := KeyOrgOrIP("workflows:test", func(echo.Context) (uuid.UUID, bool) { return org, true })

	cases := []struct {
		name  string
		store *stubStore
		want  int
	}{
		{"allowed", &stubStore{allowed: true}, http.StatusOK},
		{"blocked", &stubStore{}, http.StatusTooManyRequests},
		{"store error fails open", &stubStore{err: errors.New("redis down")}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
				MiddlewareWithStore(Policy{Name: "workflows:test", Key: keyFn}, tc.store))
			assert.Equal(t, tc.want, serve(e))
			assert.Equal(t, []string{"workflows:test:org:" + org.String()}, tc.store.keys)
		})
	}
}

func TestKeyOrgOrIP_FallsBackToIP(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	key := KeyOrgOrIP("p", func(echo.Context) (uuid.UUID, bool) { return uuid.Nil, false })(c)
	assert.Equal(t, "p:ip:203.0.113.9", key)
}
