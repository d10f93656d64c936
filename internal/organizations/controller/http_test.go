package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amw "github.com/wjlander/choo/internal/auth/middleware"
	"github.com/wjlander/choo/internal/config"
	domain "github.com/wjlander/choo/internal/organizations/domain"
	"github.com/wjlander/choo/internal/platform/validation"
)

type fakeService struct {
	domain.Service
	orgs      map[uuid.UUID]domain.Organization
	lastOpts  domain.ListOptions
	createErr error
}

func (f *fakeService) Create(_ context.Context, name, slug, email string) (domain.Organization, error) {
	if f.createErr != nil {
		return domain.Organization{}, f.createErr
	}
	o := domain.Organization{ID: uuid.New(), Name: name, Slug: slug, ContactEmail: email, IsActive: true, CreatedAt: time.Now()}
	f.orgs[o.ID] = o
	return o, nil
}

func (f *fakeService) GetByID(_ context.Context, id uuid.UUID) (domain.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return o, domain.ErrNotFound
	}
	return o, nil
}

func (f *fakeService) Deactivate(_ context.Context, id uuid.UUID) error {
	o, ok := f.orgs[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.IsActive = false
	f.orgs[id] = o
	return nil
}

func (f *fakeService) List(_ context.Context, opts domain.ListOptions) (domain.ListResult, error) {
	f.lastOpts = opts
	res := domain.ListResult{Page: 1, PageSize: 20}
	for _, o := range f.orgs {
		if opts.OrganizationID != uuid.Nil && o.ID != opts.OrganizationID {
			continue
		}
		res.Items = append(res.Items, o)
	}
	res.Total = int64(len(res.Items))
	return res, nil
}

func setup(t *testing.T) (*echo.Echo, *fakeService, config.Config) {
	t.Helper()
	cfg := config.Config{JWTSigningKey: "organizations-test-key"}
	svc := &fakeService{orgs: map[uuid.UUID]domain.Organization{}}
	e := echo.New()
	e.Validator = validation.New()
	New(svc).WithJWT(amw.NewJWT(cfg)).Register(e)
	return e, svc, cfg
}

func do(e *echo.Echo, method, path, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenReadOwnOrganization(t *testing.T) {
	e, svc, cfg := setup(t)
	rec := do(e, http.MethodPost, "/api/v1/organizations", "", `{"name":"Riverside Rowing","contact_email":"office@riverside.test"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created organizationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := uuid.MustParse(created.ID)

	tok, _, err := amw.Sign(cfg, uuid.New(), id, time.Minute)
	require.NoError(t, err)
	rec = do(e, http.MethodGet, "/api/v1/organizations/"+created.ID, tok, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPatch, "/api/v1/organizations/"+created.ID+"/deactivate", tok, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, svc.orgs[id].IsActive)
}

func TestCreate_Validation(t *testing.T) {
	e, svc, _ := setup(t)
	rec := do(e, http.MethodPost, "/api/v1/organizations", "", `{"contact_email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body validation.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "contact_email")

	svc.createErr = domain.ErrDuplicate
	rec = do(e, http.MethodPost, "/api/v1/organizations", "", `{"name":"Dup"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOtherOrganizationForbidden(t *testing.T) {
	e, svc, cfg := setup(t)
	other := domain.Organization{ID: uuid.New(), Name: "Other"}
	svc.orgs[other.ID] = other

	tok, _, err := amw.Sign(cfg, uuid.New(), uuid.New(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/api/v1/organizations/"+other.ID.String(), tok, "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPatch, "/api/v1/organizations/"+other.ID.String()+"/deactivate", tok, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/v1/organizations", "", "").Code)
}

func TestList_QueryParams(t *testing.T) {
	e, svc, cfg := setup(t)
	org := uuid.New()
	tok, _, err := amw.Sign(cfg, uuid.New(), org, time.Minute)
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/api/v1/organizations?q=row&active=1&page=2&page_size=5", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ListOptions{OrganizationID: org, Query: "row", Active: 1, Page: 2, PageSize: 5}, svc.lastOpts)

	rec = do(e, http.MethodGet, "/api/v1/organizations", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, svc.lastOpts.Active)
}

func TestList_OnlySessionOrganization(t *testing.T) {
	e, svc, cfg := setup(t)
	mine := domain.Organization{ID: uuid.New(), Name: "Mine", ContactEmail: "office@mine.test"}
	other := domain.Organization{ID: uuid.New(), Name: "Other club", ContactEmail: "secretary@other.test"}
	svc.orgs[mine.ID] = mine
	svc.orgs[other.ID] = other

	tok, _, err := amw.Sign(cfg, uuid.New(), mine.ID, time.Minute)
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/api/v1/organizations", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, mine.ID.String(), body.Items[0].ID)
	assert.NotContains(t, rec.Body.String(), "secretary@other.test")
}
