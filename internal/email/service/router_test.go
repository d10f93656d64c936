package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjlander/choo/internal/config"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
)

type mockSettings struct{ vals map[string]string }

func (m mockSettings) GetString(ctx context.Context, key string, orgID *uuid.UUID, def string) (string, error) {
	if v, ok := m.vals[key]; ok {
		return v, nil
	}
	return def, nil
}
func (m mockSettings) GetDuration(ctx context.Context, key string, orgID *uuid.UUID, def time.Duration) (time.Duration, error) {
	return def, nil
}
func (m mockSettings) GetInt(ctx context.Context, key string, orgID *uuid.UUID, def int) (int, error) {
	return def, nil
}

var _ sdomain.Service = (*mockSettings)(nil)

type captureSender struct {
	called                    bool
	lastTo, lastSub, lastBody string
	lastOrg                   uuid.UUID
}

func (c *captureSender) Send(ctx context.Context, orgID uuid.UUID, to, subject, body string) error {
	c.called = true
	c.lastTo, c.lastSub, c.lastBody = to, subject, body
	c.lastOrg = orgID
	return nil
}

func newCaptureRouter(provider string, cfg config.Config) (*Router, map[string]*captureSender) {
	vals := map[string]string{}
	if provider != "" {
		vals[sdomain.KeyEmailProvider] = provider
	}
	r := NewRouter(mockSettings{vals: vals}, cfg)
	caps := map[string]*captureSender{"smtp": {}, "brevo": {}, "ses": {}}
	r.smtp, r.brevo, r.ses = caps["smtp"], caps["brevo"], caps["ses"]
	return r, caps
}

func TestRouter_SelectsProviderFromSettings(t *testing.T) {
	for _, prov := range []string{"smtp", "brevo", "ses"} {
		t.Run(prov, func(t *testing.T) {
			org := uuid.New()
			r, caps := newCaptureRouter(prov, config.Config{EmailProvider: "smtp"})
			require.NoError(t, r.Send(context.Background(), org, "a@b.com", "sub", "body"))
			for name, c := range caps {
				assert.Equal(t, name == prov, c.called, name)
			}
			assert.Equal(t, org, caps[prov].lastOrg)
			assert.Equal(t, "a@b.com", caps[prov].lastTo)
		})
	}
}

func TestRouter_FallsBackToConfigProvider(t *testing.T) {
	r, caps := newCaptureRouter("", config.Config{EmailProvider: "ses"})
	require.NoError(t, r.Send(context.Background(), uuid.New(), "a@b.com", "s", "b"))
	assert.True(t, caps["ses"].called)
	assert.False(t, caps["smtp"].called)
}

func TestRouter_UnknownProviderUsesSMTP(t *testing.T) {
	r, caps := newCaptureRouter("carrier-pigeon", config.Config{EmailProvider: "smtp"})
	require.NoError(t, r.Send(context.Background(), uuid.New(), "a@b.com", "s", "b"))
	assert.True(t, caps["smtp"].called)
}
