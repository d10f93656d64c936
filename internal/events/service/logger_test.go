package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjlander/choo/internal/events/domain"
)

func TestLogger_PublishWritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	org := uuid.New()

	err := NewLogger().Publish(ctx, domain.Event{
		Type:           "workflow.delivery.failed",
		OrganizationID: org,
		Meta:           map[string]string{"to": "a@b.test"},
		Time:           time.Now(),
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"type":"workflow.delivery.failed"`)
	assert.Contains(t, out, org.String())
	assert.Contains(t, out, "a@b.test")
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	_ = r.Publish(context.Background(), domain.Event{Type: "workflow.created"})
	_ = r.Publish(context.Background(), domain.Event{Type: "workflow.deleted"})
	assert.Equal(t, []string{"workflow.created", "workflow.deleted"}, r.Types())
}
