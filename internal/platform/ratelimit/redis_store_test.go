package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptStub answers EVALSHA with a canned fixed-window reply.
type scriptStub struct {
	redis.Scripter
	reply []interface{}
	err   error
	keys  []string
	args  []interface{}
}

func (s *scriptStub) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	s.keys, s.args = keys, args
	return redis.NewCmdResult(s.reply, s.err)
}

func echoCtx() echo.Context {
	return echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/x", nil), httptest.NewRecorder())
}

func TestRedisStore_AllowsWithinLimit(t *testing.T) {
	stub := &scriptStub{reply: []interface{}{int64(2), int64(40000)}}
	ok, retry, err := NewRedisStoreWithClient(stub).Allow(echoCtx(), "workflows:test:org:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, retry)
	assert.Equal(t, []string{"choo:rl:workflows:test:org:1"}, stub.keys)
	assert.Equal(t, []interface{}{int64(60000)}, stub.args)
}

func TestRedisStore_RetryAfterRoundsUp(t *testing.T) {
	stub := &scriptStub{reply: []interface{}{int64(4), int64(1500)}}
	ok, retry, err := NewRedisStoreWithClient(stub).Allow(echoCtx(), "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, retry)
}

func TestRedisStore_PropagatesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	_, _, err := NewRedisStoreWithClient(&scriptStub{err: boom}).Allow(echoCtx(), "k", 3, time.Minute)
	assert.ErrorIs(t, err, boom)
}
