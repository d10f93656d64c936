package service

import (
	"context"
	"errors"
	"testing"

	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjlander/choo/internal/config"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func newTestSES(vals map[string]string, cfg config.Config, fake *fakeSES, regions *[]string) *SES {
	s := NewSES(mockSettings{vals: vals}, cfg)
	s.newClient = func(_ context.Context, region string) (sesAPI, error) {
		*regions = append(*regions, region)
		return fake, nil
	}
	return s
}

func TestSES_SendBuildsInput(t *testing.T) {
	fake := &fakeSES{}
	var regions []string
	s := newTestSES(map[string]string{sdomain.KeySESRegion: "eu-west-1"}, config.Config{SESFromEmail: "club@org.test"}, fake, &regions)

	require.NoError(t, s.Send(context.Background(), uuid.New(), "a@b.test", "Hello Ana", "Body"))
	require.NoError(t, s.Send(context.Background(), uuid.New(), "c@d.test", "Hello Ben", "Body"))

	assert.Equal(t, []string{"eu-west-1"}, regions, "client cached per region")
	require.Len(t, fake.inputs, 2)
	in := fake.inputs[0]
	assert.Equal(t, "club@org.test", *in.FromEmailAddress)
	assert.Equal(t, []string{"a@b.test"}, in.Destination.ToAddresses)
	assert.Equal(t, "Hello Ana", *in.Content.Simple.Subject.Data)
	assert.Equal(t, "Body", *in.Content.Simple.Body.Text.Data)
}

func TestSES_WrapsSendError(t *testing.T) {
	boom := errors.New("throttled")
	var regions []string
	s := newTestSES(nil, config.Config{SESRegion: "eu-west-2", SESFromEmail: "x@org.test"}, &fakeSES{err: boom}, &regions)
	err := s.Send(context.Background(), uuid.Nil, "a@b.test", "s", "b")
	assert.ErrorIs(t, err, boom)
}

func TestSES_NotConfigured(t *testing.T) {
	var regions []string
	s := newTestSES(nil, config.Config{SESRegion: "eu-west-2"}, &fakeSES{}, &regions)
	assert.Error(t, s.Send(context.Background(), uuid.Nil, "a@b.test", "s", "b"))
	assert.Empty(t, regions)
}
