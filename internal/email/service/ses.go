package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"

	"github.com/wjlander/choo/internal/config"
	edomain "github.com/wjlander/choo/internal/email/domain"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
)

// Ensure SES implements domain.Sender
var _ edomain.Sender = (*SES)(nil)

// sesAPI is the subset of the SESv2 client used for sending.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends through AWS SESv2 using the default credential chain. Clients
// are created lazily, one per region.
type SES struct {
	cfg      config.Config
	settings sdomain.Service

	mu        sync.Mutex
	clients   map[string]sesAPI
	newClient func(ctx context.Context, region string) (sesAPI, error)
}

func NewSES(settings sdomain.Service, cfg config.Config) *SES {
	return &SES{
		cfg:       cfg,
		settings:  settings,
		clients:   map[string]sesAPI{},
		newClient: defaultSESClient,
	}
}

func defaultSESClient(ctx context.Context, region string) (sesAPI, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return sesv2.NewFromConfig(awsCfg), nil
}

func (s *SES) client(ctx context.Context, region string) (sesAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[region]; ok {
		return c, nil
	}
	c, err := s.newClient(ctx, region)
	if err != nil {
		return nil, err
	}
	s.clients[region] = c
	return c, nil
}

func (s *SES) Send(ctx context.Context, orgID uuid.UUID, to, subject, body string) error {
	region, _ := s.settings.GetString(ctx, sdomain.KeySESRegion, &orgID, s.cfg.SESRegion)
	from, _ := s.settings.GetString(ctx, sdomain.KeySESFrom, &orgID, s.cfg.SESFromEmail)
	if region == "" || from == "" {
		return fmt.Errorf("ses: %w", edomain.ErrNotConfigured)
	}
	c, err := s.client(ctx, region)
	if err != nil {
		return fmt.Errorf("ses client: %w", err)
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &sestypes.Destination{ToAddresses: []string{to}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body:    &sestypes.Body{Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")}},
			},
		},
	}
	if _, err := c.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}
	return nil
}
