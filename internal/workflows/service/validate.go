package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domain "github.com/wjlander/choo/internal/workflows/domain"
)

var emailValidator = validator.New()

func validEmail(s string) bool {
	return strings.TrimSpace(s) != "" && emailValidator.Var(s, "email") == nil
}

// validate checks an input before any write. Field keys match the JSON names
// used by the HTTP surface.
func (s *Service) validate(ctx context.Context, orgID uuid.UUID, in domain.WorkflowInput) error {
	verr := &domain.ValidationError{}
	if in.Name == "" {
		verr.Add("name", "required")
	}
	if strings.TrimSpace(in.EmailSubject) == "" {
		verr.Add("email_subject", "required")
	}
	if strings.TrimSpace(in.EmailTemplate) == "" {
		verr.Add("email_template", "required")
	}
	switch in.TriggerEvent {
	case domain.TriggerSignup, domain.TriggerRenewal, domain.TriggerBoth:
	default:
		verr.Add("trigger_event", "must be one of signup, renewal, both")
	}
	if err := in.Conditions.Validate(); err != nil {
		verr.Add("conditions", err.Error())
	}

	switch r := in.Recipient.(type) {
	case domain.EmailRecipient:
		if r.Email == "" {
			verr.Add("recipient_email", "required")
		} else if !validEmail(r.Email) {
			verr.Add("recipient_email", "invalid email")
		}
	case domain.PositionRecipient:
		if r.PositionID == uuid.Nil {
			verr.Add("recipient_position_id", "required")
			break
		}
		if s.positions == nil {
			break
		}
		_, found, err := s.positions.ActivePosition(ctx, orgID, r.PositionID)
		if err != nil {
			return domain.WrapStore("lookup position", err)
		}
		if !found {
			verr.Add("recipient_position_id", "unknown or inactive position")
		}
	case domain.AllMembersRecipient:
	default:
		verr.Add("recipient_type", "must be one of email, position, all_members")
	}
	return verr.OrNil()
}
