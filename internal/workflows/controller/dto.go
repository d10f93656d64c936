package controller

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/wjlander/choo/internal/workflows/domain"
	"github.com/wjlander/choo/internal/workflows/render"
)

const allMembersWarning = "all_members sends to every active member"

// undocumentedVariables lists placeholders in subject or body that are not
// among domain.KnownVariables. They render only when a trigger or test send
// supplies them explicitly.
func undocumentedVariables(subject, body string) []string {
	known := make(map[string]bool, len(domain.KnownVariables))
	for _, v := range domain.KnownVariables {
		known[v] = true
	}
	seen := map[string]bool{}
	var out []string
	for _, tmpl := range []string{subject, body} {
		for _, p := range render.Placeholders(tmpl) {
			if !known[p] && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

type workflowRequest struct {
	Name                string             `json:"name"`
	Description         string             `json:"description"`
	TriggerEvent        string             `json:"trigger_event"`
	Conditions          *domain.Conditions `json:"conditions"`
	RecipientType       string             `json:"recipient_type"`
	RecipientEmail      string             `json:"recipient_email"`
	RecipientName       string             `json:"recipient_name"`
	RecipientPositionID string             `json:"recipient_position_id"`
	EmailSubject        string             `json:"email_subject"`
	EmailTemplate       string             `json:"email_template"`
	IsActive            *bool              `json:"is_active"`
}

// toInput converts the flat wire shape. Only the fields of the selected
// recipient type are read; a malformed position id is a field error.
func (r workflowRequest) toInput() (domain.WorkflowInput, error) {
	in := domain.WorkflowInput{
		Name:          r.Name,
		Description:   r.Description,
		TriggerEvent:  domain.TriggerEvent(r.TriggerEvent),
		EmailSubject:  r.EmailSubject,
		EmailTemplate: r.EmailTemplate,
		IsActive:      r.IsActive,
	}
	if ev, ok := domain.ParseTriggerEvent(r.TriggerEvent); ok {
		in.TriggerEvent = ev
	}
	if r.Conditions != nil {
		in.Conditions = *r.Conditions
	}

	rt, ok := domain.ParseRecipientType(r.RecipientType)
	if !ok {
		return in, nil
	}
	f := domain.RecipientFields{Type: rt, Email: r.RecipientEmail, Name: r.RecipientName}
	if rt == domain.RecipientPosition {
		if s := strings.TrimSpace(r.RecipientPositionID); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				verr := &domain.ValidationError{}
				verr.Add("recipient_position_id", "invalid uuid")
				return in, verr
			}
			f.PositionID = id
		}
	}
	in.Recipient, _ = domain.NewRecipient(f)
	return in, nil
}

type workflowResp struct {
	ID                    string            `json:"id"`
	OrganizationID        string            `json:"organization_id"`
	Name                  string            `json:"name"`
	Description           string            `json:"description,omitempty"`
	TriggerEvent          string            `json:"trigger_event"`
	Conditions            domain.Conditions `json:"conditions"`
	RecipientType         string            `json:"recipient_type"`
	RecipientEmail        string            `json:"recipient_email,omitempty"`
	RecipientName         string            `json:"recipient_name,omitempty"`
	RecipientPositionID   string            `json:"recipient_position_id,omitempty"`
	RecipientPositionName string            `json:"recipient_position_name,omitempty"`
	EmailSubject          string            `json:"email_subject"`
	EmailTemplate         string            `json:"email_template"`
	IsActive              bool              `json:"is_active"`
	State                 string            `json:"state"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
	Warnings              []string          `json:"warnings,omitempty"`
}

func toResp(w domain.Workflow) workflowResp {
	out := workflowResp{
		ID:             w.ID.String(),
		OrganizationID: w.OrganizationID.String(),
		Name:           w.Name,
		Description:    w.Description,
		TriggerEvent:   string(w.TriggerEvent),
		Conditions:     w.Conditions,
		EmailSubject:   w.EmailSubject,
		EmailTemplate:  w.EmailTemplate,
		IsActive:       w.IsActive,
		State:          string(w.State()),
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
	switch r := w.Recipient.(type) {
	case domain.EmailRecipient:
		out.RecipientType = string(domain.RecipientEmail)
		out.RecipientEmail = r.Email
		out.RecipientName = r.Name
	case domain.PositionRecipient:
		out.RecipientType = string(domain.RecipientPosition)
		out.RecipientPositionID = r.PositionID.String()
		out.RecipientPositionName = r.PositionName
	case domain.AllMembersRecipient:
		out.RecipientType = string(domain.RecipientAllMembers)
		out.Warnings = append(out.Warnings, allMembersWarning)
	}
	for _, v := range undocumentedVariables(w.EmailSubject, w.EmailTemplate) {
		out.Warnings = append(out.Warnings, fmt.Sprintf("{{%s}} is not a documented variable and stays verbatim unless supplied", v))
	}
	return out
}

type listResp struct {
	Items []workflowResp `json:"items"`
}

type testSendReq struct {
	WorkflowID string            `json:"workflowId" validate:"required,uuid"`
	TestEmail  string            `json:"testEmail" validate:"required,email"`
	TestData   map[string]string `json:"testData"`
}

type triggerReq struct {
	Event     string            `json:"event" validate:"required,oneof=signup renewal"`
	MemberID  string            `json:"member_id" validate:"omitempty,uuid"`
	Variables map[string]string `json:"variables"`
}

type outcomeResp struct {
	WorkflowID string   `json:"workflow_id"`
	Name       string   `json:"name"`
	Recipients int      `json:"recipients"`
	Delivered  int      `json:"delivered"`
	Errors     []string `json:"errors,omitempty"`
}

type triggerResp struct {
	Event     string        `json:"event"`
	Matched   int           `json:"matched"`
	Delivered int           `json:"delivered"`
	Failed    int           `json:"failed"`
	Outcomes  []outcomeResp `json:"outcomes"`
	Error     string        `json:"error,omitempty"`
}

func toTriggerResp(r domain.FireReport) triggerResp {
	out := triggerResp{
		Event:     string(r.Event),
		Matched:   r.Matched(),
		Delivered: r.Delivered(),
		Failed:    r.Failed(),
		Outcomes:  make([]outcomeResp, 0, len(r.Outcomes)),
	}
	if r.Err != nil {
		out.Error = "workflow matching failed"
	}
	for _, o := range r.Outcomes {
		or := outcomeResp{
			WorkflowID: o.WorkflowID.String(),
			Name:       o.WorkflowName,
			Recipients: o.Recipients,
			Delivered:  o.Delivered,
		}
		if o.Err != nil {
			or.Errors = append(or.Errors, o.Err.Error())
		}
		for _, f := range o.Failures {
			or.Errors = append(or.Errors, f.Error())
		}
		out.Outcomes = append(out.Outcomes, or)
	}
	return out
}
