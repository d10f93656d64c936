package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TriggerEvent is the membership lifecycle moment a workflow reacts to.
type TriggerEvent string

const (
	TriggerSignup  TriggerEvent = "signup"
	TriggerRenewal TriggerEvent = "renewal"
	// TriggerBoth is only valid on a stored workflow; it is never fired.
	TriggerBoth TriggerEvent = "both"
)

// ParseTriggerEvent accepts the values a workflow may be configured with.
func ParseTriggerEvent(s string) (TriggerEvent, bool) {
	switch t := TriggerEvent(strings.ToLower(strings.TrimSpace(s))); t {
	case TriggerSignup, TriggerRenewal, TriggerBoth:
		return t, true
	}
	return "", false
}

// Fireable reports whether t names an event that can actually occur.
func (t TriggerEvent) Fireable() bool {
	return t == TriggerSignup || t == TriggerRenewal
}

// State is the lifecycle state derived from a stored workflow.
type State string

const (
	StateActive   State = "active"
	StateDisabled State = "disabled"
)

// Workflow is a stored rule mapping a trigger event and a recipient strategy
// to a renderable email.
type Workflow struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    string
	TriggerEvent   TriggerEvent
	Conditions     Conditions
	Recipient      Recipient
	EmailSubject   string
	EmailTemplate  string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Fires reports whether the workflow should run for the given event.
func (w Workflow) Fires(event TriggerEvent) bool {
	if !w.IsActive || !event.Fireable() {
		return false
	}
	return w.TriggerEvent == event || w.TriggerEvent == TriggerBoth
}

func (w Workflow) State() State {
	if w.IsActive {
		return StateActive
	}
	return StateDisabled
}

// WorkflowInput carries operator-supplied fields for create and update.
// A nil IsActive means "enabled" on create and "unchanged" on update.
type WorkflowInput struct {
	Name          string
	Description   string
	TriggerEvent  TriggerEvent
	Conditions    Conditions
	Recipient     Recipient
	EmailSubject  string
	EmailTemplate string
	IsActive      *bool
}

// Normalize trims free-text fields in place.
func (in *WorkflowInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if r, ok := in.Recipient.(EmailRecipient); ok {
		r.Email = strings.TrimSpace(r.Email)
		r.Name = strings.TrimSpace(r.Name)
		in.Recipient = r
	}
}

// Address is a single resolved destination.
type Address struct {
	Email string
	Name  string
}

// Variables maps template variable names to values.
type Variables map[string]string

// Documented template variables.
const (
	VarFirstName      = "first_name"
	VarLastName       = "last_name"
	VarEmail          = "email"
	VarMembershipType = "membership_type"
)

// KnownVariables lists the variables exposed to operators.
var KnownVariables = []string{VarFirstName, VarLastName, VarEmail, VarMembershipType}

// Merge returns a copy of v with keys from other that v does not define.
func (v Variables) Merge(other Variables) Variables {
	out := make(Variables, len(v)+len(other))
	for k, val := range other {
		out[k] = val
	}
	for k, val := range v {
		out[k] = val
	}
	return out
}

// MemberProfile is the subset of a member record usable as template variables.
type MemberProfile struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	MembershipType string
}

func (m MemberProfile) Variables() Variables {
	return Variables{
		VarFirstName:      m.FirstName,
		VarLastName:       m.LastName,
		VarEmail:          m.Email,
		VarMembershipType: m.MembershipType,
	}
}

// Credential identifies the operator behind a request. It is passed
// explicitly to operations that require an authenticated session.
type Credential struct {
	OperatorID     uuid.UUID
	OrganizationID uuid.UUID
	Token          string
}

func (c Credential) Valid() bool {
	return strings.TrimSpace(c.Token) != "" && c.OrganizationID != uuid.Nil
}

// Trigger is a single signup or renewal occurrence.
type Trigger struct {
	Event     TriggerEvent
	MemberID  *uuid.UUID
	Variables Variables
}

// TestSendRequest asks for one rendered copy of a workflow sent to TestEmail.
type TestSendRequest struct {
	WorkflowID uuid.UUID
	TestEmail  string
	TestData   Variables
}

// DefaultTestData fills sample values for variables a test request leaves out.
var DefaultTestData = Variables{
	VarFirstName:      "John",
	VarLastName:       "Doe",
	VarEmail:          "john.doe@example.com",
	VarMembershipType: "Adult",
}

// Outcome records what happened to one matched workflow.
type Outcome struct {
	WorkflowID   uuid.UUID
	WorkflowName string
	Recipients   int
	Delivered    int
	// Err is set when the workflow could not be resolved at all.
	Err      error
	Failures []error
}

func (o Outcome) OK() bool { return o.Err == nil && len(o.Failures) == 0 }

// FireReport summarises a Fire call. Err is set only when matching itself failed.
type FireReport struct {
	OrganizationID uuid.UUID
	Event          TriggerEvent
	Outcomes       []Outcome
	Err            error
}

func (r FireReport) Matched() int { return len(r.Outcomes) }

func (r FireReport) Delivered() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Delivered
	}
	return n
}

func (r FireReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}
