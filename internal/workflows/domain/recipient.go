package domain

import (
	"strings"

	"github.com/google/uuid"
)

// RecipientType selects how a workflow's destinations are resolved.
type RecipientType string

const (
	RecipientEmail      RecipientType = "email"
	RecipientPosition   RecipientType = "position"
	RecipientAllMembers RecipientType = "all_members"
)

func ParseRecipientType(s string) (RecipientType, bool) {
	switch t := RecipientType(strings.ToLower(strings.TrimSpace(s))); t {
	case RecipientEmail, RecipientPosition, RecipientAllMembers:
		return t, true
	}
	return "", false
}

// Recipient is one of EmailRecipient, PositionRecipient or AllMembersRecipient.
// Each variant carries only the fields its strategy needs.
type Recipient interface {
	Type() RecipientType
	isRecipient()
}

// EmailRecipient sends to a single fixed address.
type EmailRecipient struct {
	Email string
	Name  string
}

// PositionRecipient sends to every current holder of a committee position.
// PositionName is filled on reads for display only.
type PositionRecipient struct {
	PositionID   uuid.UUID
	PositionName string
}

// AllMembersRecipient sends to every active member of the organization.
type AllMembersRecipient struct{}

func (EmailRecipient) Type() RecipientType      { return RecipientEmail }
func (PositionRecipient) Type() RecipientType   { return RecipientPosition }
func (AllMembersRecipient) Type() RecipientType { return RecipientAllMembers }

func (EmailRecipient) isRecipient()      {}
func (PositionRecipient) isRecipient()   {}
func (AllMembersRecipient) isRecipient() {}

// RecipientFields is the flat column/wire shape of a Recipient.
type RecipientFields struct {
	Type       RecipientType
	Email      string
	Name       string
	PositionID uuid.UUID
}

// NewRecipient builds the variant selected by f.Type. Fields belonging to
// other strategies are ignored.
func NewRecipient(f RecipientFields) (Recipient, bool) {
	switch f.Type {
	case RecipientEmail:
		return EmailRecipient{Email: f.Email, Name: f.Name}, true
	case RecipientPosition:
		return PositionRecipient{PositionID: f.PositionID}, true
	case RecipientAllMembers:
		return AllMembersRecipient{}, true
	}
	return nil, false
}

// Flatten returns the columns for r with every field of the other strategies cleared.
func Flatten(r Recipient) RecipientFields {
	switch v := r.(type) {
	case EmailRecipient:
		return RecipientFields{Type: RecipientEmail, Email: v.Email, Name: v.Name}
	case PositionRecipient:
		return RecipientFields{Type: RecipientPosition, PositionID: v.PositionID}
	case AllMembersRecipient:
		return RecipientFields{Type: RecipientAllMembers}
	}
	return RecipientFields{}
}
