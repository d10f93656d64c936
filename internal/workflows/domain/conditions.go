package domain

import (
	"fmt"
	"strings"
	"time"
)

// ConditionKind tags a condition node.
type ConditionKind string

const (
	ConditionEquals    ConditionKind = "equals"
	ConditionInSet     ConditionKind = "in_set"
	ConditionDateRange ConditionKind = "date_range"
)

// Condition is a single predicate node. Only the fields of its Kind are used:
// Value for equals, Values for in_set, From/To for date_range.
type Condition struct {
	Kind   ConditionKind `json:"kind"`
	Field  string        `json:"field"`
	Value  string        `json:"value,omitempty"`
	Values []string      `json:"values,omitempty"`
	From   *time.Time    `json:"from,omitempty"`
	To     *time.Time    `json:"to,omitempty"`
}

// Conditions is the stored filter of a workflow. It is persisted and
// round-tripped but not evaluated when a workflow fires; an empty value
// serialises to {}.
type Conditions struct {
	All []Condition `json:"all,omitempty"`
}

func (c Conditions) IsEmpty() bool { return len(c.All) == 0 }

// Validate checks each node carries the fields its kind needs.
func (c Conditions) Validate() error {
	for i, n := range c.All {
		if strings.TrimSpace(n.Field) == "" {
			return fmt.Errorf("condition %d: field is required", i)
		}
		switch n.Kind {
		case ConditionEquals:
			if n.Value == "" {
				return fmt.Errorf("condition %d: value is required", i)
			}
		case ConditionInSet:
			if len(n.Values) == 0 {
				return fmt.Errorf("condition %d: values are required", i)
			}
		case ConditionDateRange:
			if n.From == nil && n.To == nil {
				return fmt.Errorf("condition %d: from or to is required", i)
			}
			if n.From != nil && n.To != nil && n.To.Before(*n.From) {
				return fmt.Errorf("condition %d: to is before from", i)
			}
		default:
			return fmt.Errorf("condition %d: unknown kind %q", i, n.Kind)
		}
	}
	return nil
}
