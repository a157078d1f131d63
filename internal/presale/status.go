package presale

import (
	"strings"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Status is the lifecycle state of a pre-sale.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusConverted Status = "converted"
)

// AllStatuses lists every known status in lifecycle order.
var AllStatuses = []Status{StatusDraft, StatusPending, StatusApproved, StatusCancelled, StatusConverted}

var transitions = map[Status][]Status{
	StatusDraft:     {StatusPending, StatusCancelled},
	StatusPending:   {StatusApproved, StatusCancelled, StatusConverted},
	StatusApproved:  {StatusConverted, StatusCancelled},
	StatusCancelled: {},
	StatusConverted: {},
}

// ParseStatus validates a client supplied status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return "", common.InvalidInput("status is required").
			WithDetails(map[string]any{"allowed": AllStatuses})
	}
	if _, ok := transitions[s]; !ok {
		return "", common.InvalidInput("unknown status %q", raw).
			WithDetails(map[string]any{"allowed": AllStatuses})
	}
	return s, nil
}

// AllowedTransitions returns the statuses reachable from s.
func (s Status) AllowedTransitions() []Status {
	return append([]Status(nil), transitions[s]...)
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving to next is legal. Staying in the
// same status is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		_, known := transitions[s]
		return known
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates the move from -> to.
func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return common.InvalidStatusTransition(string(from), string(to))
	}
	return nil
}
