package policy

import (
	"fmt"
	"strings"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"
)

// Mode selects how order status changes are checked.
type Mode string

const (
	// Lenient accepts any known status from any status.
	Lenient Mode = "lenient"
	// Strict enforces the transition table below.
	Strict Mode = "strict"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Lenient:
		return Lenient, nil
	case Strict:
		return Strict, nil
	}
	return "", fmt.Errorf("unknown order status mode %q", s)
}

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderDraft:      {models.OrderPublished, models.OrderAssigned, models.OrderCancelled, models.OrderOnHold},
	models.OrderPublished:  {models.OrderDraft, models.OrderAssigned, models.OrderCancelled, models.OrderOnHold},
	models.OrderAssigned:   {models.OrderInProgress, models.OrderPublished, models.OrderCancelled, models.OrderOnHold},
	models.OrderInProgress: {models.OrderCompleted, models.OrderCancelled, models.OrderOnHold},
	models.OrderOnHold:     {models.OrderDraft, models.OrderPublished, models.OrderAssigned, models.OrderInProgress, models.OrderCancelled},
}

type Transitions struct {
	mode Mode
}

func NewTransitions(mode Mode) Transitions {
	return Transitions{mode: mode}
}

func (t Transitions) Mode() Mode { return t.mode }

// Check validates a status write from -> to.
func (t Transitions) Check(from, to models.OrderStatus) error {
	if !to.Valid() {
		return apperr.Validation("unknown status %q", to)
	}
	if t.mode != Strict || from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return apperr.Validation("status cannot change from %s to %s", from, to)
}

// CheckAssign validates assigning a provider to an order in status from.
// Strict mode allows it from draft and published, and re-assignment.
func (t Transitions) CheckAssign(from models.OrderStatus) error {
	if t.mode != Strict {
		return nil
	}
	switch from {
	case models.OrderDraft, models.OrderPublished, models.OrderAssigned:
		return nil
	}
	return apperr.Validation("an order in status %s cannot be assigned", from)
}
