// Package jobs carries stored domain events through the asynq queue and
// runs their side effects in the worker.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
)

// TypeEventDispatch is the asynq task type for stored domain events.
const TypeEventDispatch = "event:dispatch"

// DefaultQueue is used when no queue name is configured.
const DefaultQueue = "crm-events"

// EventPayload is the task body handed to the worker.
type EventPayload struct {
	EventID     string          `json:"eventId"`
	Topic       string          `json:"topic"`
	AggregateID string          `json:"aggregateId"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// PayloadFromEvent converts a stored event into its task body.
func PayloadFromEvent(ev dbgen.DomainEvent) EventPayload {
	p := EventPayload{Topic: ev.Topic}
	if ev.ID.Valid {
		p.EventID = uuid.UUID(ev.ID.Bytes).String()
	}
	if ev.AggregateID.Valid {
		p.AggregateID = uuid.UUID(ev.AggregateID.Bytes).String()
	}
	if len(ev.Payload) > 0 && json.Valid(ev.Payload) {
		p.Payload = json.RawMessage(ev.Payload)
	}
	if ev.OccurredAt.Valid {
		p.OccurredAt = ev.OccurredAt.Time.UTC()
	}
	return p
}

// NewEventTask builds the asynq task for a stored event.
func NewEventTask(ev dbgen.DomainEvent, opts ...asynq.Option) (*asynq.Task, error) {
	body, err := json.Marshal(PayloadFromEvent(ev))
	if err != nil {
		return nil, fmt.Errorf("jobs: encode event task: %w", err)
	}
	return asynq.NewTask(TypeEventDispatch, body, opts...), nil
}

// DecodeEventTask parses the task body.
func DecodeEventTask(t *asynq.Task) (EventPayload, error) {
	var p EventPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return EventPayload{}, fmt.Errorf("jobs: decode event task: %w", err)
	}
	if p.Topic == "" {
		return EventPayload{}, fmt.Errorf("jobs: event task missing topic")
	}
	return p, nil
}
