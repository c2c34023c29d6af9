// Package events provides the in-process pub/sub channel between the
// organizing pipeline and observers such as the report collector.
// Observers never feed back into the pipeline.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	UnitID() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Unit      string    `json:"unit_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) UnitID() string        { return e.Unit }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, unitID string) BaseEvent {
	return BaseEvent{Type: eventType, Unit: unitID, Timestamp: time.Now()}
}
