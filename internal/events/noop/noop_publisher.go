package noop

import (
	"context"
	"log"

	"hrdesk/internal/port"
)

type noopPublisher struct{}

// NewNoopPublisher returns an EventPublisher that only logs decisions. It is used when NATS is not configured.
func NewNoopPublisher() port.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishDecision(_ context.Context, event port.DecisionEvent) error {
	log.Printf("[NOOP EVENT] document %s (%s) for employee %s is %s",
		event.DocumentID, event.SlotID, event.EmployeeID, event.Status)
	return nil
}
