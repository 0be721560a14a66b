package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// DecisionEvent is the payload published when a document verification changes.
type DecisionEvent struct {
	DocumentID uuid.UUID                 `json:"document_id"`
	EmployeeID uuid.UUID                 `json:"employee_id"`
	SlotID     string                    `json:"slot_id"`
	Status     domain.VerificationStatus `json:"status"`
	Reason     string                    `json:"reason,omitempty"`
	DecidedBy  *uuid.UUID                `json:"decided_by,omitempty"`
	DecidedAt  time.Time                 `json:"decided_at"`
}

// EventPublisher publishes document verification events.
type EventPublisher interface {
	PublishDecision(ctx context.Context, event DecisionEvent) error
}

// DecisionHandler applies a verification decision received from an external verifier.
type DecisionHandler func(ctx context.Context, decision domain.VerificationDecision) error

// DecisionSubscriber delivers external verification decisions until Close.
type DecisionSubscriber interface {
	Subscribe(handler DecisionHandler) error
	Close() error
}
