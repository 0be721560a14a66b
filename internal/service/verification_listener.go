package service

import (
	"context"
	"fmt"
	"log"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

// VerificationListener applies decisions from external verifiers through DocumentService.
type VerificationListener struct {
	subscriber port.DecisionSubscriber
	documents  DocumentService
}

// NewVerificationListener creates a new VerificationListener.
func NewVerificationListener(subscriber port.DecisionSubscriber, documents DocumentService) *VerificationListener {
	return &VerificationListener{subscriber: subscriber, documents: documents}
}

// Start subscribes to the external decision feed.
func (l *VerificationListener) Start() error {
	if err := l.subscriber.Subscribe(l.Handle); err != nil {
		return fmt.Errorf("verificationListener.Start: %w", err)
	}
	return nil
}

// Handle applies one external decision. External verifiers are not attributed to a user.
func (l *VerificationListener) Handle(ctx context.Context, decision domain.VerificationDecision) error {
	decision.DecidedBy = nil
	doc, err := l.documents.ApplyDecision(ctx, decision)
	if err != nil {
		return err
	}
	log.Printf("verificationListener.Handle: external decision %s applied to document %s", doc.VerificationStatus, doc.ID)
	return nil
}

// Stop drains the subscription.
func (l *VerificationListener) Stop() error {
	return l.subscriber.Close()
}
