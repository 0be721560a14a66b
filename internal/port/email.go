package port

import (
	"context"

	"hrdesk/internal/domain"
)

// DecisionEmail carries what an employee is told about a verification decision.
type DecisionEmail struct {
	ToEmail   string
	ToName    string
	SlotLabel string
	Status    domain.VerificationStatus
	Reason    string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendDocumentDecisionEmail(ctx context.Context, msg DecisionEmail) error
}
