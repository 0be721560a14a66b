package noop

import (
	"context"
	"log"

	"hrdesk/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs decision emails to stdout.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendDocumentDecisionEmail(_ context.Context, msg port.DecisionEmail) error {
	log.Printf("[NOOP EMAIL] %s document for %s (%s) is %s%s: %s/me/documents",
		msg.SlotLabel, msg.ToName, msg.ToEmail, msg.Status, reasonSuffix(msg.Reason), s.frontendURL)
	return nil
}

func reasonSuffix(reason string) string {
	if reason == "" {
		return ""
	}
	return " (" + reason + ")"
}
