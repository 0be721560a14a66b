package upload

import "hrdesk/internal/domain"

// Badge describes how a verification status is rendered next to a slot.
type Badge struct {
	Label        string `json:"label"`
	Variant      string `json:"variant"`
	Tooltip      string `json:"tooltip,omitempty"`
	InlineReason string `json:"inline_reason,omitempty"`
}

// RenderBadge maps a verification status to its badge. It returns nil when no badge is shown.
func RenderBadge(status domain.VerificationStatus, reason string) *Badge {
	switch status {
	case domain.VerificationPending:
		return &Badge{Label: "Pending Verification", Variant: "warning"}
	case domain.VerificationVerified:
		return &Badge{Label: "Verified", Variant: "success"}
	case domain.VerificationRejected:
		b := &Badge{Label: "Rejected", Variant: "destructive"}
		if reason != "" {
			b.Tooltip = reason
			b.InlineReason = reason
		}
		return b
	default:
		return nil
	}
}
