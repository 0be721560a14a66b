package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendDocumentDecisionEmail(ctx context.Context, msg port.DecisionEmail) error {
	documentsURL := s.frontendURL + "/me/documents"
	subject, textBody, htmlBody := buildDecisionEmail(msg, documentsURL)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildDecisionEmail(msg port.DecisionEmail, documentsURL string) (subject, text, htmlBody string) {
	switch msg.Status {
	case domain.VerificationVerified:
		subject = fmt.Sprintf("Your %s has been verified", msg.SlotLabel)
		text = fmt.Sprintf("Hi %s,\n\nYour %s has been verified. No further action is needed.\n\n%s\n\nHR Desk", msg.ToName, msg.SlotLabel, documentsURL)
	case domain.VerificationRejected:
		subject = fmt.Sprintf("Action needed: your %s was rejected", msg.SlotLabel)
		text = fmt.Sprintf("Hi %s,\n\nYour %s was rejected.\nReason: %s\n\nPlease upload a new copy:\n%s\n\nHR Desk", msg.ToName, msg.SlotLabel, msg.Reason, documentsURL)
	default:
		subject = fmt.Sprintf("Your %s is %s", msg.SlotLabel, msg.Status)
		text = fmt.Sprintf("Hi %s,\n\nThe status of your %s changed to %s.\n\n%s\n\nHR Desk", msg.ToName, msg.SlotLabel, msg.Status, documentsURL)
	}

	reason := ""
	if msg.Status == domain.VerificationRejected && msg.Reason != "" {
		reason = fmt.Sprintf(`<p style="color: #b91c1c;">Reason: %s</p>`, html.EscapeString(msg.Reason))
	}
	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Hi %s,</p>
  %s
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View my documents</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">HR Desk - Employee Records</p>
</body>
</html>`, html.EscapeString(subject), html.EscapeString(msg.ToName), reason, documentsURL)
	return subject, text, htmlBody
}
