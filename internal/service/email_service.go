package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"familycoach/internal/logger"
	"familycoach/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *logger.Logger
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that drops every message.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, log *logger.Logger) (*EmailService, error) {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With("component", "email_service")

	if fromEmail == "" {
		log.Info("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{log: log}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("Email service enabled", "region", awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		enabled:    true,
		log:        log,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s != nil && s.enabled
}

// SendSessionSummary tells a parent that a child finished a coaching session
func (s *EmailService) SendSessionSummary(ctx context.Context, toEmail, childName string, session *models.CoachingSession) error {
	if !s.IsEnabled() {
		s.log.Debug("Skipping email send (service disabled)", "session_id", session.ID)
		return nil
	}

	subject, htmlBody, textBody := sessionSummaryEmail(childName, session, s.appBaseURL)
	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func sessionSummaryEmail(childName string, session *models.CoachingSession, appBaseURL string) (string, string, string) {
	if childName == "" {
		childName = "Your child"
	}
	link := fmt.Sprintf("%s/sessions/%s", appBaseURL, session.ID)
	subject := fmt.Sprintf("%s finished a coaching session", childName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #5b8def; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #5b8def; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Session complete</h1>
		</div>
		<div class="content">
			<p>%s just finished a coaching session.</p>
			<p><strong>Summary:</strong> %s</p>
			<p>Their offline actions are waiting on the checklist. Ask them how it went!</p>
			<p style="text-align: center;">
				<a href="%s" class="button">View session</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from Family Coach. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(childName), html.EscapeString(session.Summary), link)

	textBody := fmt.Sprintf(`%s just finished a coaching session.

Summary: %s

Their offline actions are waiting on the checklist. Ask them how it went!

View session: %s

---
This is an automated email from Family Coach. Please do not reply.
`, childName, session.Summary, link)

	return subject, htmlBody, textBody
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	s.log.Info("Email sent", "email", toEmail, "subject", subject, "message_id", messageID)
	return nil
}
