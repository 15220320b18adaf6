package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer is the outbound notification collaborator. Sends may fail; callers
// own any rollback of state that was written in anticipation of delivery.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// SESMailer sends email through AWS SES.
type SESMailer struct {
	client      *ses.Client
	fromAddress string
	logger      *slog.Logger
}

func NewSESMailer(region, fromAddress string, logger *slog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

func (m *SESMailer) SendWelcome(ctx context.Context, to, name string) error {
	htmlBody := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h1>Welcome to Trailbook, %s!</h1>
    <p>We're glad to have you. Browse the tour catalog and book your first adventure.</p>
    <p>If you didn't create this account, you can safely ignore this email.</p>
</body>
</html>`, name)

	textBody := fmt.Sprintf(
		"Welcome to Trailbook, %s!\n\nWe're glad to have you. Browse the tour catalog and book your first adventure.\n", name)

	return m.send(ctx, to, "Welcome to Trailbook!", htmlBody, textBody)
}

func (m *SESMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	htmlBody := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h1>Hi %s,</h1>
    <p>Forgot your password? Submit a request with your new password to:</p>
    <p><a href="%s">%s</a></p>
    <p><strong>This link is only valid for 10 minutes.</strong></p>
    <p>If you didn't request a password reset, please ignore this email.</p>
</body>
</html>`, name, resetURL, resetURL)

	textBody := fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Submit a request with your new password to:\n%s\n\nThis link is only valid for 10 minutes.\nIf you didn't request a password reset, please ignore this email.\n",
		name, resetURL)

	return m.send(ctx, to, "Your password reset token (valid for 10 minutes)", htmlBody, textBody)
}

func (m *SESMailer) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		m.logger.Error("failed to send email via SES",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent",
		slog.String("to", to),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}

// LogMailer logs emails instead of sending them. Used in development so the
// reset URL shows up in the console.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendWelcome(_ context.Context, to, name string) error {
	m.logger.Info("welcome email (dev)", slog.String("to", to), slog.String("name", name))
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, name, resetURL string) error {
	m.logger.Info("password reset email (dev)",
		slog.String("to", to),
		slog.String("reset_url", resetURL))
	return nil
}

// NewMailer picks the SES mailer for production and the log mailer
// otherwise.
func NewMailer(env, region, fromAddress string, logger *slog.Logger) (Mailer, error) {
	if env == "production" {
		return NewSESMailer(region, fromAddress, logger)
	}
	return NewLogMailer(logger), nil
}
