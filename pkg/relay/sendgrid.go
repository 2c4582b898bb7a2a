package relay

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridConfig holds the SendGrid credentials and sender identity.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// SendGridRelay delivers the submission as an e-mail: the subject line, the
// formatted report and the raw values appended below it.
type SendGridRelay struct {
	client *sendgrid.Client
	to     string
	from   *mail.Email
	logger *zap.Logger
}

// NewSendGridRelay returns a relay mailing cfg.DestinationEmail.
func NewSendGridRelay(cfg Config, sg SendGridConfig, logger *zap.Logger) (*SendGridRelay, error) {
	if strings.TrimSpace(sg.APIKey) == "" {
		return nil, errors.New("relay: sendgrid api key is required")
	}
	to := strings.TrimSpace(cfg.DestinationEmail)
	if to == "" {
		return nil, errors.New("relay: sendgrid requires a destination email")
	}
	fromEmail := strings.TrimSpace(sg.FromEmail)
	if fromEmail == "" {
		fromEmail = to
	}
	fromName := strings.TrimSpace(sg.FromName)
	if fromName == "" {
		fromName = "Formulário de atendimento"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := sendgrid.NewSendClient(sg.APIKey)
	if sg.BaseURL != "" {
		client.BaseURL = sg.BaseURL
	}
	return &SendGridRelay{
		client: client,
		to:     to,
		from:   mail.NewEmail(fromName, fromEmail),
		logger: logger,
	}, nil
}

// Send mails the submission.
func (r *SendGridRelay) Send(ctx context.Context, sub Submission) error {
	body := emailBody(sub)
	htmlBody := "<pre>" + html.EscapeString(body) + "</pre>"
	message := mail.NewSingleEmail(r.from, sub.Subject, mail.NewEmail("", r.to), body, htmlBody)
	if replyTo := strings.TrimSpace(sub.Record.Value("email")); replyTo != "" {
		message.SetReplyTo(mail.NewEmail(sub.Record.Value("nome"), replyTo))
	}

	resp, err := r.client.SendWithContext(ctx, message)
	if err != nil {
		return &SubmissionError{Transport: "sendgrid", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Error("sendgrid returned error status",
			zap.String("submission_id", sub.ID),
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body),
		)
		return &SubmissionError{Transport: "sendgrid", StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}
	r.logger.Info("submission mailed via sendgrid",
		zap.String("submission_id", sub.ID),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

func emailBody(sub Submission) string {
	var b strings.Builder
	b.WriteString(sub.Report)
	b.WriteString("\n-- valores enviados --\n")
	for _, name := range sub.Record.Names() {
		fmt.Fprintf(&b, "%s: %s\n", name, sub.Record.Value(name))
	}
	return b.String()
}
