// Package delivery emails the weekly report archive.
package delivery

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sendgrid/rest"
	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"weekly-sales-report/internal/domain"
)

var (
	// ErrMissingConfig is returned when the API key, sender or recipient is unset.
	ErrMissingConfig = errors.New("missing email configuration")

	// ErrRejected is returned when the mail API answers with a non-2xx status.
	ErrRejected = errors.New("email rejected")
)

const senderName = "Weekly Sales Report"

// Sender sends a prepared message. *sendgrid.Client implements it.
type Sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Config holds delivery settings.
type Config struct {
	APIKey string
	From   string
	To     string // comma-separated recipients
}

// Validate reports ErrMissingConfig when any setting is empty.
func (c Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "api key")
	}
	if c.From == "" {
		missing = append(missing, "sender")
	}
	if len(recipients(c.To)) == 0 {
		missing = append(missing, "recipient")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Mailer sends the weekly report email through SendGrid.
type Mailer struct {
	cfg    Config
	sender Sender
	logger *zap.Logger
}

// NewMailer creates a Mailer backed by the SendGrid API.
func NewMailer(cfg Config) (*Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Mailer{
		cfg:    cfg,
		sender: sendgrid.NewSendClient(cfg.APIKey),
		logger: zap.NewNop(),
	}, nil
}

// WithSender replaces the SendGrid client.
func (m *Mailer) WithSender(s Sender) *Mailer {
	m.sender = s
	return m
}

// WithLogger sets the logger.
func (m *Mailer) WithLogger(logger *zap.Logger) *Mailer {
	m.logger = logger
	return m
}

// Subject returns the email subject for the current window.
func Subject(p domain.Periods) string {
	return fmt.Sprintf("Weekly Sales Report - %s to %s",
		p.Current.Start.Format("02/01/2006"), p.Current.End.Format("02/01/2006"))
}

// Body returns the HTML body for the current window.
func Body(p domain.Periods) string {
	var sb strings.Builder
	sb.WriteString("<html>\n<body>\n")
	sb.WriteString("<h2>Weekly Sales Report</h2>\n")
	sb.WriteString(fmt.Sprintf("<p>Period: %s – %s</p>\n",
		p.Current.Start.Format("02/01/2006"), p.Current.End.Format("02/01/2006")))
	sb.WriteString("<p>Attached is the ZIP file containing the detailed Excel report.</p>\n")
	sb.WriteString("<p>Best regards,<br>Your automated reporting system</p>\n")
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// SendWeeklyReport emails zipPath as an attachment.
func (m *Mailer) SendWeeklyReport(ctx context.Context, zipPath string, p domain.Periods) error {
	content, err := os.ReadFile(zipPath)
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}

	msg := m.build(content, filepath.Base(zipPath), p)

	resp, err := m.sender.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, resp.Body)
	}

	m.logger.Info("email sent",
		zap.String("subject", Subject(p)),
		zap.Int("status", resp.StatusCode),
		zap.Int("recipients", len(recipients(m.cfg.To))),
	)
	return nil
}

func (m *Mailer) build(attachment []byte, filename string, p domain.Periods) *mail.SGMailV3 {
	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail(senderName, m.cfg.From))
	msg.Subject = Subject(p)

	personalization := mail.NewPersonalization()
	for _, to := range recipients(m.cfg.To) {
		personalization.AddTos(mail.NewEmail("", to))
	}
	msg.AddPersonalizations(personalization)
	msg.AddContent(mail.NewContent("text/html", Body(p)))

	a := mail.NewAttachment()
	a.SetContent(base64.StdEncoding.EncodeToString(attachment))
	a.SetType("application/zip")
	a.SetFilename(filename)
	a.SetDisposition("attachment")
	msg.AddAttachment(a)

	return msg
}

func recipients(to string) []string {
	var out []string
	for _, r := range strings.Split(to, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
