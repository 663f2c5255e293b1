// Package mail delivers email drafts over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/log"
)

// SuccessMessage is the outcome reported after a successful send
const SuccessMessage = "Email sent successfully!"

// ErrMissingConfig is returned when SMTP settings are incomplete
var ErrMissingConfig = errors.New("missing email configuration")

// Sender sends messages through one SMTP account
type Sender struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
	now    func() time.Time
	// transport delivers a built message, replaced in tests
	transport func(ctx context.Context, cfg config.SMTPConfig, msg *gomail.Msg) error
}

func NewSender(cfg config.SMTPConfig) *Sender {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &Sender{
		cfg:       cfg,
		logger:    log.Component("mail"),
		now:       time.Now,
		transport: smtpTransport,
	}
}

// Validate reports which settings are missing
func Validate(cfg config.SMTPConfig) error {
	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "EMAIL_HOST")
	}
	if cfg.Port == "" {
		missing = append(missing, "EMAIL_PORT")
	}
	if cfg.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if cfg.Password == "" {
		missing = append(missing, "EMAIL_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Send delivers m. Missing attachments are logged and skipped.
func (s *Sender) Send(ctx context.Context, m Message) error {
	if err := Validate(s.cfg); err != nil {
		return err
	}
	if strings.TrimSpace(m.To) == "" || !strings.Contains(m.To, "@") {
		return fmt.Errorf("invalid recipient %q", m.To)
	}

	msg, missing, err := build(s.cfg.From, m, s.now())
	if err != nil {
		return err
	}
	for _, path := range missing {
		s.logger.Warn("attachment not found, sending without it", "path", path)
	}

	if err := s.transport(ctx, s.cfg, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info("email sent", "to", m.To)
	return nil
}

// smtpTransport uses implicit TLS on port 465 and mandatory STARTTLS otherwise
func smtpTransport(ctx context.Context, cfg config.SMTPConfig, msg *gomail.Msg) error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		return fmt.Errorf("invalid EMAIL_PORT %q: %w", cfg.Port, err)
	}

	opts := []gomail.Option{
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Password),
	}
	if port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	}
	// after the TLS options, which set their own default port
	opts = append(opts, gomail.WithPort(port))

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// Dispatcher adapts a Sender to the workflow's delivery interface
type Dispatcher struct {
	Sender *Sender
}

func (d Dispatcher) Dispatch(ctx context.Context, draft drafting.Draft, attachmentPath string) (string, error) {
	if draft.Type != drafting.Email {
		return "", fmt.Errorf("cannot email a %s", strings.ToLower(draft.Type.Label()))
	}
	m := Message{To: draft.Recipient, Subject: draft.Subject, Body: draft.Body}
	if attachmentPath != "" {
		m.Attachments = []string{attachmentPath}
	}
	if err := d.Sender.Send(ctx, m); err != nil {
		return "", err
	}
	return SuccessMessage, nil
}
