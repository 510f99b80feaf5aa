package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "gopkg.in/mail.v2"

	"MarketRadar/internal/config"
	"MarketRadar/internal/ports"
)

const dialTimeout = 10 * time.Second

// EmailNotifier renders digests and delivers them over SMTP.
type EmailNotifier struct {
	cfg      config.EmailConfig
	renderer *Renderer
	send     func(*gomail.Message) error
	logger   *slog.Logger
}

var _ ports.Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier creates a notifier with the given SMTP configuration.
func NewEmailNotifier(cfg config.EmailConfig, renderer *Renderer, logger *slog.Logger) *EmailNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	n := &EmailNotifier{cfg: cfg, renderer: renderer, logger: logger}
	n.send = n.dialAndSend
	return n
}

// PublishDigest renders and sends one email. Empty digests are skipped.
func (n *EmailNotifier) PublishDigest(ctx context.Context, digest ports.Digest) error {
	if !n.cfg.Enabled() {
		return nil
	}
	if len(digest.Items) == 0 && digest.Reviews == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.renderer.Render(digest)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", n.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	if err := n.send(m); err != nil {
		return fmt.Errorf("send email to %s (subject %q): %w", n.cfg.ToEmail, msg.Subject, err)
	}

	n.logger.Info("email sent", "subject", msg.Subject, "to", n.cfg.ToEmail)
	return nil
}

func (n *EmailNotifier) dialAndSend(m *gomail.Message) error {
	dialer := gomail.NewDialer(n.cfg.SMTPServer, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	dialer.Timeout = dialTimeout
	return dialer.DialAndSend(m)
}
