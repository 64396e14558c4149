package mail

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	apperrors "user-registration-service/pkg/errors"
)

// Config holds SMTP settings for the mail transport.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional email through an external SMTP transport.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// NewMailer creates a Mailer over the given SMTP configuration.
func NewMailer(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

// welcomeBody renders the welcome message HTML.
func welcomeBody(firstName string) string {
	return fmt.Sprintf(`<h1>Welcome %s!</h1>
<p>Your account has been successfully created.</p>
<p>You can now login to your account.</p>
<p>Best regards,<br>The Team</p>`, firstName)
}

// SendWelcome delivers the welcome message to a newly registered user.
func (m *Mailer) SendWelcome(to, firstName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome to Our Platform!")
	msg.SetBody("text/html", welcomeBody(firstName))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("failed to send welcome email", zap.String("to", to), zap.Error(err))
		return apperrors.NewDeliveryError("failed to send welcome email", err)
	}

	m.log.Info("welcome email sent", zap.String("to", to))
	return nil
}
