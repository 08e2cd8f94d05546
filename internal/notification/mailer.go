package notification

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/zonoapp/workforce/internal"
)

// Mailer sends transactional mail over SMTP. When the host is left
// unconfigured every send becomes a logged no-op, so local setups work
// without a mail server.
type Mailer struct {
	cfg    internal.MailConfig
	logger *slog.Logger
}

func NewMailer(cfg internal.MailConfig, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.From != ""
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		m.logger.Debug("mail disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)

	return m.send(to, []byte(msg.String()))
}

// SendWithICS attaches a calendar file to the mail so the shift can be
// added to the recipient's calendar in one click.
func (m *Mailer) SendWithICS(to, subject, htmlBody, filename, ics string) error {
	if !m.Enabled() {
		m.logger.Debug("mail disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	const boundary = "zono-mail-boundary"

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/calendar; charset=UTF-8; name=%q\r\n", filename)
	fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n", filename)
	msg.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	msg.WriteString(base64.StdEncoding.EncodeToString([]byte(ics)))
	fmt.Fprintf(&msg, "\r\n--%s--\r\n", boundary)

	return m.send(to, []byte(msg.String()))
}

func (m *Mailer) send(to string, msg []byte) error {
	var auth smtp.Auth
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		m.logger.Error("failed to send mail", "to", to, "error", err)
		return err
	}
	m.logger.Info("mail sent", "to", to)
	return nil
}
