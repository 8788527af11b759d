// internal/service/email/sender.go
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers one HTML message.
type Sender interface {
	Send(to, subject, bodyHTML string) error
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	smtpHost string
	smtpPort string
	username string
	password string
	fromName string
	secure   bool
}

func NewSMTPSender(host, port, user, pass, fromName string, secure bool) *SMTPSender {
	return &SMTPSender{
		smtpHost: host,
		smtpPort: port,
		username: user,
		password: pass,
		fromName: fromName,
		secure:   secure,
	}
}

// Configured reports whether a relay host was set. Without one the service
// runs with notifications disabled.
func (e *SMTPSender) Configured() bool {
	return e.smtpHost != ""
}

func (e *SMTPSender) Send(to, subject, bodyHTML string) error {
	from := fmt.Sprintf("%s <%s>", e.fromName, e.username)
	msg := buildMessage(from, to, subject, bodyHTML)
	serverAddr := e.smtpHost + ":" + e.smtpPort
	auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)

	if !e.secure {
		// STARTTLS on 587
		if err := smtp.SendMail(serverAddr, auth, e.username, []string{to}, msg); err != nil {
			return fmt.Errorf("send mail failed: %w", err)
		}
		return nil
	}

	// Implicit TLS on 465
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: e.smtpHost})
	if err != nil {
		return fmt.Errorf("tls dial failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.smtpHost)
	if err != nil {
		return fmt.Errorf("smtp client failed: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth failed: %w", err)
	}
	if err := client.Mail(e.username); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return w.Close()
}

func buildMessage(from, to, subject, bodyHTML string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(layout(bodyHTML))
	return []byte(b.String())
}

func layout(content string) string {
	const header = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8" />
	<title>Directorio</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f1ea; padding: 30px; }
		.container { max-width: 600px; margin: auto; background: #fff; border-radius: 8px; overflow: hidden; }
		.header { background: #1f6f50; color: white; text-align: center; padding: 18px; font-size: 20px; font-weight: bold; }
		.body { padding: 24px; color: #333; line-height: 1.6; }
		.footer { background: #eee; color: #666; text-align: center; padding: 12px; font-size: 12px; }
	</style>
</head>
<body>
<div class="container">
	<div class="header">Directorio</div>
	<div class="body">
`
	const footer = `
	</div>
	<div class="footer">Mensaje automático del directorio de negocios.</div>
</div>
</body>
</html>`
	return header + strings.TrimSpace(content) + footer
}
