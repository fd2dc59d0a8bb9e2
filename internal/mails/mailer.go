package mails

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"time"

	"github.com/go-mail/mail/v2"
)

//go:embed "templates"
var templateFS embed.FS

type Mailer struct {
	Dialer       *mail.Dialer
	Sender       string
	RetriesCount int
}

func New(host string, port int, timeout time.Duration, username, password, sender string, retriesCount int) *Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = timeout
	return &Mailer{
		Dialer:       dialer,
		Sender:       sender,
		RetriesCount: max(retriesCount, 1),
	}
}

// Email is a rendered template: every template defines the "subject",
// "plainBody" and "htmlBody" blocks.
type Email struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

func Render(tmplName string, tmplData any) (*Email, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+tmplName)
	if err != nil {
		return nil, err
	}
	parts := make(map[string]string, 3)
	for _, key := range []string{"subject", "plainBody", "htmlBody"} {
		buff := new(bytes.Buffer)
		if err = tmpl.ExecuteTemplate(buff, key, tmplData); err != nil {
			return nil, err
		}
		parts[key] = buff.String()
	}
	return &Email{Subject: parts["subject"], PlainBody: parts["plainBody"], HTMLBody: parts["htmlBody"]}, nil
}

func (m *Mailer) Send(recipient string, tmplName string, tmplData any) error {
	email, err := Render(tmplName, tmplData)
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.Sender)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.PlainBody)
	msg.AddAlternative("text/html", email.HTMLBody)
	for i := 0; i < m.RetriesCount; i++ {
		err = m.Dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return err
}

// LogMailer writes emails to the log instead of sending them. Used when no
// SMTP server is configured.
type LogMailer struct {
	Log *slog.Logger
}

func (m *LogMailer) Send(recipient string, tmplName string, tmplData any) error {
	email, err := Render(tmplName, tmplData)
	if err != nil {
		return err
	}
	m.Log.Info("email", "to", recipient, "subject", email.Subject, "body", email.PlainBody)
	return nil
}
