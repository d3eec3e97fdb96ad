// Package mailer renders named templates and dispatches them over SMTP.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/frahmantamala/user-backoffice/internal"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplatePasswordSetup = "password_setup"
	TemplatePasswordReset = "password_reset"
)

var subjects = map[string]string{
	TemplatePasswordSetup: "Set your password",
	TemplatePasswordReset: "Reset your password",
}

// MailData is the context object handed to mail templates.
type MailData struct {
	Fullname string
	ResetURL string
}

// Mailer renders a named template with a context object and dispatches it.
type Mailer interface {
	Send(to, templateName string, data MailData) error
}

type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
	logger    *slog.Logger
}

func NewSMTPMailer(cfg internal.MailConfig, logger *slog.Logger) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &SMTPMailer{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:      fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress),
		templates: tmpl,
		logger:    logger,
	}, nil
}

func (m *SMTPMailer) Send(to, templateName string, data MailData) error {
	subject, ok := subjects[templateName]
	if !ok {
		return fmt.Errorf("unknown mail template %q", templateName)
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName+".html", data); err != nil {
		return fmt.Errorf("render mail template %q: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("mail dispatch failed", "to", to, "template", templateName, "error", err)
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail dispatched", "to", to, "template", templateName)
	return nil
}
