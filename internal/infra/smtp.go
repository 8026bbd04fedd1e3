package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/acavalcante04/erp-security/internal/config"

	"github.com/jordan-wright/email"
)

// ErrSMTPNaoConfigurado is returned when SMTP_HOST is empty.
var ErrSMTPNaoConfigurado = errors.New("smtp não configurado")

// Anexo is an in-memory attachment.
type Anexo struct {
	Nome        string `json:"nome"`
	ContentType string `json:"content_type"`
	Conteudo    []byte `json:"conteudo"`
}

// Email is the message handed to the mailer and carried by email jobs.
type Email struct {
	Para    string  `json:"para"`
	Assunto string  `json:"assunto"`
	Corpo   string  `json:"corpo"`
	Anexos  []Anexo `json:"anexos,omitempty"`
}

// Mailer wraps SMTP configuration. Every send goes through a circuit breaker so a
// dead SMTP relay fails fast instead of tying up the worker pool.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

func (m *Mailer) Configurado() bool { return m.host != "" }

// Enviar sends msg with its attachments.
func (m *Mailer) Enviar(msg Email) error {
	if !m.Configurado() {
		return ErrSMTPNaoConfigurado
	}
	e, err := montarEmail(m.user, msg)
	if err != nil {
		return err
	}
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}

func montarEmail(from string, msg Email) (*email.Email, error) {
	e := email.NewEmail()
	e.From = from
	e.To = []string{msg.Para}
	e.Subject = msg.Assunto
	e.Text = []byte(msg.Corpo)
	for _, a := range msg.Anexos {
		if _, err := e.Attach(bytes.NewReader(a.Conteudo), a.Nome, a.ContentType); err != nil {
			return nil, fmt.Errorf("mailer: anexo %s: %w", a.Nome, err)
		}
	}
	return e, nil
}
