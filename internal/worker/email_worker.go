package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/acavalcante04/erp-security/internal/infra"

	"github.com/rs/zerolog/log"
)

// Remetente sends one message. *infra.Mailer satisfies it.
type Remetente interface {
	Enviar(msg infra.Email) error
}

// EmailWorker processes jobs from QueueEmail: quote PDFs sent to clients.
type EmailWorker struct {
	mailer Remetente
}

func NewEmailWorker(mailer Remetente) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var msg infra.Email
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Permanente(fmt.Errorf("email_worker: payload inválido: %w", err))
	}
	if msg.Para == "" {
		return Permanente(errors.New("email_worker: destinatário vazio"))
	}

	if err := w.mailer.Enviar(msg); err != nil {
		if errors.Is(err, infra.ErrSMTPNaoConfigurado) {
			return Permanente(err)
		}
		return err
	}
	log.Info().Str("to", msg.Para).Int("anexos", len(msg.Anexos)).Msg("email_worker: email enviado")
	return nil
}
