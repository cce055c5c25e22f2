package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/BruksfildServices01/studio-manager/internal/logger"
)

// Messenger delivers a text message to a phone number.
type Messenger interface {
	Send(ctx context.Context, phone, body string) error
}

// LogMessenger only logs the message with a click-to-chat link; delivery is
// done by hand from the front desk.
type LogMessenger struct {
	Log logger.Logger
}

func (m LogMessenger) Send(_ context.Context, phone, body string) error {
	log := m.Log
	if log == nil {
		log = logger.Discard()
	}
	log.Info("message ready", logger.Fields{
		"to":   phone,
		"link": "https://wa.me/" + phone + "?text=" + url.QueryEscape(body),
	})
	return nil
}

func questionnaireMessage(name, link, business string) string {
	return fmt.Sprintf(
		"Olá %s!\nPara melhor atendê-lo(a), por favor preencha nossa ficha de anamnese:\n%s\n\n%s agradece sua preferência!",
		name, link, business,
	)
}

// internationalPhone prefixes Brazilian numbers with the country code.
func internationalPhone(digits string) string {
	if len(digits) >= 12 && digits[:2] == "55" {
		return digits
	}
	return "55" + digits
}
