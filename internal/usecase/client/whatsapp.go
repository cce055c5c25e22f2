package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
)

const DefaultWhatsAppAPI = "https://graph.facebook.com/v19.0"

// WhatsAppMessenger sends text messages through the WhatsApp Cloud API.
type WhatsAppMessenger struct {
	HTTP          *http.Client
	BaseURL       string
	PhoneNumberID string
	Token         string
}

func NewWhatsAppMessenger(baseURL, phoneNumberID, token string) *WhatsAppMessenger {
	if baseURL == "" {
		baseURL = DefaultWhatsAppAPI
	}
	return &WhatsAppMessenger{
		HTTP:          &http.Client{Timeout: 10 * time.Second},
		BaseURL:       strings.TrimRight(baseURL, "/"),
		PhoneNumberID: phoneNumberID,
		Token:         token,
	}
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

func (m *WhatsAppMessenger) Send(ctx context.Context, phone, body string) error {
	payload, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             whatsAppText{Body: body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", m.BaseURL, m.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTP.Do(req)
	if err != nil {
		return httperr.ErrUnavailable("message_not_delivered", "Falha ao enviar mensagem.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return httperr.ErrUnavailable("message_not_delivered", "Falha ao enviar mensagem.",
			fmt.Errorf("whatsapp api: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}
	return nil
}
