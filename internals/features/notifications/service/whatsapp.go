// file: internals/features/notifications/service/whatsapp.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WhatsappSender - superfície consumida pelo dispatch; testes usam fake.
type WhatsappSender interface {
	SendMessage(ctx context.Context, phone, message string) error
}

// WhatsappClient fala com o serviço-ponte de WhatsApp via HTTP.
type WhatsappClient struct {
	BaseURL string
	Token   string
	client  *http.Client
}

func NewWhatsappClient(baseURL, token string) *WhatsappClient {
	return &WhatsappClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *WhatsappClient) SendMessage(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BaseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.Token != "" {
		req.Header.Set("Authorization", "Bearer "+w.Token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp bridge: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
