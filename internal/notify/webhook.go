package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// WebhookChannel posts each message as JSON to an HTTP endpoint, such as a
// WhatsApp Business gateway or a chat relay. It returns the wa.me link for the
// same message so callers can still show it.
type WebhookChannel struct {
	URL    string
	Client *http.Client
}

type webhookPayload struct {
	Destination string `json:"destination"`
	Text        string `json:"text"`
	Link        string `json:"link"`
}

func NewWebhookChannel(url string) *WebhookChannel {
	return &WebhookChannel{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *WebhookChannel) Send(ctx context.Context, destination, text string) (string, error) {
	if destination == "" {
		return "", ErrNoDestination
	}
	link := WhatsAppLink(destination, text)
	body, err := json.Marshal(webhookPayload{Destination: destination, Text: text, Link: link})
	if err != nil {
		return "", fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", fmt.Errorf("webhook status %d: %s", res.StatusCode, string(msg))
	}
	log.Printf("[notify] webhook delivered message to %s", destination)
	return link, nil
}
