package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

// WebhookNotifier POSTs event payloads to a configured URL, for chat
// webhooks or similar receivers.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     logger.Logger
}

func NewWebhookNotifier(webhookURL string, log logger.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
	}
}

type webhookPayload struct {
	Kind      string      `json:"kind"`
	Target    string      `json:"target"`
	Timestamp time.Time   `json:"timestamp"`
	Body      interface{} `json:"body"`
}

func (w *WebhookNotifier) ScheduleChanged(ctx context.Context, target string, ev engine.ChangeEvent) {
	w.send(ctx, webhookPayload{Kind: "schedule_changed", Target: target, Timestamp: time.Now(), Body: ev})
}

func (w *WebhookNotifier) PositionUpdated(ctx context.Context, target string, fix engine.VehicleFix) {
	w.send(ctx, webhookPayload{Kind: "position_updated", Target: target, Timestamp: time.Now(), Body: fix})
}

func (w *WebhookNotifier) send(ctx context.Context, payload webhookPayload) {
	if w.webhookURL == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		w.logger.Error("Failed to marshal webhook payload", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		w.logger.Error("Failed to create webhook request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.Error("Failed to send webhook", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.logger.Error("Webhook request rejected", "error", fmt.Errorf("status %d", resp.StatusCode))
	}
}

// Fanout dispatches every event to each wrapped notifier.
type Fanout []engine.Notifier

func (f Fanout) ScheduleChanged(ctx context.Context, target string, ev engine.ChangeEvent) {
	for _, n := range f {
		n.ScheduleChanged(ctx, target, ev)
	}
}

func (f Fanout) PositionUpdated(ctx context.Context, target string, fix engine.VehicleFix) {
	for _, n := range f {
		n.PositionUpdated(ctx, target, fix)
	}
}
