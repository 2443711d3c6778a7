package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// WebhookNotifier posts notifications as JSON to an external chat webhook.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	minLevel   Severity
}

type webhookMessage struct {
	MsgType string         `json:"msg_type"`
	Content webhookContent `json:"content"`
}

type webhookContent struct {
	Text string `json:"text"`
}

// NewWebhookNotifier returns nil when webhookURL is empty.
// Only warning and error notifications are forwarded.
func NewWebhookNotifier(webhookURL string, logger *slog.Logger) *WebhookNotifier {
	if webhookURL == "" {
		return nil
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 5),
		logger:     logger,
		minLevel:   SeverityWarning,
	}
}

func severityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeveritySuccess:
		return 1
	}
	return 0
}

func (n *WebhookNotifier) Notify(ctx context.Context, note Notification) {
	if n == nil || severityRank(note.Severity) < severityRank(n.minLevel) {
		return
	}
	if !n.limiter.Allow() {
		n.logger.WarnContext(ctx, "Webhook notification dropped by rate limit", slog.String("title", note.Title))
		return
	}
	if err := n.send(ctx, note); err != nil {
		n.logger.ErrorContext(ctx, "Failed to deliver webhook notification",
			slog.String("title", note.Title),
			slog.Any("error", err),
		)
	}
}

func (n *WebhookNotifier) send(ctx context.Context, note Notification) error {
	text := fmt.Sprintf("[%s] %s\n%s", note.Severity, note.Title, note.Body)
	if note.FixtureID > 0 {
		text = fmt.Sprintf("%s\nfixture #%d", text, note.FixtureID)
	}
	payload, err := json.Marshal(webhookMessage{MsgType: "text", Content: webhookContent{Text: text}})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
