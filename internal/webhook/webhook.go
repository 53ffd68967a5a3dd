// Package webhook delivers task completion notifications to a
// caller-configured URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-scout/internal/model"
)

const defaultTimeout = 10 * time.Second

// Notifier posts completion payloads to a webhook URL. Delivery is
// attempted once per task; failures are logged and swallowed so a dead
// endpoint never affects task state.
type Notifier struct {
	url  string
	http *http.Client
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient overrides the HTTP client used for delivery.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.http = c }
}

// NewNotifier creates a Notifier for the given URL. An empty URL
// disables delivery.
func NewNotifier(url string, opts ...Option) *Notifier {
	n := &Notifier{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify posts the payload for a finished task. Errors are logged, not
// returned.
func (n *Notifier) Notify(ctx context.Context, taskID string, payload model.WebhookPayload) {
	if !n.Enabled() {
		return
	}
	if err := n.deliver(ctx, payload); err != nil {
		zap.L().Warn("webhook delivery failed",
			zap.String("task_id", taskID),
			zap.String("url", n.url),
			zap.Error(err))
		return
	}
	zap.L().Info("webhook delivered",
		zap.String("task_id", taskID),
		zap.String("status", string(payload.Status)))
}

func (n *Notifier) deliver(ctx context.Context, payload model.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "webhook: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "webhook: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "webhook: post")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
