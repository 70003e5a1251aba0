package relay

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Summary is a derived event ready for the downstream endpoint.
type Summary struct {
	EventType  string
	ExternalID string
	Payload    any
}

// Config configures a Notifier.
type Config struct {
	Enabled bool
	URL     string
	Timeout time.Duration
}

// Notifier relays summaries on a best-effort basis. Failures are logged and
// dropped; they never reach the caller.
type Notifier struct {
	sender  Sender
	url     string
	timeout time.Duration
	enabled bool
}

func NewNotifier(sender Sender, cfg Config) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	url := strings.TrimSpace(cfg.URL)
	return &Notifier{
		sender:  sender,
		url:     url,
		timeout: timeout,
		enabled: cfg.Enabled && url != "" && sender != nil,
	}
}

// Enabled reports whether summaries are actually sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.enabled
}

// Notify sends s and waits at most the configured timeout.
func (n *Notifier) Notify(ctx context.Context, s Summary) {
	if !n.Enabled() {
		slog.Debug("[Relay] Disabled, skipping summary",
			"event_type", s.EventType,
			"external_id", s.ExternalID)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	if err := n.sender.Send(ctx, n.url, s.Payload); err != nil {
		slog.Error("[Relay] Failed to send summary",
			"event_type", s.EventType,
			"external_id", s.ExternalID,
			"error", err)
		return
	}

	slog.Info("[Relay] Summary sent",
		"event_type", s.EventType,
		"external_id", s.ExternalID,
		"duration_ms", time.Since(start).Milliseconds())
}
