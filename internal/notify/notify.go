// Package notify publishes build outcomes to external tooling.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/pluginlit/internal/config"
)

// Result is the message published when a pipeline run finishes.
type Result struct {
	BuildID    string         `json:"build_id"`
	Channel    string         `json:"channel"`
	Platform   string         `json:"platform"`
	Task       string         `json:"task"`
	Success    bool           `json:"success"`
	ExitCode   int            `json:"exit_code"`
	Error      string         `json:"error,omitempty"`
	Results    map[string]any `json:"results,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Publisher delivers build results.
type Publisher interface {
	Publish(ctx context.Context, r Result) error
	Close() error
}

// Noop discards results.
type Noop struct{}

func (Noop) Publish(context.Context, Result) error { return nil }
func (Noop) Close() error                          { return nil }

// conn is the subset of *nats.Conn used by NATSPublisher.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSPublisher publishes results as JSON on a NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
}

func newPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject}
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if subject == "" {
		return nil, fmt.Errorf("nats subject is required")
	}
	nc, err := nats.Connect(url,
		nats.Name("pluginlit"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS publisher initialized", "url", url, "subject", subject)
	return newPublisher(nc, subject), nil
}

// Publish sends r and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush result: %w", err)
	}
	slog.Debug("Published build result", "subject", p.subject, "build_id", r.BuildID)
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// Open returns the publisher configured by cfg, or Noop when no server is set.
func Open(cfg config.NotifyConfig) (Publisher, error) {
	if cfg.URL == "" {
		return Noop{}, nil
	}
	return NewNATSPublisher(cfg.URL, cfg.Subject)
}
