// Package notify publishes build-completed events to NATS when a broker
// is configured. Used by watch and preview modes so other home-lab
// tooling can react to rebuilt hubs.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// BuildEvent is the JSON payload published per hub build.
type BuildEvent struct {
	BuildID   string    `json:"build_id"`
	Hub       string    `json:"hub"`
	Status    string    `json:"status"`
	Modules   int       `json:"modules"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers build events somewhere.
type Publisher interface {
	Publish(event BuildEvent) error
	Close()
}

// NATSPublisher publishes build events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the broker. Callers should treat a nil
// publisher (no broker configured) as "notifications disabled".
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("learninghub"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS publisher connected", "url", url, "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends one build event.
func (p *NATSPublisher) Publish(event BuildEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		slog.Warn("NATS drain failed", "error", err)
	}
}
