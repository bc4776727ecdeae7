package events

import (
	"context"
	"encoding/json"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "dispatch."

// NATSPublisher publishes events as JSON on dispatch.<type> subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

func DialNATS(ctx context.Context, url string) (*NATSPublisher, error) {
	conn, err := dialWithRetry(ctx, "nats", func() (*nats.Conn, error) {
		return nats.Connect(url,
			nats.Name("grid-dispatch-service"),
			nats.ReconnectWait(2*time.Second),
			nats.MaxReconnects(10),
			nats.Timeout(5*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats disconnected err=%v", err)
			}),
		)
	})
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func Subject(t domain.EventType) string {
	return subjectPrefix + string(t)
}

func (p *NATSPublisher) Publish(_ context.Context, evt domain.DispatchEvent) error {
	if p.conn == nil {
		return fmt.Errorf("nats publish: not connected")
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("nats publish: marshal event %s: %w", evt.ID, err)
	}
	if err := p.conn.Publish(Subject(evt.Type), payload); err != nil {
		return fmt.Errorf("nats publish: event %s: %w", evt.ID, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
