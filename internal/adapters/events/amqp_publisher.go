package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DispatchExchange = "dispatch_topic"

// AMQPPublisher publishes events to a durable topic exchange with the
// event type as routing key, waiting for broker confirms.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	acks <-chan amqp.Confirmation

	mu sync.Mutex // confirms are matched in publish order
}

func DialAMQP(ctx context.Context, url string) (*AMQPPublisher, error) {
	conn, err := dialWithRetry(ctx, "amqp", func() (*amqp.Connection, error) {
		return amqp.Dial(url)
	})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("dial amqp: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(DispatchExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("dial amqp: declare %s: %w", DispatchExchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("dial amqp: enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &AMQPPublisher{conn: conn, ch: ch, acks: acks}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, evt domain.DispatchEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("amqp publish: marshal event %s: %w", evt.ID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, DispatchExchange, string(evt.Type), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    evt.ID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: event %s: %w", evt.ID, err)
	}

	select {
	case conf := <-p.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("amqp publish: NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AMQPPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
