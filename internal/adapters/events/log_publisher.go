package events

import (
	"context"
	"grid-dispatch-service/internal/domain"
	"log"
)

// LogPublisher writes events to the process log.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, evt domain.DispatchEvent) error {
	log.Printf("event id=%s type=%s order=%d courier=%s distance=%.2f",
		evt.ID, evt.Type, evt.OrderID, evt.CourierID, evt.Distance)
	return nil
}

func (LogPublisher) Close() error { return nil }
