package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/db"
	"time"
)

// Fixed-width UTC timestamps so text ordering matches time ordering.
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLEventLog is an EventPublisher that appends dispatch events to order_events.
type SQLEventLog struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLEventLog(conn *sql.DB, dialect db.Dialect) *SQLEventLog {
	return &SQLEventLog{DB: conn, Dialect: dialect}
}

func (s *SQLEventLog) Publish(ctx context.Context, evt domain.DispatchEvent) error {
	if s.DB == nil {
		return errors.New("event log: DB is nil")
	}

	q := s.Dialect.Rebind(`
	INSERT INTO order_events (event_id, event_type, order_id, courier_id, distance, occurred_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (event_id) DO NOTHING;
	`)
	_, err := s.DB.ExecContext(ctx, q,
		evt.ID,
		string(evt.Type),
		evt.OrderID,
		evt.CourierID,
		evt.Distance,
		evt.OccurredAt.UTC().Format(eventTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("event log: insert event_id=%s: %w", evt.ID, err)
	}
	return nil
}

// Close is a no-op; the connection is owned by the caller.
func (s *SQLEventLog) Close() error { return nil }

// ListOrderEvents returns the history of one order, oldest first.
func (s *SQLEventLog) ListOrderEvents(ctx context.Context, orderID int64) ([]domain.DispatchEvent, error) {
	if s.DB == nil {
		return nil, errors.New("event log: DB is nil")
	}

	q := s.Dialect.Rebind(`
	SELECT event_id, event_type, order_id, courier_id, distance, occurred_at
	FROM order_events
	WHERE order_id = ?
	ORDER BY occurred_at, event_id;
	`)
	rows, err := s.DB.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order events: query order_events table: %w", err)
	}
	defer rows.Close()

	var out []domain.DispatchEvent
	for rows.Next() {
		var (
			evt domain.DispatchEvent
			typ string
			at  string
		)
		if err := rows.Scan(&evt.ID, &typ, &evt.OrderID, &evt.CourierID, &evt.Distance, &at); err != nil {
			return nil, fmt.Errorf("list order events: scan row: %w", err)
		}
		evt.Type = domain.EventType(typ)
		if evt.OccurredAt, err = time.Parse(eventTimeLayout, at); err != nil {
			return nil, fmt.Errorf("list order events: parse occurred_at %q: %w", at, err)
		}
		out = append(out, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order events: row iteration: %w", err)
	}

	return out, nil
}
