package events

import (
	"context"
	"errors"
	"grid-dispatch-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	err       error
	published []domain.DispatchEvent
	closed    bool
}

func (s *stubPublisher) Publish(_ context.Context, evt domain.DispatchEvent) error {
	s.published = append(s.published, evt)
	return s.err
}

func (s *stubPublisher) Close() error {
	s.closed = true
	return s.err
}

func TestMulti_PublishesToAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("broker down")
	a := &stubPublisher{err: errA}
	b := &stubPublisher{}
	m := Multi{a, b, LogPublisher{}}

	evt := domain.DispatchEvent{ID: "e1", Type: domain.EventOrderAssigned, OrderID: 3, CourierID: "c1"}
	err := m.Publish(context.Background(), evt)

	require.ErrorIs(t, err, errA)
	require.Len(t, a.published, 1)
	require.Len(t, b.published, 1)
	require.Equal(t, evt, b.published[0])

	require.ErrorIs(t, m.Close(), errA)
	require.True(t, a.closed)
	require.True(t, b.closed)
}

func TestMulti_EmptyIsNoop(t *testing.T) {
	require.NoError(t, Multi{}.Publish(context.Background(), domain.DispatchEvent{}))
	require.NoError(t, Multi{}.Close())
}

func TestDialWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := dialWithRetry(context.Background(), "test", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("refused")
		}
		return 42, nil
	})

	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.Equal(t, 3, calls)
}

func TestDialWithRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := dialWithRetry(ctx, "test", func() (int, error) {
		calls++
		return 0, errors.New("refused")
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, calls)
}

func TestSubject(t *testing.T) {
	require.Equal(t, "dispatch.order.delivered", Subject(domain.EventOrderDelivered))
}

func TestNATSPublisher_NotConnected(t *testing.T) {
	p := &NATSPublisher{}
	require.Error(t, p.Publish(context.Background(), domain.DispatchEvent{ID: "x"}))
	require.NoError(t, p.Close())
}
