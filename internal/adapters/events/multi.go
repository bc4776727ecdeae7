package events

import (
	"context"
	"errors"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/ports"
)

// Multi fans an event out to every publisher. All publishers are tried even
// when one fails; the failures are joined.
type Multi []ports.EventPublisher

func (m Multi) Publish(ctx context.Context, evt domain.DispatchEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
