package port

import (
	"context"
	"errors"
)

// Broadcast is a fan-out sink: every value goes to each connected sink in
// turn. Disconnected sinks are skipped.
type Broadcast[T any] struct {
	sinks []Sink[T]
}

// NewBroadcast returns a sink writing to all of sinks.
func NewBroadcast[T any](sinks ...Sink[T]) *Broadcast[T] {
	return &Broadcast[T]{sinks: sinks}
}

// Send delivers v to every connected sink. It returns ErrDisconnected only
// when no sink accepted the value.
func (b *Broadcast[T]) Send(ctx context.Context, v T) error {
	delivered := false
	for _, s := range b.sinks {
		if s.IsClosed() {
			continue
		}
		err := s.Send(ctx, v)
		switch {
		case err == nil:
			delivered = true
		case errors.Is(err, ErrDisconnected), errors.Is(err, ErrClosed):
		default:
			return err
		}
	}
	if !delivered {
		return ErrDisconnected
	}
	return nil
}

// IsClosed reports whether every sink is closed.
func (b *Broadcast[T]) IsClosed() bool {
	for _, s := range b.sinks {
		if !s.IsClosed() {
			return false
		}
	}
	return true
}

// Close closes every sink.
func (b *Broadcast[T]) Close() {
	for _, s := range b.sinks {
		s.Close()
	}
}
