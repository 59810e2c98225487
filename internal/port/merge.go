package port

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Merged is a fan-in source: values from several sources arrive in the
// order they are received. It reaches end-of-stream only once every
// underlying source has.
type Merged[T any] struct {
	in      *Input[T]
	sources []Source[T]
	err     error // written before in is closed
}

// Merge starts forwarding every source into one source. Forwarding stops
// early when ctx is done or the merged source is closed.
func Merge[T any](ctx context.Context, capacity int, sources ...Source[T]) *Merged[T] {
	out, in := New[T](capacity)
	m := &Merged[T]{in: in, sources: sources}

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			return forward(gctx, src, out)
		})
	}
	go func() {
		m.err = g.Wait()
		out.Close()
	}()
	return m
}

func forward[T any](ctx context.Context, src Source[T], out *Output[T]) error {
	for {
		v, ok, err := src.Recv(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := out.Send(ctx, v); err != nil {
			if errors.Is(err, ErrDisconnected) {
				src.Close()
				return nil
			}
			return err
		}
	}
}

// Recv returns the next value from any source. After the last value it
// reports the first error any source returned, if there was one.
func (m *Merged[T]) Recv(ctx context.Context) (T, bool, error) {
	v, ok, err := m.in.Recv(ctx)
	if err != nil || ok {
		return v, ok, err
	}
	return v, false, m.err
}

// Close disconnects the merged source and every underlying source.
func (m *Merged[T]) Close() {
	m.in.Close()
	for _, src := range m.sources {
		src.Close()
	}
}
