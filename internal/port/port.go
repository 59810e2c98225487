// Package port is the transport contract operators read from and write to:
// ordered, bounded, asynchronous pipes with an explicit close on the sending
// side, a disconnect on the receiving side, and a non-blocking liveness check.
package port

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned by Send after the sending side was closed.
	ErrClosed = errors.New("port: send on closed port")
	// ErrDisconnected is returned by Send once the receiver went away.
	ErrDisconnected = errors.New("port: receiver disconnected")
)

// Source is the receiving end of a port.
type Source[T any] interface {
	// Recv blocks for the next value. ok is false once every sender has
	// closed and all buffered values were consumed.
	Recv(ctx context.Context) (v T, ok bool, err error)
	// Close disconnects the receiver; blocked and future sends observe
	// ErrDisconnected.
	Close()
}

// Sink is the sending end of a port.
type Sink[T any] interface {
	// Send blocks until the value is accepted, the receiver disconnects,
	// or ctx is done.
	Send(ctx context.Context, v T) error
	// IsClosed reports, without blocking, whether further sends are
	// pointless: the receiver disconnected or the sink was closed.
	IsClosed() bool
	// Close signals end-of-stream to the receiver. Idempotent.
	Close()
}

// State is the observable state of a port pair.
type State uint32

const (
	StateOpen         State = iota // values flow
	StateClosed                    // sender closed; buffered values remain readable
	StateDisconnected              // receiver gone; sends fail
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// pipe is shared between a connected Output and Input.
type pipe[T any] struct {
	data chan T
	done chan struct{} // closed when the receiver disconnects

	mu         sync.RWMutex // held shared by Send, exclusively by Close
	closed     atomic.Bool
	disconnect sync.Once
}

// Output is the sending side of a pipe.
type Output[T any] struct {
	p *pipe[T]
}

// Input is the receiving side of a pipe.
type Input[T any] struct {
	p *pipe[T]
}

// New returns a connected port pair with the given buffer capacity.
// A capacity of 0 makes every send a rendezvous with the receiver.
func New[T any](capacity int) (*Output[T], *Input[T]) {
	if capacity < 0 {
		capacity = 0
	}
	p := &pipe[T]{
		data: make(chan T, capacity),
		done: make(chan struct{}),
	}
	return &Output[T]{p: p}, &Input[T]{p: p}
}

// Send delivers v to the receiver.
func (o *Output[T]) Send(ctx context.Context, v T) error {
	o.p.mu.RLock()
	defer o.p.mu.RUnlock()
	if o.p.closed.Load() {
		return ErrClosed
	}
	select {
	case <-o.p.done:
		return ErrDisconnected
	default:
	}
	select {
	case o.p.data <- v:
		return nil
	case <-o.p.done:
		return ErrDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsClosed reports whether the receiver disconnected or the output closed.
func (o *Output[T]) IsClosed() bool {
	return o.State() != StateOpen
}

// State returns the current state of the pair as seen by the sender.
func (o *Output[T]) State() State {
	return o.p.state()
}

// Close signals end-of-stream.
func (o *Output[T]) Close() {
	o.p.mu.Lock()
	defer o.p.mu.Unlock()
	if o.p.closed.Load() {
		return
	}
	o.p.closed.Store(true)
	close(o.p.data)
}

// Recv returns the next value, or ok=false at end-of-stream.
func (in *Input[T]) Recv(ctx context.Context) (T, bool, error) {
	select {
	case v, ok := <-in.p.data:
		return v, ok, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

// RecvAll collects every remaining value until end-of-stream.
func (in *Input[T]) RecvAll(ctx context.Context) ([]T, error) {
	var out []T
	for {
		v, ok, err := in.Recv(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// Close disconnects the receiver.
func (in *Input[T]) Close() {
	in.p.disconnect.Do(func() { close(in.p.done) })
}

// State returns the current state of the pair.
func (in *Input[T]) State() State {
	return in.p.state()
}

func (p *pipe[T]) state() State {
	select {
	case <-p.done:
		return StateDisconnected
	default:
	}
	if p.closed.Load() {
		return StateClosed
	}
	return StateOpen
}

// discard is a sink with no receiver.
type discard[T any] struct{}

// Discard returns a sink that is permanently disconnected. Operators given
// a Discard output skip sending to it.
func Discard[T any]() Sink[T] { return discard[T]{} }

func (discard[T]) Send(context.Context, T) error {
	return ErrDisconnected
}

func (discard[T]) IsClosed() bool { return true }

func (discard[T]) Close() {}

// Connected reports whether s can still accept values.
func Connected[T any](s Sink[T]) bool {
	return s != nil && !s.IsClosed()
}
