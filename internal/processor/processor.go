// Package processor holds the streaming batch operators. Each operator reads
// from its input ports until end-of-stream, keeps only local state for the
// run, and closes its outputs when Run returns.
package processor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/harshithgowdakt/granuleflow/internal/logging"
	"github.com/harshithgowdakt/granuleflow/internal/metrics"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

var (
	// ErrInvalidConfig reports operator parameters that cannot be applied.
	ErrInvalidConfig = errors.New("invalid processor configuration")
	// ErrCorruptFrame reports an encoded batch that cannot be decoded.
	ErrCorruptFrame = errors.New("corrupt batch frame")
)

// Processor is one operator in a pipeline. Run blocks until the inputs are
// drained or ctx is cancelled.
type Processor interface {
	Name() string
	Run(ctx context.Context) error
}

// BaseProcessor provides naming, run logging and metrics.
type BaseProcessor struct {
	name string
}

// NewBaseProcessor creates a BaseProcessor with the given name.
func NewBaseProcessor(name string) BaseProcessor {
	return BaseProcessor{name: name}
}

func (b *BaseProcessor) Name() string { return b.name }

// start opens a run: it picks a run id, derives the logger from ctx and
// returns a finish func that logs the outcome and records run metrics.
func (b *BaseProcessor) start(ctx context.Context) (*slog.Logger, func(*error)) {
	runID := uuid.New()
	log := logging.FromContext(ctx).With(
		slog.String("component", "processor"),
		slog.String("processor", b.name),
		slog.String("run_id", runID.String()),
	)
	began := time.Now()
	log.Debug("run started")
	return log, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		elapsed := time.Since(began)
		metrics.RecordRun(b.name, err, elapsed)
		if err != nil {
			log.Error("run failed", slog.Duration("elapsed", elapsed), slog.Any("error", err))
			return
		}
		log.Debug("run finished", slog.Duration("elapsed", elapsed))
	}
}

// releaseOnError disconnects the inputs of a failed run, so upstream
// senders blocked on a full port return ErrDisconnected.
func releaseOnError(errp *error, inputs ...interface{ Close() }) {
	if *errp == nil {
		return
	}
	for _, in := range inputs {
		in.Close()
	}
}

// recv reads one batch and counts it.
func (b *BaseProcessor) recv(ctx context.Context, in port.Source[arrow.Record]) (arrow.Record, bool, error) {
	rec, ok, err := in.Recv(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	metrics.RecordBatch(b.name, metrics.In, rec.NumRows())
	return rec, true, nil
}

// emit sends a batch if out is still connected. A receiver that went away
// is not an error.
func (b *BaseProcessor) emit(ctx context.Context, out port.Sink[arrow.Record], rec arrow.Record) error {
	sent, err := send(ctx, out, rec)
	if sent {
		metrics.RecordBatch(b.name, metrics.Out, rec.NumRows())
	}
	return err
}

// send delivers v unless out is closed. It reports whether v was accepted.
func send[T any](ctx context.Context, out port.Sink[T], v T) (bool, error) {
	if !port.Connected(out) {
		return false, nil
	}
	if err := out.Send(ctx, v); err != nil {
		if errors.Is(err, port.ErrDisconnected) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
