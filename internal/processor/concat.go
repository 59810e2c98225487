package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

// ConcatProcessor buffers its whole input and emits it as one batch.
type ConcatProcessor struct {
	BaseProcessor
	in  port.Source[arrow.Record]
	out port.Sink[arrow.Record]
}

// NewConcatProcessor creates a concatenator reading in and writing out.
func NewConcatProcessor(in port.Source[arrow.Record], out port.Sink[arrow.Record]) *ConcatProcessor {
	return &ConcatProcessor{
		BaseProcessor: NewBaseProcessor("Concat"),
		in:            in,
		out:           out,
	}
}

func (c *ConcatProcessor) Run(ctx context.Context) (err error) {
	log, finish := c.start(ctx)
	defer finish(&err)
	defer c.out.Close()
	defer releaseOnError(&err, c.in)

	var batches []arrow.Record
	for {
		b, ok, err := c.recv(ctx, c.in)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		// A leading empty batch is kept so an all-empty stream still
		// yields one batch with its schema.
		if b.NumRows() == 0 && len(batches) > 0 {
			continue
		}
		batches = append(batches, b)
	}
	if len(batches) == 0 {
		return nil
	}

	merged, err := column.Concat(batches[0].Schema(), batches)
	if err != nil {
		return fmt.Errorf("concat %d batches: %w", len(batches), err)
	}
	log.Debug("concatenated", slog.Int("batches", len(batches)), slog.Int64("rows", merged.NumRows()))
	return c.emit(ctx, c.out, merged)
}
