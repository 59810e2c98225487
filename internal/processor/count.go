package processor

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/harshithgowdakt/granuleflow/internal/port"
)

// CountProcessor emits the row count of every batch and, at end-of-stream,
// the total over all batches.
type CountProcessor struct {
	BaseProcessor
	in     port.Source[arrow.Record]
	counts port.Sink[int64]
	total  port.Sink[int64]
}

// NewCountProcessor creates a counter. Either output may be port.Discard.
func NewCountProcessor(in port.Source[arrow.Record], counts, total port.Sink[int64]) *CountProcessor {
	return &CountProcessor{
		BaseProcessor: NewBaseProcessor("Count"),
		in:            in,
		counts:        counts,
		total:         total,
	}
}

func (c *CountProcessor) Run(ctx context.Context) (err error) {
	_, finish := c.start(ctx)
	defer finish(&err)
	defer c.total.Close()
	defer c.counts.Close()
	defer releaseOnError(&err, c.in)

	var total int64
	for {
		b, ok, err := c.recv(ctx, c.in)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		rows := b.NumRows()
		total += rows
		if _, err := send(ctx, c.counts, rows); err != nil {
			return err
		}
	}
	_, err = send(ctx, c.total, total)
	return err
}
