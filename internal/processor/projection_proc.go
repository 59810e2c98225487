package processor

import (
	"context"
	"fmt"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

// ProjectionProcessor keeps a fixed, ordered subset of columns. Column
// arrays are shared with the input batch.
type ProjectionProcessor struct {
	BaseProcessor
	columns []int
	in      port.Source[arrow.Record]
	out     port.Sink[arrow.Record]
}

// NewProjectionProcessor creates a projection onto columns. Indices are
// checked against the schema of the first batch at run time.
func NewProjectionProcessor(columns []int, in port.Source[arrow.Record], out port.Sink[arrow.Record]) (*ProjectionProcessor, error) {
	for _, idx := range columns {
		if idx < 0 {
			return nil, fmt.Errorf("%w: negative column index %d", ErrInvalidConfig, idx)
		}
	}
	return &ProjectionProcessor{
		BaseProcessor: NewBaseProcessor("Projection"),
		columns:       slices.Clone(columns),
		in:            in,
		out:           out,
	}, nil
}

func (p *ProjectionProcessor) Run(ctx context.Context) (err error) {
	_, finish := p.start(ctx)
	defer finish(&err)
	defer p.out.Close()
	defer releaseOnError(&err, p.in)

	validated := false
	for {
		b, ok, err := p.recv(ctx, p.in)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !validated {
			if err := p.validate(b.Schema()); err != nil {
				return err
			}
			validated = true
		}
		if b.NumRows() == 0 {
			continue
		}
		projected, err := column.Project(b, p.columns)
		if err != nil {
			return fmt.Errorf("project: %w", err)
		}
		if err := p.emit(ctx, p.out, projected); err != nil {
			return err
		}
	}
}

func (p *ProjectionProcessor) validate(schema *arrow.Schema) error {
	for _, idx := range p.columns {
		if idx >= schema.NumFields() {
			return fmt.Errorf("%w: column index %d out of range for %d columns",
				ErrInvalidConfig, idx, schema.NumFields())
		}
	}
	return nil
}
