package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/harshithgowdakt/granuleflow/internal/aggstate"
	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/metrics"
	"github.com/harshithgowdakt/granuleflow/internal/port"
	"github.com/harshithgowdakt/granuleflow/internal/types"
)

// AggregateKind selects the reduction applied to the target column.
type AggregateKind uint8

const (
	AggSum AggregateKind = iota
	AggMin
	AggMax
	AggAvg
)

func (k AggregateKind) String() string {
	switch k {
	case AggSum:
		return "Sum"
	case AggMin:
		return "Min"
	case AggMax:
		return "Max"
	case AggAvg:
		return "Avg"
	default:
		return fmt.Sprintf("AggregateKind(%d)", uint8(k))
	}
}

// ParseAggregateKind accepts sum, min, max and avg.
func ParseAggregateKind(s string) (AggregateKind, error) {
	switch s {
	case "sum":
		return AggSum, nil
	case "min":
		return AggMin, nil
	case "max":
		return AggMax, nil
	case "avg", "mean":
		return AggAvg, nil
	}
	return 0, fmt.Errorf("%w: unknown aggregate %q", ErrInvalidConfig, s)
}

// AvgMode controls how per-batch averages are combined.
type AvgMode uint8

const (
	// AvgMeanOfMeans averages the per-batch means, ignoring batch sizes.
	AvgMeanOfMeans AvgMode = iota
	// AvgWeighted divides the total sum by the total count of non-null values.
	AvgWeighted
)

// ParseAvgMode accepts "mean-of-means" and "weighted".
func ParseAvgMode(s string) (AvgMode, error) {
	switch s {
	case "", "mean-of-means":
		return AvgMeanOfMeans, nil
	case "weighted":
		return AvgWeighted, nil
	}
	return 0, fmt.Errorf("%w: unknown average mode %q", ErrInvalidConfig, s)
}

// Accumulator folds per-batch partials for one run.
type Accumulator interface {
	// Add folds arr into the accumulator. It reports false when the
	// column type is not supported.
	Add(arr arrow.Array) (bool, error)
	Result() (types.Scalar, error)
}

type sumAccum struct{ acc types.Scalar }

func (a *sumAccum) Add(arr arrow.Array) (bool, error) {
	partial, ok := aggstate.Sum(arr)
	if !ok {
		return false, nil
	}
	next, err := a.acc.Add(partial)
	if err != nil {
		return true, err
	}
	a.acc = next
	return true, nil
}

func (a *sumAccum) Result() (types.Scalar, error) { return a.acc, nil }

// errIncomparable marks a Min/Max partial whose type differs from the
// accumulator. Such a partial is dropped rather than failing the run.
var errIncomparable = errors.New("incomparable partial")

type extremeAccum struct {
	partial func(arrow.Array) (types.Scalar, bool)
	combine func(acc, partial types.Scalar) (types.Scalar, error)
	acc     types.Scalar
}

func (a *extremeAccum) Add(arr arrow.Array) (bool, error) {
	partial, ok := a.partial(arr)
	if !ok {
		return false, nil
	}
	next, err := a.combine(a.acc, partial)
	if errors.Is(err, types.ErrTypeMismatch) {
		return true, fmt.Errorf("%w: %s vs %s", errIncomparable, a.acc.Type(), partial.Type())
	}
	if err != nil {
		return true, err
	}
	a.acc = next
	return true, nil
}

func (a *extremeAccum) Result() (types.Scalar, error) { return a.acc, nil }

// avgAccum keeps the running sum of per-batch means and how many batches
// contributed.
type avgAccum struct {
	means   types.Scalar
	batches int64
}

func (a *avgAccum) Add(arr arrow.Array) (bool, error) {
	mean, ok := aggstate.Mean(arr)
	if !ok {
		return false, nil
	}
	if mean.IsNull() {
		return true, nil
	}
	next, err := a.means.Add(mean)
	if err != nil {
		return true, err
	}
	a.means = next
	a.batches++
	return true, nil
}

func (a *avgAccum) Result() (types.Scalar, error) {
	if a.batches == 0 {
		return types.Null(), nil
	}
	n, err := types.Int64(a.batches).CastFloat64()
	if err != nil {
		return types.Null(), err
	}
	return a.means.Div(n)
}

type weightedAvgAccum struct {
	sum   float64
	count int64
}

func (a *weightedAvgAccum) Add(arr arrow.Array) (bool, error) {
	sum, n, ok := aggstate.SumFloat64(arr)
	if !ok {
		return false, nil
	}
	a.sum += sum
	a.count += n
	return true, nil
}

func (a *weightedAvgAccum) Result() (types.Scalar, error) {
	if a.count == 0 {
		return types.Null(), nil
	}
	n, err := types.Int64(a.count).CastFloat64()
	if err != nil {
		return types.Null(), err
	}
	return types.Float64(a.sum).Div(n)
}

// NewAccumulator returns an empty accumulator for kind.
func NewAccumulator(kind AggregateKind, mode AvgMode) Accumulator {
	switch kind {
	case AggMin:
		return &extremeAccum{partial: aggstate.Min, combine: types.Scalar.Min}
	case AggMax:
		return &extremeAccum{partial: aggstate.Max, combine: types.Scalar.Max}
	case AggAvg:
		if mode == AvgWeighted {
			return &weightedAvgAccum{}
		}
		return &avgAccum{}
	default:
		return &sumAccum{}
	}
}

// AggregateProcessor reduces one column of the whole stream to a scalar.
// Null inputs and unsupported column types contribute nothing; the result
// is Null when no batch contributed.
type AggregateProcessor struct {
	BaseProcessor
	kind    AggregateKind
	avgMode AvgMode
	column  int
	in      port.Source[arrow.Record]
	out     port.Sink[types.Scalar]
}

// NewAggregateProcessor creates an aggregator over column col.
func NewAggregateProcessor(kind AggregateKind, col int, in port.Source[arrow.Record], out port.Sink[types.Scalar]) (*AggregateProcessor, error) {
	if col < 0 {
		return nil, fmt.Errorf("%w: negative column index %d", ErrInvalidConfig, col)
	}
	if kind > AggAvg {
		return nil, fmt.Errorf("%w: unknown aggregate %s", ErrInvalidConfig, kind)
	}
	return &AggregateProcessor{
		BaseProcessor: NewBaseProcessor(kind.String()),
		kind:          kind,
		column:        col,
		in:            in,
		out:           out,
	}, nil
}

// NewSumProcessor sums column col.
func NewSumProcessor(col int, in port.Source[arrow.Record], out port.Sink[types.Scalar]) (*AggregateProcessor, error) {
	return NewAggregateProcessor(AggSum, col, in, out)
}

// NewMinProcessor finds the minimum of column col.
func NewMinProcessor(col int, in port.Source[arrow.Record], out port.Sink[types.Scalar]) (*AggregateProcessor, error) {
	return NewAggregateProcessor(AggMin, col, in, out)
}

// NewMaxProcessor finds the maximum of column col.
func NewMaxProcessor(col int, in port.Source[arrow.Record], out port.Sink[types.Scalar]) (*AggregateProcessor, error) {
	return NewAggregateProcessor(AggMax, col, in, out)
}

// NewAvgProcessor averages column col. The default mode is AvgMeanOfMeans.
func NewAvgProcessor(col int, in port.Source[arrow.Record], out port.Sink[types.Scalar]) (*AggregateProcessor, error) {
	return NewAggregateProcessor(AggAvg, col, in, out)
}

// WithAvgMode sets how an average combines batches. Other kinds ignore it.
func (a *AggregateProcessor) WithAvgMode(mode AvgMode) *AggregateProcessor {
	a.avgMode = mode
	return a
}

func (a *AggregateProcessor) Run(ctx context.Context) (err error) {
	log, finish := a.start(ctx)
	defer finish(&err)
	defer a.out.Close()
	defer releaseOnError(&err, a.in)

	acc := NewAccumulator(a.kind, a.avgMode)
	validated := false
	for {
		b, ok, err := a.recv(ctx, a.in)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if b.NumRows() == 0 {
			continue
		}
		if a.column >= int(b.NumCols()) {
			// Out of range on the first batch is a bad parameter; later it
			// means the input schema changed mid-stream.
			cause := column.ErrSchemaMismatch
			if !validated {
				cause = ErrInvalidConfig
			}
			return fmt.Errorf("%w: column index %d out of range for %d columns",
				cause, a.column, b.NumCols())
		}
		validated = true
		col := b.Column(a.column)
		if col.NullN() == col.Len() {
			metrics.RecordSkipped(a.name, "all_null")
			continue
		}
		if !aggstate.Supported(col.DataType()) {
			log.Debug("skipping unsupported column type", slog.String("type", col.DataType().String()))
			metrics.RecordSkipped(a.name, "unsupported_type")
			continue
		}
		if _, err := acc.Add(col); err != nil {
			if errors.Is(err, errIncomparable) {
				log.Debug("skipping incomparable partial", slog.Any("error", err))
				metrics.RecordSkipped(a.name, "incomparable_type")
				continue
			}
			return fmt.Errorf("%s of column %d: %w", a.kind, a.column, err)
		}
	}

	result, err := acc.Result()
	if err != nil {
		return fmt.Errorf("%s of column %d: %w", a.kind, a.column, err)
	}
	log.Debug("aggregate result", slog.String("value", result.String()))
	_, err = send(ctx, a.out, result)
	return err
}
