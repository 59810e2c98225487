package processor

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

func wideBatch(n int) arrow.Record {
	ids := make([]int64, n)
	names := make([]string, n)
	scores := make([]float64, n)
	for i := range ids {
		ids[i] = int64(i)
		names[i] = string(rune('a' + i))
		scores[i] = float64(i) / 2
	}
	return column.NewBatch([]string{"id", "name", "score"},
		column.Numbers(arrow.PrimitiveTypes.Int64, ids, nil),
		column.Strings(names, nil),
		column.Numbers(arrow.PrimitiveTypes.Float64, scores, nil),
	)
}

func TestProjectionReordersColumns(t *testing.T) {
	out, results := port.New[arrow.Record](2)
	p, err := NewProjectionProcessor([]int{2, 0}, feed(t, wideBatch(3), wideBatch(0), wideBatch(2)), out)
	require.NoError(t, err)

	got := run(t, p, results)
	require.Len(t, got, 2, "empty batches are skipped")
	for _, b := range got {
		assert.Equal(t, int64(2), b.NumCols())
		assert.Equal(t, "score", b.ColumnName(0))
		assert.Equal(t, "id", b.ColumnName(1))
	}
	assert.Equal(t, []int64{0, 1, 2}, got[0].Column(1).(*array.Int64).Int64Values())
}

func TestProjectionSharesArrays(t *testing.T) {
	in := wideBatch(4)
	out, results := port.New[arrow.Record](1)
	p, err := NewProjectionProcessor([]int{1}, feed(t, in), out)
	require.NoError(t, err)

	got := run(t, p, results)
	require.Len(t, got, 1)
	assert.Same(t, in.Column(1).Data(), got[0].Column(0).Data())
}

func TestProjectionNegativeIndex(t *testing.T) {
	_, err := NewProjectionProcessor([]int{0, -1}, feed[arrow.Record](t), port.Discard[arrow.Record]())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestProjectionOutOfRange(t *testing.T) {
	out, _ := port.New[arrow.Record](1)
	p, err := NewProjectionProcessor([]int{3}, feed(t, wideBatch(2)), out)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Run(testContext(t)), ErrInvalidConfig)
}

func TestProjectionValidatesEmptyFirstBatch(t *testing.T) {
	p, err := NewProjectionProcessor([]int{5}, feed(t, wideBatch(0)), port.Discard[arrow.Record]())
	require.NoError(t, err)
	assert.ErrorIs(t, p.Run(testContext(t)), ErrInvalidConfig)
}

func TestFailedRunReleasesUpstream(t *testing.T) {
	ctx := testContext(t)
	up, in := port.New[arrow.Record](0)
	p, err := NewProjectionProcessor([]int{7}, in, port.Discard[arrow.Record]())
	require.NoError(t, err)

	sent := make(chan error, 1)
	go func() {
		if err := up.Send(ctx, wideBatch(1)); err != nil {
			sent <- err
			return
		}
		// Blocks until the failed run disconnects its input.
		sent <- up.Send(ctx, wideBatch(1))
	}()

	assert.ErrorIs(t, p.Run(ctx), ErrInvalidConfig)
	assert.ErrorIs(t, <-sent, port.ErrDisconnected)
	assert.Equal(t, port.StateDisconnected, in.State())
}
