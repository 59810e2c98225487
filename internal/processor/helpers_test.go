package processor

import (
	"context"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/require"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// feed returns an already closed input holding batches.
func feed[T any](t *testing.T, vals ...T) *port.Input[T] {
	t.Helper()
	out, in := port.New[T](len(vals))
	for _, v := range vals {
		require.NoError(t, out.Send(context.Background(), v))
	}
	out.Close()
	return in
}

// run starts p and collects everything it writes to results.
func run[T any](t *testing.T, p Processor, results *port.Input[T]) []T {
	t.Helper()
	ctx := testContext(t)
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()
	got, err := results.RecvAll(ctx)
	require.NoError(t, err)
	require.NoError(t, <-errc)
	return got
}

// int32Batch builds a single-column batch "v" of Int32 values.
func int32Batch(vals ...int32) arrow.Record {
	return column.NewBatch([]string{"v"}, column.Numbers(arrow.PrimitiveTypes.Int32, vals, nil))
}

// seqBatches splits the values [0, sum(sizes)) into batches of the given sizes.
func seqBatches(sizes ...int) []arrow.Record {
	var out []arrow.Record
	next := int32(0)
	for _, n := range sizes {
		vals := make([]int32, n)
		for i := range vals {
			vals[i] = next
			next++
		}
		out = append(out, int32Batch(vals...))
	}
	return out
}

// rows flattens the first Int32 column of every batch.
func rows(t *testing.T, batches []arrow.Record) []int32 {
	t.Helper()
	out := []int32{}
	for _, b := range batches {
		col, ok := b.Column(0).(*array.Int32)
		require.True(t, ok, "column 0 is %s", b.Column(0).DataType())
		out = append(out, col.Int32Values()...)
	}
	return out
}
