package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

// syntheticBatch builds rows [start, start+n) of the demo stream:
// id Int64, bucket Int32 (id mod 7), score Float64 (null every fifth row)
// and label String.
func syntheticBatch(start int64, n int) arrow.Record {
	ids := make([]int64, n)
	buckets := make([]int32, n)
	scores := make([]float64, n)
	valid := make([]bool, n)
	labels := make([]string, n)
	for i := range n {
		id := start + int64(i)
		ids[i] = id
		buckets[i] = int32(id % 7)
		scores[i] = float64(id) * 0.5
		valid[i] = id%5 != 4
		labels[i] = fmt.Sprintf("row-%d", id)
	}
	return column.NewBatch([]string{"id", "bucket", "score", "label"},
		column.Numbers(arrow.PrimitiveTypes.Int64, ids, nil),
		column.Numbers(arrow.PrimitiveTypes.Int32, buckets, nil),
		column.Numbers(arrow.PrimitiveTypes.Float64, scores, valid),
		column.Strings(labels, nil),
	)
}

// generate writes batches of rows each into out and closes it. It stops
// early once the receiver is gone.
func generate(ctx context.Context, out *port.Output[arrow.Record], batches, rows int) error {
	defer out.Close()
	for b := range batches {
		if out.IsClosed() {
			return nil
		}
		if err := out.Send(ctx, syntheticBatch(int64(b*rows), rows)); err != nil {
			if errors.Is(err, port.ErrDisconnected) {
				return nil
			}
			return err
		}
	}
	return nil
}
