package processor

import (
	"math/rand"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshithgowdakt/granuleflow/internal/port"
)

func runSlice(t *testing.T, offset, limit int64, batches []arrow.Record) []arrow.Record {
	t.Helper()
	out, results := port.New[arrow.Record](len(batches))
	p, err := NewSliceProcessor(offset, limit, feed(t, batches...), out)
	require.NoError(t, err)
	return run(t, p, results)
}

func TestSliceAcrossBatches(t *testing.T) {
	got := runSlice(t, 9, 3, seqBatches(10, 10, 10))
	require.Len(t, got, 3)
	assert.Equal(t, []int32{9, 10, 11}, rows(t, got))
	assert.Equal(t, int64(1), got[0].NumRows())
	assert.Equal(t, int64(2), got[1].NumRows())
	assert.Equal(t, int64(0), got[2].NumRows())
}

func TestSliceClippedAtEnd(t *testing.T) {
	got := runSlice(t, 29, 2, seqBatches(10, 10, 10))
	require.Len(t, got, 3)
	assert.Equal(t, []int32{29}, rows(t, got))
}

func TestSliceUnbounded(t *testing.T) {
	got := runSlice(t, 12, NoLimit, seqBatches(5, 5, 5))
	assert.Equal(t, []int32{12, 13, 14}, rows(t, got))
}

func TestSliceEmptyOutputsKeepSchema(t *testing.T) {
	batches := seqBatches(4, 4)
	got := runSlice(t, 0, 0, batches)
	require.Len(t, got, 2)
	for _, b := range got {
		assert.Zero(t, b.NumRows())
		assert.True(t, b.Schema().Equal(batches[0].Schema()))
	}
}

func TestSliceRejectsBadParameters(t *testing.T) {
	_, err := NewSliceProcessor(-1, 3, feed[arrow.Record](t), port.Discard[arrow.Record]())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSliceProcessor(0, -5, feed[arrow.Record](t), port.Discard[arrow.Record]())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSliceDrainsWithoutReceiver(t *testing.T) {
	in := feed(t, seqBatches(3, 3, 3)...)
	p, err := NewSliceProcessor(1, 2, in, port.Discard[arrow.Record]())
	require.NoError(t, err)
	require.NoError(t, p.Run(testContext(t)))

	_, ok, err := in.Recv(testContext(t))
	require.NoError(t, err)
	assert.False(t, ok, "input should be drained")
}

func TestWindowStepCases(t *testing.T) {
	bounded := func(o, n int64) WindowState {
		return WindowState{OffsetRemaining: o, LimitRemaining: n, Bounded: true}
	}
	unbounded := func(o int64) WindowState {
		return WindowState{OffsetRemaining: o}
	}

	tests := []struct {
		name     string
		state    WindowState
		rows     int64
		wantCase windowCase
		from, to int64
		next     WindowState
	}{
		{"exhausted", bounded(0, 0), 10, caseExhausted, 0, 0, bounded(0, 0)},
		{"pass all", unbounded(0), 10, casePassAll, 0, 10, unbounded(0)},
		{"head", bounded(0, 4), 10, caseHead, 0, 4, bounded(0, 0)},
		{"head exact", bounded(0, 10), 10, caseHead, 0, 10, bounded(0, 0)},
		{"pass counted", bounded(0, 15), 10, casePassCounted, 0, 10, bounded(0, 5)},
		{"tail", unbounded(3), 10, caseTail, 3, 10, unbounded(0)},
		{"tail exact", unbounded(10), 10, caseTail, 10, 10, unbounded(0)},
		{"skip unbounded", unbounded(12), 10, caseSkipUnbounded, 0, 0, unbounded(2)},
		{"inner", bounded(2, 5), 10, caseInner, 2, 7, bounded(0, 0)},
		{"inner to end", bounded(2, 8), 10, caseInner, 2, 10, bounded(0, 0)},
		{"skip bounded", bounded(10, 3), 10, caseSkipBounded, 0, 0, bounded(0, 3)},
		{"tail counted", bounded(9, 3), 10, caseTailCounted, 9, 10, bounded(0, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := tt.state.Step(tt.rows)
			assert.Equal(t, tt.wantCase, step.Case, "case %s", step.Case)
			assert.Equal(t, tt.from, step.From)
			assert.Equal(t, tt.to, step.To)
			assert.Equal(t, tt.next, step.Next)
		})
	}
}

// The concatenated output of a window equals the same window taken over
// the flattened input.
func TestSliceMatchesFlatWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		sizes := make([]int, rng.Intn(8))
		total := 0
		for i := range sizes {
			sizes[i] = rng.Intn(7)
			total += sizes[i]
		}
		offset := int64(rng.Intn(total + 3))
		limit := int64(rng.Intn(total+3)) - 1 // -1 is NoLimit

		got := runSlice(t, offset, limit, seqBatches(sizes...))
		require.Len(t, got, len(sizes), "one output per input")

		want := []int32{}
		for v := int32(offset); v < int32(total); v++ {
			if limit != NoLimit && int64(v) >= offset+limit {
				break
			}
			want = append(want, v)
		}
		assert.Equal(t, want, rows(t, got), "sizes=%v offset=%d limit=%d", sizes, offset, limit)
	}
}
