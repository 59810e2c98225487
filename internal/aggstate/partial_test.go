package aggstate

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/types"
)

func TestReduceInt32(t *testing.T) {
	arr := column.Numbers(arrow.PrimitiveTypes.Int32, []int32{4, -2, 9, 1}, nil)

	sum, ok := Sum(arr)
	require.True(t, ok)
	assert.Equal(t, types.Int32(12), sum)

	lo, ok := Min(arr)
	require.True(t, ok)
	assert.Equal(t, types.Int32(-2), lo)

	hi, ok := Max(arr)
	require.True(t, ok)
	assert.Equal(t, types.Int32(9), hi)
}

func TestReduceSkipsNulls(t *testing.T) {
	arr := column.Numbers(arrow.PrimitiveTypes.Float64,
		[]float64{4, -100, 5, 0, 0},
		[]bool{true, false, true, false, false})

	sum, n, ok := Reduce(arr, OpSum)
	require.True(t, ok)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, types.Float64(9), sum)

	lo, ok := Min(arr)
	require.True(t, ok)
	assert.Equal(t, types.Float64(4), lo)

	mean, ok := Mean(arr)
	require.True(t, ok)
	assert.Equal(t, types.Float64(4.5), mean)
}

func TestReduceAllNull(t *testing.T) {
	arr := column.Numbers(arrow.PrimitiveTypes.Uint16, []uint16{1, 2}, []bool{false, false})
	sum, n, ok := Reduce(arr, OpSum)
	require.True(t, ok)
	assert.Zero(t, n)
	assert.True(t, sum.IsNull())

	mean, ok := Mean(arr)
	require.True(t, ok)
	assert.True(t, mean.IsNull())
}

func TestReduceUnsupported(t *testing.T) {
	arr := column.Strings([]string{"a", "b"}, nil)
	_, _, ok := Reduce(arr, OpMin)
	assert.False(t, ok)
	_, _, ok = SumFloat64(arr)
	assert.False(t, ok)
	assert.False(t, Supported(arr.DataType()))
}

func TestReduceAllWidths(t *testing.T) {
	cases := []struct {
		dt   arrow.DataType
		want types.Scalar
	}{
		{arrow.PrimitiveTypes.Int8, types.Int8(6)},
		{arrow.PrimitiveTypes.Int16, types.Int16(6)},
		{arrow.PrimitiveTypes.Int64, types.Int64(6)},
		{arrow.PrimitiveTypes.Uint8, types.UInt8(6)},
		{arrow.PrimitiveTypes.Uint32, types.UInt32(6)},
		{arrow.PrimitiveTypes.Uint64, types.UInt64(6)},
		{arrow.FixedWidthTypes.Float16, types.Float16(6)},
		{arrow.PrimitiveTypes.Float32, types.Float32(6)},
	}
	for _, tc := range cases {
		t.Run(tc.dt.String(), func(t *testing.T) {
			arr := column.Numbers(tc.dt, []int64{1, 2, 3}, nil)
			got, ok := Sum(arr)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSumFloat64AvoidsOverflow(t *testing.T) {
	arr := column.Numbers(arrow.PrimitiveTypes.Int8, []int8{127, 127}, nil)
	sum, n, ok := SumFloat64(arr)
	require.True(t, ok)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 254.0, sum)
}
