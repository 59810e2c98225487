// Package aggstate computes per-batch partial aggregates over a single
// column. Every function reports ok=false for datatypes outside the numeric
// set (signed and unsigned 8/16/32/64-bit integers, 16/32/64-bit floats);
// callers treat that as "no contribution", not as an error.
package aggstate

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/harshithgowdakt/granuleflow/internal/types"
)

// Op selects the reduction applied to the non-null values of an array.
type Op uint8

const (
	OpSum Op = iota
	OpMin
	OpMax
)

func (op Op) String() string {
	switch op {
	case OpSum:
		return "sum"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	default:
		return "unknown"
	}
}

// Supported reports whether arrays of dt produce partial results.
func Supported(dt arrow.DataType) bool {
	return types.FromArrow(dt).IsNumeric()
}

// Sum returns the sum of the non-null values, tagged with the column type.
func Sum(arr arrow.Array) (types.Scalar, bool) {
	s, _, ok := Reduce(arr, OpSum)
	return s, ok
}

// Min returns the smallest non-null value, tagged with the column type.
func Min(arr arrow.Array) (types.Scalar, bool) {
	s, _, ok := Reduce(arr, OpMin)
	return s, ok
}

// Max returns the largest non-null value, tagged with the column type.
func Max(arr arrow.Array) (types.Scalar, bool) {
	s, _, ok := Reduce(arr, OpMax)
	return s, ok
}

// Reduce applies op to the non-null values of arr. It returns the result
// (null when every slot is null), the number of values that took part, and
// whether the datatype is supported.
func Reduce(arr arrow.Array, op Op) (types.Scalar, int64, bool) {
	switch a := arr.(type) {
	case *array.Int8:
		v, n := reduce[int8](a, op)
		return scalarOf(types.Int8(v), n), n, true
	case *array.Int16:
		v, n := reduce[int16](a, op)
		return scalarOf(types.Int16(v), n), n, true
	case *array.Int32:
		v, n := reduce[int32](a, op)
		return scalarOf(types.Int32(v), n), n, true
	case *array.Int64:
		v, n := reduce[int64](a, op)
		return scalarOf(types.Int64(v), n), n, true
	case *array.Uint8:
		v, n := reduce[uint8](a, op)
		return scalarOf(types.UInt8(v), n), n, true
	case *array.Uint16:
		v, n := reduce[uint16](a, op)
		return scalarOf(types.UInt16(v), n), n, true
	case *array.Uint32:
		v, n := reduce[uint32](a, op)
		return scalarOf(types.UInt32(v), n), n, true
	case *array.Uint64:
		v, n := reduce[uint64](a, op)
		return scalarOf(types.UInt64(v), n), n, true
	case *array.Float16:
		v, n := reduce[float32](float16Values{a}, op)
		return scalarOf(types.Float16(v), n), n, true
	case *array.Float32:
		v, n := reduce[float32](a, op)
		return scalarOf(types.Float32(v), n), n, true
	case *array.Float64:
		v, n := reduce[float64](a, op)
		return scalarOf(types.Float64(v), n), n, true
	default:
		return types.Null(), 0, false
	}
}

// SumFloat64 returns the float64 sum and count of the non-null values.
// Averages are built from it so integer columns cannot overflow.
func SumFloat64(arr arrow.Array) (sum float64, count int64, ok bool) {
	switch a := arr.(type) {
	case *array.Int8:
		sum, count = sumFloat[int8](a)
	case *array.Int16:
		sum, count = sumFloat[int16](a)
	case *array.Int32:
		sum, count = sumFloat[int32](a)
	case *array.Int64:
		sum, count = sumFloat[int64](a)
	case *array.Uint8:
		sum, count = sumFloat[uint8](a)
	case *array.Uint16:
		sum, count = sumFloat[uint16](a)
	case *array.Uint32:
		sum, count = sumFloat[uint32](a)
	case *array.Uint64:
		sum, count = sumFloat[uint64](a)
	case *array.Float16:
		sum, count = sumFloat[float32](float16Values{a})
	case *array.Float32:
		sum, count = sumFloat[float32](a)
	case *array.Float64:
		sum, count = sumFloat[float64](a)
	default:
		return 0, 0, false
	}
	return sum, count, true
}

// Mean returns the Float64 mean of the non-null values, or null when there
// are none.
func Mean(arr arrow.Array) (types.Scalar, bool) {
	sum, n, ok := SumFloat64(arr)
	if !ok {
		return types.Null(), false
	}
	if n == 0 {
		return types.Null(), true
	}
	return types.Float64(sum / float64(n)), true
}

func scalarOf(s types.Scalar, n int64) types.Scalar {
	if n == 0 {
		return types.Null()
	}
	return s
}
