package column

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshithgowdakt/granuleflow/internal/types"
)

func sampleBatch(start int32, n int) arrow.Record {
	ids := make([]int32, n)
	names := make([]string, n)
	for i := range ids {
		ids[i] = start + int32(i)
		names[i] = string(rune('a' + i%26))
	}
	return NewBatch([]string{"id", "name"},
		Numbers(arrow.PrimitiveTypes.Int32, ids, nil),
		Strings(names, nil))
}

func int32s(t *testing.T, b arrow.Record, col int) []int32 {
	t.Helper()
	arr, ok := b.Column(col).(*array.Int32)
	require.True(t, ok, "column %d is %T", col, b.Column(col))
	return append([]int32(nil), arr.Int32Values()...)
}

func TestSliceRows(t *testing.T) {
	b := sampleBatch(0, 10)
	s := SliceRows(b, 3, 6)
	assert.EqualValues(t, 3, s.NumRows())
	assert.Equal(t, []int32{3, 4, 5}, int32s(t, s, 0))
	assert.True(t, s.Schema().Equal(b.Schema()))

	empty := SliceRows(b, 10, 10)
	assert.EqualValues(t, 0, empty.NumRows())
	assert.EqualValues(t, 2, empty.NumCols())
}

func TestConcat(t *testing.T) {
	a, b := sampleBatch(0, 3), sampleBatch(3, 4)
	out, err := Concat(a.Schema(), []arrow.Record{a, b})
	require.NoError(t, err)
	assert.EqualValues(t, 7, out.NumRows())
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6}, int32s(t, out, 0))
}

func TestConcatSingleAndNone(t *testing.T) {
	a := sampleBatch(0, 3)
	out, err := Concat(a.Schema(), []arrow.Record{a})
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.NumRows())

	out, err = Concat(a.Schema(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, out.NumRows())
}

func TestConcatSchemaMismatch(t *testing.T) {
	a := sampleBatch(0, 3)
	other := NewBatch([]string{"id"}, Numbers(arrow.PrimitiveTypes.Int64, []int64{1}, nil))
	_, err := Concat(a.Schema(), []arrow.Record{a, other})
	require.ErrorIs(t, err, ErrSchemaMismatch)

	renamed := NewBatch([]string{"key", "name"},
		Numbers(arrow.PrimitiveTypes.Int32, []int32{1}, nil),
		Strings([]string{"x"}, nil))
	err = Compatible(a.Schema(), renamed.Schema())
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `"id"`)

	retyped := NewBatch([]string{"id", "name"},
		Numbers(arrow.PrimitiveTypes.Float64, []float64{1}, nil),
		Strings([]string{"x"}, nil))
	require.ErrorIs(t, Compatible(a.Schema(), retyped.Schema()), ErrSchemaMismatch)
}

func TestProject(t *testing.T) {
	b := sampleBatch(0, 4)
	p, err := Project(b, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, "name", p.ColumnName(0))
	assert.Equal(t, "id", p.ColumnName(1))
	assert.EqualValues(t, 4, p.NumRows())

	_, err = Project(b, []int{2})
	require.Error(t, err)
}

func TestFingerprintStable(t *testing.T) {
	a, b := sampleBatch(0, 1), sampleBatch(5, 9)
	assert.Equal(t, Fingerprint(a.Schema()), Fingerprint(b.Schema()))

	nonNull := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
	assert.NotEqual(t, Fingerprint(a.Schema()), Fingerprint(nonNull))
}

func TestEmptyAndTypes(t *testing.T) {
	b := sampleBatch(0, 2)
	e := Empty(b.Schema())
	assert.EqualValues(t, 0, e.NumRows())
	assert.Equal(t, []types.DataType{types.TypeInt32, types.TypeString}, ColumnTypes(e))
}

func TestNumbersWithNulls(t *testing.T) {
	arr := Numbers(arrow.FixedWidthTypes.Float16, []float32{1, 2, 3}, []bool{true, false, true})
	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, 1, arr.NullN())
	assert.True(t, arr.IsNull(1))
}
