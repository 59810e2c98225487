package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/float16"
)

// Number is the set of Go types Numbers can load.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Numbers builds a numeric array of type dt from vals. A false entry in
// valid marks that slot null; a nil valid means all values are set.
func Numbers[T Number](dt arrow.DataType, vals []T, valid []bool) arrow.Array {
	b := array.NewBuilder(Allocator, dt)
	defer b.Release()
	b.Reserve(len(vals))
	for i, v := range vals {
		if valid != nil && !valid[i] {
			b.AppendNull()
			continue
		}
		switch bb := b.(type) {
		case *array.Int8Builder:
			bb.Append(int8(v))
		case *array.Int16Builder:
			bb.Append(int16(v))
		case *array.Int32Builder:
			bb.Append(int32(v))
		case *array.Int64Builder:
			bb.Append(int64(v))
		case *array.Uint8Builder:
			bb.Append(uint8(v))
		case *array.Uint16Builder:
			bb.Append(uint16(v))
		case *array.Uint32Builder:
			bb.Append(uint32(v))
		case *array.Uint64Builder:
			bb.Append(uint64(v))
		case *array.Float16Builder:
			bb.Append(float16.New(float32(v)))
		case *array.Float32Builder:
			bb.Append(float32(v))
		case *array.Float64Builder:
			bb.Append(float64(v))
		default:
			panic("column.Numbers: non-numeric type " + dt.String())
		}
	}
	return b.NewArray()
}

// Strings builds a UTF-8 array.
func Strings(vals []string, valid []bool) arrow.Array {
	b := array.NewStringBuilder(Allocator)
	defer b.Release()
	b.AppendValues(vals, valid)
	return b.NewArray()
}

// NewBatch assembles a batch from named columns. Fields are nullable.
func NewBatch(names []string, cols ...arrow.Array) arrow.Record {
	fields := make([]arrow.Field, len(cols))
	var rows int64
	for i, c := range cols {
		fields[i] = arrow.Field{Name: names[i], Type: c.DataType(), Nullable: true}
		rows = int64(c.Len())
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), cols, rows)
}
