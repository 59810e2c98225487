package column

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/zeebo/xxh3"

	"github.com/harshithgowdakt/granuleflow/internal/types"
)

// ErrSchemaMismatch is returned when batches with incompatible schemas meet.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Allocator backs every array this package builds.
var Allocator memory.Allocator = memory.DefaultAllocator

// Empty returns a zero-row batch with the given schema.
func Empty(schema *arrow.Schema) arrow.Record {
	cols := make([]arrow.Array, schema.NumFields())
	for i, f := range schema.Fields() {
		cols[i] = array.MakeArrayOfNull(Allocator, f.Type, 0)
	}
	return array.NewRecord(schema, cols, 0)
}

// SliceRows returns a batch with rows [from, to). The result shares memory
// with b.
func SliceRows(b arrow.Record, from, to int64) arrow.Record {
	return b.NewSlice(from, to)
}

// Project returns a batch holding only the given columns, in order.
// Column arrays are shared with b.
func Project(b arrow.Record, indices []int) (arrow.Record, error) {
	schema := b.Schema()
	fields := make([]arrow.Field, len(indices))
	cols := make([]arrow.Array, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= int(b.NumCols()) {
			return nil, fmt.Errorf("column index %d out of range [0, %d)", idx, b.NumCols())
		}
		fields[i] = schema.Field(idx)
		cols[i] = b.Column(idx)
	}
	meta := schema.Metadata()
	return array.NewRecord(arrow.NewSchema(fields, &meta), cols, b.NumRows()), nil
}

// Concat concatenates batches into one batch owning its storage. Every batch
// must be compatible with schema.
func Concat(schema *arrow.Schema, batches []arrow.Record) (arrow.Record, error) {
	if len(batches) == 0 {
		return Empty(schema), nil
	}
	want := Fingerprint(schema)
	var rows int64
	for i, b := range batches {
		if err := compatible(schema, want, b.Schema()); err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		rows += b.NumRows()
	}
	if len(batches) == 1 {
		batches[0].Retain()
		return batches[0], nil
	}

	cols := make([]arrow.Array, schema.NumFields())
	parts := make([]arrow.Array, len(batches))
	for c := range cols {
		for i, b := range batches {
			parts[i] = b.Column(c)
		}
		arr, err := array.Concatenate(parts, Allocator)
		if err != nil {
			for _, done := range cols[:c] {
				done.Release()
			}
			return nil, fmt.Errorf("concatenate column %q: %w", schema.Field(c).Name, err)
		}
		cols[c] = arr
	}
	return array.NewRecord(schema, cols, rows), nil
}

// Fingerprint hashes the field names, types and nullability of a schema.
func Fingerprint(schema *arrow.Schema) uint64 {
	h := xxh3.New()
	for _, f := range schema.Fields() {
		h.WriteString(f.Name)
		h.WriteString("\x00")
		h.WriteString(f.Type.Fingerprint())
		if f.Nullable {
			h.WriteString("?")
		}
		h.WriteString("\x1f")
	}
	return h.Sum64()
}

// Compatible reports whether b can be concatenated under schema a.
func Compatible(a, b *arrow.Schema) error {
	return compatible(a, Fingerprint(a), b)
}

func compatible(a *arrow.Schema, fp uint64, b *arrow.Schema) error {
	if Fingerprint(b) == fp {
		return nil
	}
	if a.NumFields() != b.NumFields() {
		return fmt.Errorf("%w: %d columns vs %d", ErrSchemaMismatch, a.NumFields(), b.NumFields())
	}
	for i := range a.Fields() {
		fa, fb := a.Field(i), b.Field(i)
		switch {
		case fa.Name != fb.Name:
			return fmt.Errorf("%w: column %d named %q vs %q", ErrSchemaMismatch, i, fa.Name, fb.Name)
		case !arrow.TypeEqual(fa.Type, fb.Type):
			return fmt.Errorf("%w: column %q is %s vs %s", ErrSchemaMismatch, fa.Name, fa.Type, fb.Type)
		case fa.Nullable != fb.Nullable:
			return fmt.Errorf("%w: column %q nullability differs", ErrSchemaMismatch, fa.Name)
		}
	}
	return fmt.Errorf("%w: fingerprints differ", ErrSchemaMismatch)
}

// ColumnTypes returns the operator type tags of all columns.
func ColumnTypes(b arrow.Record) []types.DataType {
	dts := make([]types.DataType, b.NumCols())
	for i, f := range b.Schema().Fields() {
		dts[i] = types.FromArrow(f.Type)
	}
	return dts
}
