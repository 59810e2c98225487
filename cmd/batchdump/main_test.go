package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/compression"
	"github.com/harshithgowdakt/granuleflow/internal/processor"
)

func frames(t *testing.T, codec compression.Codec, batches ...arrow.Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, b := range batches {
		f, err := processor.EncodeBatch(codec, b)
		require.NoError(t, err)
		buf.Write(f)
	}
	return buf.Bytes()
}

func batch(vals ...int64) arrow.Record {
	return column.NewBatch([]string{"n"},
		column.Numbers(arrow.PrimitiveTypes.Int64, vals, nil))
}

func TestDumpSummarizesFrames(t *testing.T) {
	data := frames(t, &compression.LZ4Codec{}, batch(1, 2, 3), batch(), batch(4, 5))

	out, err := dump("frames.bin", data, 2)
	require.NoError(t, err)
	assert.Equal(t, len(data), out.FileSize)
	assert.Equal(t, int64(5), out.TotalRows)
	require.Len(t, out.Frames, 3)

	first := out.Frames[0]
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, int64(3), first.Rows)
	assert.Equal(t, []string{`{"n":1}`, `{"n":2}`}, first.Sample)
	require.Len(t, first.Fields, 1)
	assert.Equal(t, "Int64", first.Fields[0].Kind)
	assert.Equal(t, 8, first.Fields[0].ValueBytes)
	assert.Equal(t, out.Frames[0].Fingerprint, out.Frames[2].Fingerprint)

	assert.Nil(t, out.Frames[1].Sample)
	assert.Equal(t, int(first.CompressedBytes), out.Frames[1].Offset)
}

func TestDumpOmitsWidthOfStrings(t *testing.T) {
	rec := column.NewBatch([]string{"id", "label"},
		column.Numbers(arrow.PrimitiveTypes.Int32, []int32{1}, nil),
		column.Strings([]string{"a"}, nil))
	out, err := dump("frames.bin", frames(t, &compression.NoneCodec{}, rec), 0)
	require.NoError(t, err)
	require.Len(t, out.Frames, 1)

	fields := out.Frames[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "Int32", fields[0].Kind)
	assert.Equal(t, 4, fields[0].ValueBytes)
	assert.Equal(t, "String", fields[1].Kind)
	assert.Zero(t, fields[1].ValueBytes)

	b, err := json.Marshal(fields[1])
	require.NoError(t, err)
	assert.NotContains(t, string(b), "value_bytes")
}

func TestDumpTruncatedFile(t *testing.T) {
	data := frames(t, &compression.NoneCodec{}, batch(1), batch(2))
	_, err := dump("frames.bin", data[:len(data)-3], 0)
	assert.ErrorIs(t, err, processor.ErrCorruptFrame)
}
