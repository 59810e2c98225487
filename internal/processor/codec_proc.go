package processor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/compression"
	"github.com/harshithgowdakt/granuleflow/internal/metrics"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

// EncodeBatch serializes rec as an Arrow IPC stream (schema plus one
// record) wrapped in a compressed block.
func EncodeBatch(codec compression.Codec, rec arrow.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(column.Allocator))
	if err := w.Write(rec); err != nil {
		w.Close()
		return nil, fmt.Errorf("write ipc record: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close ipc stream: %w", err)
	}
	return compression.CompressBlock(codec, buf.Bytes())
}

// DecodeBatch reverses EncodeBatch.
func DecodeBatch(frame []byte) (arrow.Record, error) {
	raw, err := compression.DecompressBlock(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}
	r, err := ipc.NewReader(bytes.NewReader(raw), ipc.WithAllocator(column.Allocator))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}
	defer r.Release()
	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
		}
		return nil, fmt.Errorf("%w: frame holds no record", ErrCorruptFrame)
	}
	rec := r.Record()
	rec.Retain()
	return rec, nil
}

// EncodeProcessor turns each batch into one frame.
type EncodeProcessor struct {
	BaseProcessor
	codec compression.Codec
	in    port.Source[arrow.Record]
	out   port.Sink[[]byte]
}

// NewEncodeProcessor creates an encoder compressing frames with codec.
func NewEncodeProcessor(codec compression.Codec, in port.Source[arrow.Record], out port.Sink[[]byte]) (*EncodeProcessor, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: nil codec", ErrInvalidConfig)
	}
	return &EncodeProcessor{
		BaseProcessor: NewBaseProcessor("Encode"),
		codec:         codec,
		in:            in,
		out:           out,
	}, nil
}

func (e *EncodeProcessor) Run(ctx context.Context) (err error) {
	_, finish := e.start(ctx)
	defer finish(&err)
	defer e.out.Close()
	defer releaseOnError(&err, e.in)

	for {
		b, ok, err := e.recv(ctx, e.in)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !port.Connected(e.out) {
			continue
		}
		frame, err := EncodeBatch(e.codec, b)
		if err != nil {
			return fmt.Errorf("encode batch: %w", err)
		}
		sent, err := send(ctx, e.out, frame)
		if err != nil {
			return err
		}
		if sent {
			metrics.RecordBatch(e.name, metrics.Out, b.NumRows())
		}
	}
}

// DecodeProcessor turns each frame back into a batch. A malformed frame
// aborts the run with ErrCorruptFrame.
type DecodeProcessor struct {
	BaseProcessor
	in  port.Source[[]byte]
	out port.Sink[arrow.Record]
}

// NewDecodeProcessor creates a decoder.
func NewDecodeProcessor(in port.Source[[]byte], out port.Sink[arrow.Record]) *DecodeProcessor {
	return &DecodeProcessor{
		BaseProcessor: NewBaseProcessor("Decode"),
		in:            in,
		out:           out,
	}
}

func (d *DecodeProcessor) Run(ctx context.Context) (err error) {
	_, finish := d.start(ctx)
	defer finish(&err)
	defer d.out.Close()
	defer releaseOnError(&err, d.in)

	for {
		frame, ok, err := d.in.Recv(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		rec, err := DecodeBatch(frame)
		if err != nil {
			return err
		}
		metrics.RecordBatch(d.name, metrics.In, rec.NumRows())
		if err := d.emit(ctx, d.out, rec); err != nil {
			return err
		}
	}
}
