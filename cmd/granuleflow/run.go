package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/sync/errgroup"

	"github.com/harshithgowdakt/granuleflow/internal/compression"
	"github.com/harshithgowdakt/granuleflow/internal/config"
	"github.com/harshithgowdakt/granuleflow/internal/port"
	"github.com/harshithgowdakt/granuleflow/internal/processor"
	"github.com/harshithgowdakt/granuleflow/internal/types"
)

// run wires generator -> operator -> printer and waits for all three.
func run(ctx context.Context, cfg config.Config, w io.Writer) error {
	srcOut, srcIn := port.New[arrow.Record](cfg.Capacity)

	proc, collect, err := build(cfg, srcIn, w)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return generate(gctx, srcOut, cfg.Batches, cfg.Rows) })
	g.Go(func() error { return processor.Execute(gctx, proc) })
	g.Go(func() error { return collect(gctx) })
	return g.Wait()
}

type collector func(ctx context.Context) error

func build(cfg config.Config, in port.Source[arrow.Record], w io.Writer) (processor.Processor, collector, error) {
	switch cfg.Op {
	case config.OpConcat:
		out, results := port.New[arrow.Record](1)
		return processor.NewConcatProcessor(in, out), printBatches(w, results), nil

	case config.OpProject:
		out, results := port.New[arrow.Record](cfg.Capacity)
		p, err := processor.NewProjectionProcessor(cfg.Columns, in, out)
		if err != nil {
			return nil, nil, err
		}
		return p, printBatches(w, results), nil

	case config.OpSlice:
		out, results := port.New[arrow.Record](cfg.Capacity)
		p, err := processor.NewSliceProcessor(cfg.Offset, cfg.Limit, in, out)
		if err != nil {
			return nil, nil, err
		}
		return p, printBatches(w, results), nil

	case config.OpCount:
		counts, countsIn := port.New[int64](cfg.Capacity)
		total, totalIn := port.New[int64](1)
		p := processor.NewCountProcessor(in, counts, total)
		return p, func(ctx context.Context) error {
			for i := 0; ; i++ {
				n, ok, err := countsIn.Recv(ctx)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				fmt.Fprintf(w, "batch %d: %d rows\n", i, n)
			}
			sum, err := totalIn.RecvAll(ctx)
			if err != nil {
				return err
			}
			for _, n := range sum {
				fmt.Fprintf(w, "total: %d rows\n", n)
			}
			return nil
		}, nil

	case config.OpSum, config.OpMin, config.OpMax, config.OpAvg:
		kind, err := processor.ParseAggregateKind(cfg.Op)
		if err != nil {
			return nil, nil, err
		}
		mode, err := processor.ParseAvgMode(cfg.AvgMode)
		if err != nil {
			return nil, nil, err
		}
		out, results := port.New[types.Scalar](1)
		p, err := processor.NewAggregateProcessor(kind, cfg.Column, in, out)
		if err != nil {
			return nil, nil, err
		}
		return p.WithAvgMode(mode), func(ctx context.Context) error {
			vals, err := results.RecvAll(ctx)
			if err != nil {
				return err
			}
			for _, v := range vals {
				fmt.Fprintf(w, "%s(column %d) = %s\n", kind, cfg.Column, v)
			}
			return nil
		}, nil

	case config.OpEncode:
		codec, err := compression.ParseCodec(cfg.Codec)
		if err != nil {
			return nil, nil, err
		}
		frames, framesIn := port.New[[]byte](cfg.Capacity)
		p, err := processor.NewEncodeProcessor(codec, in, frames)
		if err != nil {
			return nil, nil, err
		}
		return p, writeFrames(w, framesIn, cfg.Out), nil
	}
	return nil, nil, fmt.Errorf("%w: unknown operator %q", processor.ErrInvalidConfig, cfg.Op)
}

// printBatches writes every received batch as JSON lines, one per row.
func printBatches(w io.Writer, results *port.Input[arrow.Record]) collector {
	return func(ctx context.Context) error {
		for i := 0; ; i++ {
			b, ok, err := results.Recv(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "-- batch %d: %d rows x %d columns\n", i, b.NumRows(), b.NumCols())
			if err := array.RecordToJSON(b, w); err != nil {
				return fmt.Errorf("print batch %d: %w", i, err)
			}
		}
	}
}

type frameSummary struct {
	Frame      int    `json:"frame"`
	Bytes      int    `json:"bytes"`
	Method     string `json:"method"`
	RawBytes   uint32 `json:"uncompressed_bytes"`
	OutputFile string `json:"output_file,omitempty"`
}

// writeFrames appends frames to path (when set) and prints one summary
// line per frame.
func writeFrames(w io.Writer, frames *port.Input[[]byte], path string) collector {
	return func(ctx context.Context) error {
		var f *os.File
		if path != "" {
			var err error
			f, err = os.Create(path)
			if err != nil {
				frames.Close()
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()
		}
		enc := json.NewEncoder(w)
		for i := 0; ; i++ {
			frame, ok, err := frames.Recv(ctx)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if f != nil {
				if _, err := f.Write(frame); err != nil {
					return fmt.Errorf("write frame %d: %w", i, err)
				}
			}
			_, raw, err := compression.ReadBlockHeader(frame)
			if err != nil {
				return err
			}
			codec, err := compression.CodecFor(frame[0])
			if err != nil {
				return err
			}
			if err := enc.Encode(frameSummary{
				Frame:      i,
				Bytes:      len(frame),
				Method:     codec.Name(),
				RawBytes:   raw,
				OutputFile: path,
			}); err != nil {
				return err
			}
		}
		if f != nil {
			return f.Sync()
		}
		return nil
	}
}
