// Command batchdump prints a JSON summary of a file of encoded batch frames
// as written by `granuleflow -op encode -out FILE`.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/compression"
	"github.com/harshithgowdakt/granuleflow/internal/processor"
)

type fieldJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind"`
	// ValueBytes is the width of one value, omitted for variable-length types.
	ValueBytes int  `json:"value_bytes,omitempty"`
	Nullable   bool `json:"nullable"`
	Nulls      int  `json:"nulls"`
}

type frameJSON struct {
	Frame            int         `json:"frame"`
	Offset           int         `json:"offset"`
	MethodByte       uint8       `json:"method_byte"`
	Method           string      `json:"method"`
	CompressedBytes  uint32      `json:"compressed_bytes_with_header"`
	UncompressedSize uint32      `json:"uncompressed_bytes"`
	Rows             int64       `json:"rows"`
	Fingerprint      string      `json:"schema_fingerprint"`
	Fields           []fieldJSON `json:"fields"`
	Sample           []string    `json:"sample,omitempty"`
}

type dumpJSON struct {
	File      string      `json:"file"`
	FileSize  int         `json:"file_size"`
	TotalRows int64       `json:"total_rows"`
	Frames    []frameJSON `json:"frames"`
}

func main() {
	path := flag.String("file", "", "Frames file written by granuleflow -op encode")
	sample := flag.Int("sample", 0, "Rows per frame to include as JSON")
	flag.Parse()

	if *path == "" {
		fatalf("missing required -file")
	}
	data, err := os.ReadFile(*path)
	if err != nil {
		fatalf("read %s: %v", *path, err)
	}
	out, err := dump(*path, data, *sample)
	if err != nil {
		fatalf("%v", err)
	}
	if err := writeJSON(os.Stdout, out); err != nil {
		fatalf("write: %v", err)
	}
}

func dump(path string, data []byte, sample int) (dumpJSON, error) {
	out := dumpJSON{File: path, FileSize: len(data)}
	for offset := 0; offset < len(data); {
		total, raw, err := compression.ReadBlockHeader(data[offset:])
		if err != nil {
			return out, fmt.Errorf("frame %d at offset %d: %w", len(out.Frames), offset, err)
		}
		if total < compression.HeaderSize || offset+int(total) > len(data) {
			return out, fmt.Errorf("frame %d at offset %d: %w: size %d", len(out.Frames), offset, processor.ErrCorruptFrame, total)
		}
		frame := data[offset : offset+int(total)]
		rec, err := processor.DecodeBatch(frame)
		if err != nil {
			return out, fmt.Errorf("frame %d at offset %d: %w", len(out.Frames), offset, err)
		}

		fj := frameJSON{
			Frame:            len(out.Frames),
			Offset:           offset,
			MethodByte:       frame[0],
			CompressedBytes:  total,
			UncompressedSize: raw,
			Rows:             rec.NumRows(),
			Fingerprint:      fmt.Sprintf("%016x", column.Fingerprint(rec.Schema())),
		}
		if codec, err := compression.CodecFor(frame[0]); err == nil {
			fj.Method = codec.Name()
		}
		kinds := column.ColumnTypes(rec)
		for i, f := range rec.Schema().Fields() {
			fj.Fields = append(fj.Fields, fieldJSON{
				Name:       f.Name,
				Type:       f.Type.String(),
				Kind:       kinds[i].Name(),
				ValueBytes: kinds[i].FixedSize(),
				Nullable:   f.Nullable,
				Nulls:      rec.Column(i).NullN(),
			})
		}
		if sample > 0 {
			var buf bytes.Buffer
			n := min(int64(sample), rec.NumRows())
			if err := array.RecordToJSON(rec.NewSlice(0, n), &buf); err != nil {
				return out, fmt.Errorf("frame %d sample: %w", fj.Frame, err)
			}
			fj.Sample = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if n == 0 {
				fj.Sample = nil
			}
		}

		out.TotalRows += rec.NumRows()
		out.Frames = append(out.Frames, fj)
		offset += int(total)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
