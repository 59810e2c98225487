// Package config holds the command-line configuration of the granuleflow
// demo runner and a linter over it.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harshithgowdakt/granuleflow/internal/logging"
	"github.com/harshithgowdakt/granuleflow/internal/processor"
)

// Operators the runner can execute.
const (
	OpConcat  = "concat"
	OpCount   = "count"
	OpProject = "project"
	OpSlice   = "slice"
	OpSum     = "sum"
	OpMin     = "min"
	OpMax     = "max"
	OpAvg     = "avg"
	OpEncode  = "encode"
)

// Ops lists every supported operator name.
var Ops = []string{OpConcat, OpCount, OpProject, OpSlice, OpSum, OpMin, OpMax, OpAvg, OpEncode}

// Config describes one run: a synthetic input stream and the operator
// applied to it.
type Config struct {
	Op string

	// Synthetic input.
	Batches  int
	Rows     int
	Capacity int

	// Operator parameters.
	Offset  int64
	Limit   int64
	Columns []int
	Column  int
	AvgMode string
	Codec   string
	Out     string

	Log     logging.Config
	Metrics bool
}

// Default returns the runner defaults.
func Default() Config {
	return Config{
		Op:       OpCount,
		Batches:  3,
		Rows:     10,
		Capacity: 4,
		Limit:    processor.NoLimit,
		Columns:  []int{0},
		AvgMode:  "mean-of-means",
		Codec:    "lz4",
		Log: logging.Config{
			Level:  logging.LevelInfo,
			Format: "text",
		},
	}
}

// TotalRows is the length of the synthetic stream.
func (c Config) TotalRows() int64 {
	return int64(c.Batches) * int64(c.Rows)
}

// ParseColumns parses a comma-separated list of column indices.
func ParseColumns(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	cols := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("column index %q: %w", p, err)
		}
		cols = append(cols, n)
	}
	return cols, nil
}
