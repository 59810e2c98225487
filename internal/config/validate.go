package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/harshithgowdakt/granuleflow/internal/compression"
	"github.com/harshithgowdakt/granuleflow/internal/logging"
	"github.com/harshithgowdakt/granuleflow/internal/processor"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one validation finding. Path names the offending flag.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity == SeverityError })
}

// SyntheticColumns is the number of columns in the generated stream.
const SyntheticColumns = 4

// Validate lints c without changing it.
func (c Config) Validate() []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if !slices.Contains(Ops, c.Op) {
		add(SeverityError, "op", "unknown operator %q; expected one of %s", c.Op, strings.Join(Ops, ", "))
	}
	if c.Batches < 0 {
		add(SeverityError, "batches", "must be >= 0, got %d", c.Batches)
	}
	if c.Rows < 0 {
		add(SeverityError, "rows", "must be >= 0, got %d", c.Rows)
	}
	if c.Capacity < 0 {
		add(SeverityError, "capacity", "must be >= 0, got %d", c.Capacity)
	}

	switch c.Op {
	case OpSlice:
		if c.Offset < 0 {
			add(SeverityError, "offset", "must be >= 0, got %d", c.Offset)
		}
		if c.Limit < 0 && c.Limit != processor.NoLimit {
			add(SeverityError, "limit", "must be >= 0 or %d for no limit, got %d", processor.NoLimit, c.Limit)
		}
		if c.Offset >= c.TotalRows() && c.TotalRows() > 0 {
			add(SeverityWarning, "offset", "offset %d is past the %d generated rows; every output will be empty", c.Offset, c.TotalRows())
		}
	case OpProject:
		if len(c.Columns) == 0 {
			add(SeverityError, "columns", "at least one column index is required")
		}
		for i, col := range c.Columns {
			if col < 0 || col >= SyntheticColumns {
				add(SeverityError, fmt.Sprintf("columns[%d]", i), "index %d outside [0, %d)", col, SyntheticColumns)
			}
		}
	case OpSum, OpMin, OpMax, OpAvg:
		if c.Column < 0 || c.Column >= SyntheticColumns {
			add(SeverityError, "column", "index %d outside [0, %d)", c.Column, SyntheticColumns)
		}
		if _, err := processor.ParseAvgMode(c.AvgMode); err != nil {
			add(SeverityError, "avg-mode", "%v", err)
		} else if c.Op != OpAvg && c.AvgMode != "" && c.AvgMode != "mean-of-means" {
			add(SeverityWarning, "avg-mode", "ignored by %s", c.Op)
		}
	case OpEncode:
		if _, err := compression.ParseCodec(c.Codec); err != nil {
			add(SeverityError, "codec", "%v", err)
		}
		if strings.TrimSpace(c.Out) == "" {
			add(SeverityWarning, "out", "no output file; frames are only summarized")
		}
	}

	if _, err := logging.ParseLevel(string(c.Log.Level)); err != nil {
		add(SeverityError, "log-level", "%v", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		add(SeverityError, "log-format", "expected text or json, got %q", c.Log.Format)
	}

	return issues
}
