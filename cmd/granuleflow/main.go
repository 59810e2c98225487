// Command granuleflow runs one streaming operator over a synthetic stream
// of batches and prints what it emits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/common/expfmt"

	"github.com/harshithgowdakt/granuleflow/internal/config"
	"github.com/harshithgowdakt/granuleflow/internal/logging"
	"github.com/harshithgowdakt/granuleflow/internal/metrics"
)

func main() {
	cfg := config.Default()
	var columns, logLevel string

	flag.StringVar(&cfg.Op, "op", cfg.Op, "Operator: "+strings.Join(config.Ops, ", "))
	flag.IntVar(&cfg.Batches, "batches", cfg.Batches, "Number of synthetic batches")
	flag.IntVar(&cfg.Rows, "rows", cfg.Rows, "Rows per synthetic batch")
	flag.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "Port buffer capacity")
	flag.Int64Var(&cfg.Offset, "offset", cfg.Offset, "Window offset (slice)")
	flag.Int64Var(&cfg.Limit, "limit", cfg.Limit, "Window limit, -1 for none (slice)")
	flag.StringVar(&columns, "columns", "0", "Comma-separated column indices (project)")
	flag.IntVar(&cfg.Column, "column", cfg.Column, "Target column index (sum, min, max, avg)")
	flag.StringVar(&cfg.AvgMode, "avg-mode", cfg.AvgMode, "Average mode: mean-of-means or weighted")
	flag.StringVar(&cfg.Codec, "codec", cfg.Codec, "Frame codec: lz4 or none (encode)")
	flag.StringVar(&cfg.Out, "out", "", "File to write encoded frames to (encode)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: text or json")
	flag.StringVar(&cfg.Log.OutputPath, "log-file", "", "Log file path (default stderr)")
	flag.BoolVar(&cfg.Metrics, "metrics", false, "Print Prometheus metrics after the run")
	flag.Parse()

	cols, err := config.ParseColumns(columns)
	if err != nil {
		fatalf("parse -columns: %v", err)
	}
	cfg.Columns = cols
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		fatalf("parse -log-level: %v", err)
	}
	cfg.Log.Level = level

	issues := cfg.Validate()
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: -%s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		os.Exit(2)
	}

	if err := logging.Init(cfg.Log); err != nil {
		fatalf("init logging: %v", err)
	}
	defer logging.Close()

	var prom *metrics.Prometheus
	if cfg.Metrics {
		prom, err = metrics.NewPrometheus()
		if err != nil {
			fatalf("init metrics: %v", err)
		}
		metrics.SetBackend(prom)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.WithComponent("cli")
	log.Info("starting run", "op", cfg.Op, "batches", cfg.Batches, "rows", cfg.Rows)
	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Error("run failed", "error", err)
		logging.Close()
		os.Exit(1)
	}

	if prom != nil {
		if err := writeMetrics(os.Stdout, prom); err != nil {
			fatalf("write metrics: %v", err)
		}
	}
}

func writeMetrics(w io.Writer, prom *metrics.Prometheus) error {
	families, err := prom.Registry().Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
