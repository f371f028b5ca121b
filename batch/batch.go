package batch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andydunstall/rumour/batch/config"
	"github.com/andydunstall/rumour/pkg/log"
	"github.com/andydunstall/rumour/simulation"
)

// Batch reads configurations from an input file, simulates each and writes
// the results to an output file.
type Batch struct {
	id   string
	seed uint64
	conf *config.Config

	metrics  *simulation.Metrics
	registry *prometheus.Registry

	logger log.Logger
}

func NewBatch(conf *config.Config, logger log.Logger) *Batch {
	id := uuid.New().String()

	seed := conf.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	metrics := simulation.NewMetrics()
	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	return &Batch{
		id:       id,
		seed:     seed,
		conf:     conf,
		metrics:  metrics,
		registry: registry,
		logger:   logger.WithSubsystem("batch").With(zap.String("batch-id", id)),
	}
}

func (b *Batch) ID() string {
	return b.id
}

// Seed returns the seed used by the batch, which is randomly chosen if not
// configured.
func (b *Batch) Seed() uint64 {
	return b.seed
}

// Registry returns the registry containing the batch metrics.
func (b *Batch) Registry() *prometheus.Registry {
	return b.registry
}

// Run simulates every configuration in the input file and writes the
// results to the output file.
//
// The input and output files are opened before any simulation runs, so I/O
// errors fail fast. The output and trace files only appear once every row has
// been simulated.
func (b *Batch) Run(ctx context.Context, inputPath, outputPath string) (*Summary, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := CreateOutput(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %s: %w", outputPath, err)
	}
	committed := false
	defer func() {
		if !committed {
			out.Abort()
		}
	}()

	var (
		traceOut *Output
		trace    *TraceWriter
	)
	if b.conf.Trace.Path != "" {
		traceOut, err = CreateOutput(b.conf.Trace.Path)
		if err != nil {
			return nil, fmt.Errorf("create trace: %s: %w", b.conf.Trace.Path, err)
		}
		defer func() {
			if !committed {
				traceOut.Abort()
			}
		}()

		trace = NewTraceWriter(traceOut)
	}

	rows, err := ReadRows(in)
	if err != nil {
		return nil, fmt.Errorf("read input: %s: %w", inputPath, err)
	}

	b.logger.Info(
		"starting batch",
		zap.Int("rows", len(rows)),
		zap.Uint64("seed", b.seed),
		zap.Int("workers", b.conf.Workers),
		zap.String("round-mode", b.conf.RoundMode),
	)

	runner := NewRunner(b.conf, b.seed, b.metrics, trace, b.logger)
	results, err := runner.Run(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	if err := WriteResults(out, results); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	if traceOut != nil {
		if err := traceOut.Commit(); err != nil {
			return nil, fmt.Errorf("commit trace: %w", err)
		}
	}
	if err := out.Commit(); err != nil {
		return nil, fmt.Errorf("commit output: %w", err)
	}
	committed = true

	if b.conf.Metrics.Path != "" {
		if err := prometheus.WriteToTextfile(b.conf.Metrics.Path, b.registry); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
	}

	summary := Summarize(b.id, b.seed, results)

	b.logger.Info(
		"batch complete",
		zap.Int64("simulated", runner.Completed()),
		zap.Int64("invalid-rows", runner.Invalid()),
		zap.Int("converged", summary.Converged),
		zap.Int("aborted", summary.Aborted),
	)

	return &summary, nil
}
