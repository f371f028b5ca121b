package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andydunstall/rumour/batch/config"
	"github.com/andydunstall/rumour/pkg/log"
	"github.com/andydunstall/rumour/simulation"
)

// Result is the result of a single input row.
type Result struct {
	Row Row

	// Result is nil if Err is set.
	Result *simulation.Result

	// Err is a *ParseError or *simulation.ConfigurationError if the row
	// couldn't be simulated.
	Err error
}

// Status returns 'converged', 'aborted' or 'invalid'.
func (r Result) Status() string {
	if r.Err != nil {
		return "invalid"
	}
	return r.Result.Outcome.String()
}

// Runner executes simulation runs on a bounded pool of workers.
type Runner struct {
	conf *config.Config
	seed uint64
	mode simulation.RoundMode

	metrics *simulation.Metrics
	trace   *TraceWriter

	completed *atomic.Int64
	invalid   *atomic.Int64

	logger log.Logger
}

// NewRunner creates a runner. trace may be nil to disable tracing.
func NewRunner(
	conf *config.Config,
	seed uint64,
	metrics *simulation.Metrics,
	trace *TraceWriter,
	logger log.Logger,
) *Runner {
	// Already verified in Config.Validate.
	mode, _ := simulation.ParseRoundMode(conf.RoundMode)
	return &Runner{
		conf:      conf,
		seed:      seed,
		mode:      mode,
		metrics:   metrics,
		trace:     trace,
		completed: atomic.NewInt64(0),
		invalid:   atomic.NewInt64(0),
		logger:    logger.WithSubsystem("batch"),
	}
}

// Run simulates every row, returning the results in input order.
//
// Invalid rows are reported in their result and don't fail the batch. An
// error is only returned if ctx is cancelled or the trace can't be written.
func (r *Runner) Run(ctx context.Context, rows []Row) ([]Result, error) {
	results := make([]Result, len(rows))
	// Round records per row, written to the trace in input order once every
	// run completes.
	traces := make([][]simulation.RoundRecord, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.conf.Workers)

	for i, row := range rows {
		results[i].Row = row

		if row.Err != nil {
			results[i].Err = row.Err
			r.invalid.Inc()
			continue
		}

		g.Go(func() error {
			result, records, err := r.runRow(ctx, row)
			if errors.Is(err, simulation.ErrInvalidConfig) {
				results[i].Err = err
				r.invalid.Inc()
				return nil
			}
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Line, err)
			}

			results[i].Result = result
			traces[i] = records
			r.completed.Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.trace != nil {
		for i, records := range traces {
			if records == nil {
				continue
			}
			if err := r.trace.Write(rows[i], records); err != nil {
				return nil, fmt.Errorf("trace: %w", err)
			}
		}
	}

	var rowErrs *multierror.Error
	for _, result := range results {
		if result.Err != nil {
			rowErrs = multierror.Append(rowErrs, result.Err)
		}
	}
	if err := rowErrs.ErrorOrNil(); err != nil {
		r.logger.Warn(
			"skipped invalid rows",
			zap.Int("invalid", len(rowErrs.Errors)),
			zap.Error(err),
		)
	}

	return results, nil
}

// Completed returns the number of rows simulated so far.
func (r *Runner) Completed() int64 {
	return r.completed.Load()
}

// Invalid returns the number of rows skipped as invalid so far.
func (r *Runner) Invalid() int64 {
	return r.invalid.Load()
}

// runRow simulates the row. The round records are only returned if tracing
// is enabled.
func (r *Runner) runRow(
	ctx context.Context,
	row Row,
) (*simulation.Result, []simulation.RoundRecord, error) {
	opts := []simulation.Option{
		// Derive the random source from the row index so results don't
		// depend on which worker runs the row.
		simulation.WithRand(rand.New(rand.NewPCG(r.seed, uint64(row.Index)))),
		simulation.WithMaxRounds(r.conf.MaxRounds),
		simulation.WithMaxNodes(r.conf.MaxNodes),
		simulation.WithRoundMode(r.mode),
		simulation.WithMetrics(r.metrics),
		simulation.WithLogger(r.logger),
	}

	var rec *recorder
	if r.trace != nil {
		rec = &recorder{}
		opts = append(opts, simulation.WithObserver(rec))
	}

	driver, err := simulation.NewDriver(row.Config, opts...)
	if err != nil {
		return nil, nil, err
	}

	result, err := driver.Run(ctx)
	if err != nil {
		return nil, nil, err
	}

	var records []simulation.RoundRecord
	if rec != nil {
		records = rec.records
	}

	r.logger.Debug(
		"run complete",
		zap.Int("line", row.Line),
		zap.String("outcome", result.Outcome.String()),
		zap.Int("rounds", result.Rounds),
		zap.Int("exchanges", result.Exchanges),
	)

	return result, records, nil
}
