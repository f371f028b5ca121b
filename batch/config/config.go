package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/andydunstall/rumour/pkg/log"
	"github.com/andydunstall/rumour/simulation"
)

type TraceConfig struct {
	// Path is the file to write per-round records to. If empty no trace is
	// written.
	Path string `json:"path" yaml:"path"`
}

func (c *TraceConfig) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(
		&c.Path,
		"trace.path",
		c.Path,
		`
File to write a per-round trace of every simulation run to.

Each line is a JSON object containing the input row and the round record,
such as the number of exchanges in the round and the number of nodes that
hold a quorum.`,
	)
}

type MetricsConfig struct {
	// Path is the file to write Prometheus metrics to once the batch
	// completes. If empty no metrics are written.
	Path string `json:"path" yaml:"path"`
}

func (c *MetricsConfig) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(
		&c.Path,
		"metrics.path",
		c.Path,
		`
File to write Prometheus metrics to once the batch completes, using the text
exposition format (such as for the node exporter textfile collector).`,
	)
}

type Config struct {
	// Seed is the random seed. Each run derives its own random source from
	// the seed and its row index, so the output is reproducible regardless of
	// the number of workers. If 0 a random seed is used.
	Seed uint64 `json:"seed" yaml:"seed"`

	// MaxRounds is the number of rounds after which a run that hasn't
	// converged is aborted.
	MaxRounds int `json:"max_rounds" yaml:"max_rounds"`

	// MaxNodes is the largest number of nodes a row may simulate. Rows with
	// more nodes are reported as invalid.
	MaxNodes int `json:"max_nodes" yaml:"max_nodes"`

	// Workers is the number of runs to execute concurrently.
	Workers int `json:"workers" yaml:"workers"`

	// RoundMode is either 'snapshot' or 'cascade'.
	RoundMode string `json:"round_mode" yaml:"round_mode"`

	Trace TraceConfig `json:"trace" yaml:"trace"`

	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	Log log.Config `json:"log" yaml:"log"`
}

func Default() *Config {
	return &Config{
		MaxRounds: simulation.DefaultMaxRounds,
		MaxNodes:  simulation.DefaultMaxNodes,
		Workers:   runtime.NumCPU(),
		RoundMode: simulation.RoundModeSnapshot.String(),
		Log: log.Config{
			Level: "info",
		},
	}
}

func (c *Config) Validate() error {
	if c.MaxRounds <= 0 {
		return fmt.Errorf("max rounds must be positive")
	}
	if c.MaxNodes <= 0 {
		return fmt.Errorf("max nodes must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if _, err := simulation.ParseRoundMode(c.RoundMode); err != nil {
		return fmt.Errorf("round mode: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.Uint64Var(
		&c.Seed,
		"seed",
		c.Seed,
		`
Random seed.

Each simulation run derives its random source from the seed and the index of
its input row, so a batch is reproducible given the same seed regardless of
the number of workers.

If 0 a random seed is chosen and logged.`,
	)
	fs.IntVar(
		&c.MaxRounds,
		"max-rounds",
		c.MaxRounds,
		`
Maximum number of rounds to run a simulation for.

Runs that don't reach quorum on every node within the limit are reported with
status 'aborted'.`,
	)
	fs.IntVar(
		&c.MaxNodes,
		"max-nodes",
		c.MaxNodes,
		`
Maximum number of nodes a simulation run may have.

Memory grows with the number of nodes times the number of voters, so rows
exceeding the limit are reported with status 'invalid' rather than run.`,
	)
	fs.IntVar(
		&c.Workers,
		"workers",
		c.Workers,
		`
Number of simulation runs to execute concurrently. Defaults to the number of
CPUs.`,
	)
	fs.StringVar(
		&c.RoundMode,
		"round-mode",
		c.RoundMode,
		`
Whether exchanges within a round observe each other.

'snapshot' merges every exchange in a round against the vote sets as they
were at the start of the round. 'cascade' applies each exchange immediately,
so later exchanges in the same round see earlier results, which converges
faster.`,
	)

	c.Trace.RegisterFlags(fs)
	c.Metrics.RegisterFlags(fs)
	c.Log.RegisterFlags(fs)
}
