package simulation

import (
	"math/rand/v2"

	"github.com/andydunstall/rumour/pkg/log"
)

type options struct {
	rng       *rand.Rand
	maxRounds int
	maxNodes  int
	mode      RoundMode
	observer  Observer
	metrics   *Metrics
	logger    log.Logger
}

type Option interface {
	apply(*options)
}

type randOption struct {
	rng *rand.Rand
}

func (o randOption) apply(opts *options) {
	opts.rng = o.rng
}

// WithRand configures the random source used for peer selection. The driver
// takes ownership of rng. Defaults to a randomly seeded source.
func WithRand(rng *rand.Rand) Option {
	return randOption{rng: rng}
}

// WithSeed configures a deterministic random source from the given seed.
func WithSeed(seed uint64) Option {
	return randOption{rng: rand.New(rand.NewPCG(seed, seed))}
}

type maxRoundsOption int

func (o maxRoundsOption) apply(opts *options) {
	opts.maxRounds = int(o)
}

// WithMaxRounds configures the number of rounds after which the run is
// aborted if it hasn't converged. Defaults to DefaultMaxRounds.
func WithMaxRounds(rounds int) Option {
	return maxRoundsOption(rounds)
}

type maxNodesOption int

func (o maxNodesOption) apply(opts *options) {
	opts.maxNodes = int(o)
}

// WithMaxNodes configures the largest network that may be simulated.
// Configurations with more nodes are rejected with a *ConfigurationError.
// Defaults to DefaultMaxNodes.
func WithMaxNodes(nodes int) Option {
	return maxNodesOption(nodes)
}

type roundModeOption RoundMode

func (o roundModeOption) apply(opts *options) {
	opts.mode = RoundMode(o)
}

// WithRoundMode configures whether exchanges within a round observe each
// other. Defaults to RoundModeSnapshot.
func WithRoundMode(mode RoundMode) Option {
	return roundModeOption(mode)
}

type observerOption struct {
	Observer Observer
}

func (o observerOption) apply(opts *options) {
	opts.observer = o.Observer
}

func WithObserver(observer Observer) Option {
	return observerOption{Observer: observer}
}

type metricsOption struct {
	Metrics *Metrics
}

func (o metricsOption) apply(opts *options) {
	opts.metrics = o.Metrics
}

// WithMetrics configures the metrics to update. Defaults to unregistered
// metrics.
func WithMetrics(metrics *Metrics) Option {
	return metricsOption{Metrics: metrics}
}

type loggerOption struct {
	Logger log.Logger
}

func (o loggerOption) apply(opts *options) {
	opts.logger = o.Logger
}

// WithLogger configures the logger. Defaults to no output.
func WithLogger(logger log.Logger) Option {
	return loggerOption{Logger: logger}
}
