package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andydunstall/rumour/pkg/log"
)

// DefaultMaxRounds is the default round cap. Expected convergence is
// O(log n) rounds after voting completes so this is only hit by runs that
// cannot converge.
const DefaultMaxRounds = 500

// DefaultMaxNodes is the default limit on the number of nodes. Each node
// holds up to K votes so memory grows with N*K.
const DefaultMaxNodes = 10000

type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateConverged
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// RoundMode defines whether exchanges within a round observe each other.
type RoundMode int

const (
	// RoundModeSnapshot merges every exchange in a round against the vote
	// sets as they were at the start of the round (after voting).
	RoundModeSnapshot RoundMode = iota
	// RoundModeCascade applies each exchange immediately, so later exchanges
	// in the round see the results of earlier ones.
	RoundModeCascade
)

func (m RoundMode) String() string {
	switch m {
	case RoundModeSnapshot:
		return "snapshot"
	case RoundModeCascade:
		return "cascade"
	default:
		return "unknown"
	}
}

func ParseRoundMode(s string) (RoundMode, error) {
	switch s {
	case "snapshot":
		return RoundModeSnapshot, nil
	case "cascade":
		return RoundModeCascade, nil
	default:
		return 0, fmt.Errorf("unsupported round mode: %s", s)
	}
}

type Outcome int

const (
	// OutcomeConverged means every node reached quorum.
	OutcomeConverged Outcome = iota
	// OutcomeAborted means the round cap was hit before every node reached
	// quorum.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// RoundRecord summarises a single round.
type RoundRecord struct {
	Round int `json:"round" codec:"round"`

	// Voted is the number of designated voters that voted this round.
	Voted int `json:"voted" codec:"voted"`

	// Exchanges is the number of pairwise exchanges performed.
	Exchanges int `json:"exchanges" codec:"exchanges"`

	// NewQuorum is the number of nodes that first reached quorum.
	NewQuorum int `json:"new_quorum" codec:"new_quorum"`

	// QuorumNodes is the total number of nodes with a quorum.
	QuorumNodes int `json:"quorum_nodes" codec:"quorum_nodes"`
}

// Result is the outcome of a simulation run.
type Result struct {
	Config Config

	Outcome Outcome

	// Rounds is the number of rounds executed. If the run was aborted this
	// is the round cap.
	Rounds int

	// Exchanges is the total number of pairwise exchanges performed.
	Exchanges int

	// AverageVotesHeld is the mean vote set size across nodes when the run
	// terminated.
	AverageVotesHeld float64

	// FirstQuorum contains the round each node first reached quorum, or 0
	// if it never did.
	FirstQuorum []int
}

func (r *Result) Converged() bool {
	return r.Outcome == OutcomeConverged
}

// Driver runs a single simulation.
//
// The driver owns every node's vote set and advances the simulation round
// by round until every node holds a quorum or the round cap is hit. A
// driver is single use and not safe for concurrent use.
type Driver struct {
	conf Config

	maxRounds int
	mode      RoundMode

	schedule *Schedule
	peers    *PeerSelector
	quorum   *QuorumTracker

	// sets contains each node's vote set, indexed by node ID.
	sets []VoteSet

	state     State
	round     int
	exchanges int

	observer Observer
	metrics  *Metrics
	logger   log.Logger
}

// NewDriver creates a driver for the given configuration, returning a
// *ConfigurationError if the configuration is invalid.
func NewDriver(conf Config, opts ...Option) (*Driver, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	options := options{
		maxRounds: DefaultMaxRounds,
		maxNodes:  DefaultMaxNodes,
		mode:      RoundModeSnapshot,
		observer:  &nopObserver{},
		logger:    log.NewNopLogger(),
	}
	for _, o := range opts {
		o.apply(&options)
	}
	if options.maxRounds <= 0 {
		return nil, fmt.Errorf("max rounds must be positive: %d", options.maxRounds)
	}
	if conf.N > options.maxNodes {
		return nil, conf.invalid(
			fmt.Sprintf("n exceeds the node limit of %d", options.maxNodes),
		)
	}
	if options.rng == nil {
		options.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if options.metrics == nil {
		options.metrics = NewMetrics()
	}

	schedule, err := NewSchedule(conf)
	if err != nil {
		return nil, err
	}

	return &Driver{
		conf:      conf,
		maxRounds: options.maxRounds,
		mode:      options.mode,
		schedule:  schedule,
		peers:     NewPeerSelector(conf.N, options.rng),
		quorum:    NewQuorumTracker(conf.N),
		sets:      make([]VoteSet, conf.N),
		state:     StateNotStarted,
		observer:  options.observer,
		metrics:   options.metrics,
		logger: options.logger.WithSubsystem("simulation").With(
			zap.Int("n", conf.N),
			zap.Int("k", conf.K),
			zap.Int("voting-steps", conf.VotingSteps),
		),
	}, nil
}

// Run executes rounds until the simulation converges or is aborted.
//
// Returns an error only if ctx is cancelled. Hitting the round cap is not an
// error but a result with OutcomeAborted.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if d.state != StateNotStarted {
		return nil, ErrAlreadyStarted
	}
	d.state = StateRunning

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d.round++
		record := d.step()
		d.observer.OnRound(record)

		d.logger.Debug(
			"round",
			zap.Int("round", record.Round),
			zap.Int("voted", record.Voted),
			zap.Int("exchanges", record.Exchanges),
			zap.Int("quorum-nodes", record.QuorumNodes),
		)

		if d.quorum.AllQuorum() {
			d.state = StateConverged
			return d.result(OutcomeConverged), nil
		}
		if d.round >= d.maxRounds {
			d.state = StateAborted
			d.logger.Warn(
				"round cap exceeded",
				zap.Int("max-rounds", d.maxRounds),
				zap.Int("quorum-nodes", d.quorum.Count()),
			)
			return d.result(OutcomeAborted), nil
		}
	}
}

func (d *Driver) State() State {
	return d.state
}

// Round returns the number of rounds executed so far.
func (d *Driver) Round() int {
	return d.round
}

// VoteSet returns a copy of the given node's vote set.
func (d *Driver) VoteSet(node int) VoteSet {
	return d.sets[node].Clone()
}

// step executes the current round: voting, one exchange per node, then
// quorum detection.
func (d *Driver) step() RoundRecord {
	record := RoundRecord{
		Round: d.round,
	}

	record.Voted = len(d.schedule.Apply(d.round, d.sets))

	switch d.mode {
	case RoundModeCascade:
		record.Exchanges = d.gossipCascade()
	default:
		record.Exchanges = d.gossipSnapshot()
	}
	d.exchanges += record.Exchanges

	reached := d.quorum.Update(d.round, d.sets)
	for _, node := range reached {
		d.observer.OnQuorum(node, d.round)
	}
	record.NewQuorum = len(reached)
	record.QuorumNodes = d.quorum.Count()

	d.metrics.Votes.Add(float64(record.Voted))
	d.metrics.Exchanges.Add(float64(record.Exchanges))
	d.metrics.QuorumNodes.Add(float64(record.NewQuorum))

	return record
}

// gossipSnapshot has every node exchange with a random peer, where each
// exchange reads the vote sets as of the start of the round.
//
// Since the merge inputs only come from the snapshot, applying each merge to
// the live sets immediately is equivalent to applying them all at the end of
// the round.
func (d *Driver) gossipSnapshot() int {
	snapshot := make([]VoteSet, len(d.sets))
	for id := range d.sets {
		snapshot[id] = d.sets[id].Clone()
	}

	exchanges := 0
	for x := range d.sets {
		y, ok := d.peers.Select(x)
		if !ok {
			continue
		}

		merged := Merge(snapshot[x], snapshot[y])
		d.sets[x].Union(merged)
		d.sets[y].Union(merged)
		exchanges++
	}
	return exchanges
}

// gossipCascade has every node exchange with a random peer in node ID
// order, applying each exchange before the next.
func (d *Driver) gossipCascade() int {
	exchanges := 0
	for x := range d.sets {
		y, ok := d.peers.Select(x)
		if !ok {
			continue
		}

		Exchange(&d.sets[x], &d.sets[y])
		exchanges++
	}
	return exchanges
}

func (d *Driver) result(outcome Outcome) *Result {
	votes := 0
	for _, set := range d.sets {
		votes += set.Len()
	}

	d.metrics.Runs.With(prometheus.Labels{
		"outcome": outcome.String(),
	}).Inc()
	d.metrics.Rounds.Observe(float64(d.round))

	d.logger.Debug(
		"simulation complete",
		zap.String("outcome", outcome.String()),
		zap.Int("rounds", d.round),
		zap.Int("exchanges", d.exchanges),
	)

	return &Result{
		Config:           d.conf,
		Outcome:          outcome,
		Rounds:           d.round,
		Exchanges:        d.exchanges,
		AverageVotesHeld: float64(votes) / float64(d.conf.N),
		FirstQuorum:      d.quorum.Rounds(),
	}
}
