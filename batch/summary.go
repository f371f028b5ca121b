package batch

import (
	"github.com/montanaflynn/stats"
)

// RoundsSummary summarises the rounds of converged runs.
type RoundsSummary struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P99    float64 `json:"p99" yaml:"p99"`
	Max    float64 `json:"max" yaml:"max"`
}

type Summary struct {
	BatchID   string `json:"batch_id" yaml:"batch_id"`
	Seed      uint64 `json:"seed" yaml:"seed"`
	Rows      int    `json:"rows" yaml:"rows"`
	Converged int    `json:"converged" yaml:"converged"`
	Aborted   int    `json:"aborted" yaml:"aborted"`
	Invalid   int    `json:"invalid" yaml:"invalid"`
	Exchanges int    `json:"exchanges" yaml:"exchanges"`

	// Rounds is nil if no runs converged.
	Rounds *RoundsSummary `json:"rounds,omitempty" yaml:"rounds,omitempty"`
}

func Summarize(batchID string, seed uint64, results []Result) Summary {
	summary := Summary{
		BatchID: batchID,
		Seed:    seed,
		Rows:    len(results),
	}

	var rounds stats.Float64Data
	for _, result := range results {
		switch {
		case result.Err != nil:
			summary.Invalid++
		case result.Result.Converged():
			summary.Converged++
			summary.Exchanges += result.Result.Exchanges
			rounds = append(rounds, float64(result.Result.Rounds))
		default:
			summary.Aborted++
			summary.Exchanges += result.Result.Exchanges
		}
	}

	if len(rounds) == 0 {
		return summary
	}

	// The stats functions only fail on empty input.
	mean, _ := stats.Mean(rounds)
	median, _ := stats.Median(rounds)
	p99, _ := stats.Percentile(rounds, 99)
	maxRounds, _ := stats.Max(rounds)
	summary.Rounds = &RoundsSummary{
		Mean:   mean,
		Median: median,
		P99:    p99,
		Max:    maxRounds,
	}
	return summary
}
