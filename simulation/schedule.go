package simulation

// Schedule decides which designated voters cast their vote in each round.
//
// Voters are nodes 0 to k-1 and vote in ID order. Rounds are numbered from
// 1. With fewer voting steps than voters each step introduces k/votingSteps
// voters and the last step takes the remainder. Otherwise one voter votes per
// round until all k have voted.
type Schedule struct {
	// starts[i] is the first voter of round i+1 and starts[i+1] is one past
	// its last voter.
	starts []int
}

// NewSchedule returns the voting schedule of the given configuration. Only K
// and VotingSteps affect the schedule.
func NewSchedule(conf Config) (*Schedule, error) {
	if conf.K <= 0 || conf.VotingSteps <= 0 {
		return nil, conf.invalid("schedule requires positive k and voting_steps")
	}

	k := conf.K
	steps := min(conf.VotingSteps, k)
	perStep := k / steps

	starts := make([]int, 0, steps+1)
	for i := 0; i != steps; i++ {
		starts = append(starts, i*perStep)
	}
	// The last step absorbs the remainder.
	starts = append(starts, k)

	return &Schedule{
		starts: starts,
	}, nil
}

// Rounds returns the last round that introduces votes.
func (s *Schedule) Rounds() int {
	return len(s.starts) - 1
}

// Voters returns the nodes that vote in the given round.
func (s *Schedule) Voters(round int) []int {
	if round < 1 || round > s.Rounds() {
		return nil
	}

	var voters []int
	for id := s.starts[round-1]; id != s.starts[round]; id++ {
		voters = append(voters, id)
	}
	return voters
}

// Apply adds each voter of the round to its own vote set and returns the
// voters.
func (s *Schedule) Apply(round int, sets []VoteSet) []int {
	voters := s.Voters(round)
	for _, id := range voters {
		sets[id].Add(id)
	}
	return voters
}
