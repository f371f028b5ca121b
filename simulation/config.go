package simulation

// Config is the configuration of a single simulation run.
type Config struct {
	// N is the number of nodes in the network.
	N int `json:"n" yaml:"n" codec:"n"`

	// K is the number of designated voters. Voters are nodes 0 to K-1.
	K int `json:"k" yaml:"k" codec:"k"`

	// VotingSteps is the number of rounds the K votes are spread over.
	VotingSteps int `json:"voting_steps" yaml:"voting_steps" codec:"voting_steps"`
}

// Validate returns a *ConfigurationError if the configuration cannot reach
// quorum or is malformed.
func (c Config) Validate() error {
	switch {
	case c.N <= 0:
		return c.invalid("n must be positive")
	case c.K <= 0:
		return c.invalid("k must be positive")
	case c.K > c.N:
		return c.invalid("k exceeds the number of nodes")
	case c.K*2 <= c.N:
		return c.invalid("k must be a strict majority of n")
	case c.VotingSteps <= 0:
		return c.invalid("voting_steps must be positive")
	case c.VotingSteps > c.K:
		return c.invalid("voting_steps exceeds k")
	}
	return nil
}

func (c Config) invalid(reason string) error {
	return &ConfigurationError{Config: c, Reason: reason}
}
