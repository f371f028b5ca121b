package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned (wrapped by ConfigurationError) when a
	// configuration cannot be simulated.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAlreadyStarted is returned when running a driver more than once.
	ErrAlreadyStarted = errors.New("simulation already started")
)

// ConfigurationError describes why a configuration was rejected.
type ConfigurationError struct {
	Config Config
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"invalid configuration: n=%d k=%d voting_steps=%d: %s",
		e.Config.N, e.Config.K, e.Config.VotingSteps, e.Reason,
	)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}
