package simulation

// Observer receives notifications as a simulation progresses.
//
// Observer is called synchronously from the driver's goroutine so must not
// block.
type Observer interface {
	// OnRound notifies that a round completed.
	OnRound(record RoundRecord)

	// OnQuorum notifies that a node first reached quorum in the given round.
	OnQuorum(node int, round int)
}

type nopObserver struct {
}

func (o *nopObserver) OnRound(_ RoundRecord) {}

func (o *nopObserver) OnQuorum(_ int, _ int) {}

var _ Observer = &nopObserver{}
