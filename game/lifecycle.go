package game

import (
	"github.com/looplab/fsm"
)

// Phase is the current stage of a hand. Phases are strictly ordered; the
// only skip allowed is straight to hand completion when a single live
// player remains.
type Phase int32

const (
	PhaseReady Phase = iota // no hand in progress
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseComplete // winners determined, awaiting reset
)

const (
	stateReady    = "ready"
	statePreflop  = "preflop"
	stateFlop     = "flop"
	stateTurn     = "turn"
	stateRiver    = "river"
	stateShowdown = "showdown"
	stateComplete = "complete"
)

const (
	eventStartHand = "startHand"
	eventAdvance   = "advance"
	eventFinish    = "finish"
	eventReset     = "reset"
)

var stateToPhase = map[string]Phase{
	stateReady:    PhaseReady,
	statePreflop:  PhasePreflop,
	stateFlop:     PhaseFlop,
	stateTurn:     PhaseTurn,
	stateRiver:    PhaseRiver,
	stateShowdown: PhaseShowdown,
	stateComplete: PhaseComplete,
}

var phaseToString = map[Phase]string{
	PhaseReady:    stateReady,
	PhasePreflop:  statePreflop,
	PhaseFlop:     stateFlop,
	PhaseTurn:     stateTurn,
	PhaseRiver:    stateRiver,
	PhaseShowdown: stateShowdown,
	PhaseComplete: stateComplete,
}

func (p Phase) String() string {
	return phaseToString[p]
}

var bettingStates = map[string]bool{
	statePreflop: true,
	stateFlop:    true,
	stateTurn:    true,
	stateRiver:   true,
}

// newLifecycle builds the hand lifecycle machine. It is the single gate for
// operation ordering: apply fires an event only after the operation's own
// validation passed, so an event failure here is an ordering violation.
func newLifecycle() *fsm.FSM {
	return fsm.NewFSM(
		stateReady,
		fsm.Events{
			{Name: eventStartHand, Src: []string{stateReady}, Dst: statePreflop},
			{Name: eventAdvance, Src: []string{statePreflop}, Dst: stateFlop},
			{Name: eventAdvance, Src: []string{stateFlop}, Dst: stateTurn},
			{Name: eventAdvance, Src: []string{stateTurn}, Dst: stateRiver},
			{Name: eventAdvance, Src: []string{stateRiver}, Dst: stateShowdown},
			{
				Name: eventFinish,
				Src:  []string{statePreflop, stateFlop, stateTurn, stateRiver, stateShowdown},
				Dst:  stateComplete,
			},
			{Name: eventReset, Src: []string{stateComplete}, Dst: stateReady},
		},
		fsm.Callbacks{},
	)
}
