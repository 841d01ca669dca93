package game

import (
	"github.com/cardroomhq/engine/poker"
	"github.com/cardroomhq/engine/util"
)

// Player is the mutable per-hand record for one seat. Seat positions are
// fixed for a session and stay contiguous (0..N-1); ResetForNextHand
// recompacts them after eliminations.
type Player struct {
	ID         string
	Name       string
	SeatNo     uint32
	Chips      int64
	HoleCards  []poker.Card
	Folded     bool
	AllIn      bool
	CurrentBet int64 // committed this betting round
	TotalBet   int64 // committed this hand; always >= CurrentBet
	HasActed   bool
}

func (p *Player) resetForNewHand() {
	p.HoleCards = nil
	p.Folded = false
	p.AllIn = false
	p.CurrentBet = 0
	p.TotalBet = 0
	p.HasActed = false
}

// canAct reports whether the seat still has decisions to make this hand.
func (p *Player) canAct() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0
}

// commit moves up to amount from the stack into the current bet, flagging
// the player all-in when the stack is exhausted. Returns the chips moved.
func (p *Player) commit(amount int64) int64 {
	moved := util.MinInt64(amount, p.Chips)
	p.Chips -= moved
	p.CurrentBet += moved
	p.TotalBet += moved
	if p.Chips == 0 {
		p.AllIn = true
	}
	return moved
}
