package game

import (
	"sort"

	"github.com/cardroomhq/engine/util"
)

// Pot is one side-pot level: its chips and the players who may win it.
// The sum of all pot amounts for a hand equals the sum of all players'
// total bets for that hand.
type Pot struct {
	Amount            int64    `json:"amount"`
	EligiblePlayerIDs []string `json:"eligiblePlayers"`
}

// Contribution is one player's final stake in a hand.
type Contribution struct {
	PlayerID string
	TotalBet int64
	Folded   bool
}

// CalculateSidePots partitions the money on the table into pots, main pot
// first. It walks the distinct bet levels ascending: each level collects
// (level - prev) from every player whose total reaches it, and only
// non-folded players at the level are eligible. Folded players' dead money
// funds the levels their contribution reaches without granting eligibility.
//
// A level all of whose contributors folded cannot arise from legal action
// sequences; if one appears its chips are merged into the previous pot so
// the conservation invariant holds.
func CalculateSidePots(contributions []Contribution) []Pot {
	levelSet := make(map[int64]bool)
	for _, c := range contributions {
		if c.TotalBet > 0 {
			levelSet[c.TotalBet] = true
		}
	}
	levels := make([]int64, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]Pot, 0, len(levels))
	prev := int64(0)
	for _, level := range levels {
		var amount int64
		var eligible []string
		for _, c := range contributions {
			if c.TotalBet < level {
				continue
			}
			amount += level - prev
			if !c.Folded {
				eligible = append(eligible, c.PlayerID)
			}
		}
		if len(eligible) == 0 && len(pots) > 0 {
			pots[len(pots)-1].Amount += amount
		} else {
			pots = append(pots, Pot{Amount: amount, EligiblePlayerIDs: eligible})
		}
		prev = level
	}
	return pots
}

// DistributePot splits the pot among winners by floor division, the
// remainder going entirely to the first winner. Winner order is the
// caller's deterministic seat order; the remainder rule is a fixed policy,
// not an accident of iteration.
func DistributePot(pot Pot, winnerIDs []string) (map[string]int64, error) {
	if len(winnerIDs) == 0 {
		return nil, NoWinnersError{}
	}
	for _, id := range winnerIDs {
		if !potEligible(pot, id) {
			return nil, WinnerNotFoundError{PlayerID: id}
		}
	}
	shares := util.SplitChips(pot.Amount, len(winnerIDs))
	payouts := make(map[string]int64, len(winnerIDs))
	for i, id := range winnerIDs {
		payouts[id] = shares[i]
	}
	return payouts, nil
}

func potEligible(pot Pot, playerID string) bool {
	for _, id := range pot.EligiblePlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
