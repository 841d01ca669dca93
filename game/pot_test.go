package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func potTotal(pots []Pot) int64 {
	var total int64
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

func TestCalculateSidePotsThreeWayAllIn(t *testing.T) {
	// three players all-in for 20, 50 and 100
	contributions := []Contribution{
		{PlayerID: "a", TotalBet: 20},
		{PlayerID: "b", TotalBet: 50},
		{PlayerID: "c", TotalBet: 100},
	}
	pots := CalculateSidePots(contributions)
	require.Len(t, pots, 3)

	assert.Equal(t, int64(60), pots[0].Amount)
	assert.Equal(t, []string{"a", "b", "c"}, pots[0].EligiblePlayerIDs)

	assert.Equal(t, int64(60), pots[1].Amount)
	assert.Equal(t, []string{"b", "c"}, pots[1].EligiblePlayerIDs)

	assert.Equal(t, int64(50), pots[2].Amount)
	assert.Equal(t, []string{"c"}, pots[2].EligiblePlayerIDs)

	assert.Equal(t, int64(170), potTotal(pots))
}

func TestCalculateSidePotsSingleLevel(t *testing.T) {
	contributions := []Contribution{
		{PlayerID: "a", TotalBet: 30},
		{PlayerID: "b", TotalBet: 30},
		{PlayerID: "c", TotalBet: 30},
	}
	pots := CalculateSidePots(contributions)
	require.Len(t, pots, 1)
	assert.Equal(t, int64(90), pots[0].Amount)
	assert.Equal(t, []string{"a", "b", "c"}, pots[0].EligiblePlayerIDs)
}

func TestCalculateSidePotsDeadMoneyFromFoldedPlayer(t *testing.T) {
	// b folded after committing 40: the money funds the levels it
	// reaches, but b is never eligible
	contributions := []Contribution{
		{PlayerID: "a", TotalBet: 100},
		{PlayerID: "b", TotalBet: 40, Folded: true},
		{PlayerID: "c", TotalBet: 100},
	}
	pots := CalculateSidePots(contributions)
	require.Len(t, pots, 2)

	assert.Equal(t, int64(120), pots[0].Amount)
	assert.Equal(t, []string{"a", "c"}, pots[0].EligiblePlayerIDs)

	assert.Equal(t, int64(120), pots[1].Amount)
	assert.Equal(t, []string{"a", "c"}, pots[1].EligiblePlayerIDs)

	assert.Equal(t, int64(240), potTotal(pots))
}

func TestCalculateSidePotsFoldedShortStack(t *testing.T) {
	contributions := []Contribution{
		{PlayerID: "a", TotalBet: 10, Folded: true},
		{PlayerID: "b", TotalBet: 25},
		{PlayerID: "c", TotalBet: 60},
		{PlayerID: "d", TotalBet: 60},
	}
	pots := CalculateSidePots(contributions)
	require.Len(t, pots, 3)

	// level 10: all four contribute
	assert.Equal(t, int64(40), pots[0].Amount)
	assert.Equal(t, []string{"b", "c", "d"}, pots[0].EligiblePlayerIDs)

	// level 25: b, c, d contribute 15 each
	assert.Equal(t, int64(45), pots[1].Amount)
	assert.Equal(t, []string{"b", "c", "d"}, pots[1].EligiblePlayerIDs)

	// level 60: c and d contribute 35 each
	assert.Equal(t, int64(70), pots[2].Amount)
	assert.Equal(t, []string{"c", "d"}, pots[2].EligiblePlayerIDs)

	assert.Equal(t, int64(155), potTotal(pots))
}

func TestCalculateSidePotsConservation(t *testing.T) {
	testCases := [][]Contribution{
		{{PlayerID: "a", TotalBet: 5}, {PlayerID: "b", TotalBet: 10}},
		{{PlayerID: "a", TotalBet: 7, Folded: true}, {PlayerID: "b", TotalBet: 33}, {PlayerID: "c", TotalBet: 33}},
		{{PlayerID: "a", TotalBet: 1}, {PlayerID: "b", TotalBet: 2}, {PlayerID: "c", TotalBet: 3}, {PlayerID: "d", TotalBet: 4}},
		{{PlayerID: "a", TotalBet: 100, Folded: true}, {PlayerID: "b", TotalBet: 50}},
	}
	for _, contributions := range testCases {
		var total int64
		for _, c := range contributions {
			total += c.TotalBet
		}
		pots := CalculateSidePots(contributions)
		assert.Equal(t, total, potTotal(pots), "contributions %+v", contributions)
	}
}

func TestCalculateSidePotsIgnoresZeroContribution(t *testing.T) {
	contributions := []Contribution{
		{PlayerID: "a", TotalBet: 0},
		{PlayerID: "b", TotalBet: 10},
		{PlayerID: "c", TotalBet: 10},
	}
	pots := CalculateSidePots(contributions)
	require.Len(t, pots, 1)
	assert.Equal(t, int64(20), pots[0].Amount)
	assert.Equal(t, []string{"b", "c"}, pots[0].EligiblePlayerIDs)
}

func TestDistributePotEvenSplit(t *testing.T) {
	pot := Pot{Amount: 100, EligiblePlayerIDs: []string{"a", "b", "c"}}
	payouts, err := DistributePot(pot, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 50, "b": 50}, payouts)
}

func TestDistributePotRemainderGoesToFirstWinner(t *testing.T) {
	pot := Pot{Amount: 101, EligiblePlayerIDs: []string{"a", "b", "c"}}
	payouts, err := DistributePot(pot, []string{"b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"b": 51, "c": 50}, payouts)

	payouts, err = DistributePot(Pot{Amount: 100, EligiblePlayerIDs: []string{"a", "b", "c"}}, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 34, "b": 33, "c": 33}, payouts)
}

func TestDistributePotErrors(t *testing.T) {
	pot := Pot{Amount: 100, EligiblePlayerIDs: []string{"a", "b"}}

	_, err := DistributePot(pot, nil)
	assert.IsType(t, NoWinnersError{}, err)

	_, err = DistributePot(pot, []string{"z"})
	require.IsType(t, WinnerNotFoundError{}, err)
	assert.Equal(t, "z", err.(WinnerNotFoundError).PlayerID)
}
