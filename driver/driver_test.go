package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomhq/engine/game"
	"github.com/cardroomhq/engine/gamescript"
)

func runScript(t *testing.T, fileName string) *Runner {
	t.Helper()
	script, err := gamescript.ReadGameScript(fileName)
	require.NoError(t, err)
	runner, err := NewRunner(script)
	require.NoError(t, err)
	require.NoError(t, runner.Run())
	return runner
}

func TestRunScriptedGame(t *testing.T) {
	runner := runScript(t, "test_scripts/holdem_3max.yaml")

	g := runner.Game()
	assert.Equal(t, uint32(2), g.HandNum())
	assert.Equal(t, game.PhaseReady, g.Phase())

	// both hands settled, the table is ready for an unscripted hand
	var total int64
	for _, p := range g.Players() {
		total += p.Chips
	}
	assert.Equal(t, int64(300), total)
	require.NoError(t, g.StartHand())
}

func TestRunAllInSidePots(t *testing.T) {
	runner := runScript(t, "test_scripts/allin_sidepots.yaml")

	var total int64
	for _, p := range runner.Game().Players() {
		total += p.Chips
	}
	assert.Equal(t, int64(170), total)
}

func TestRunnerReportsWrongExpectation(t *testing.T) {
	script, err := gamescript.ReadGameScript("test_scripts/holdem_3max.yaml")
	require.NoError(t, err)

	// sabotage the script: hand 1 is a split, not a single winner
	script.Hands[0].Result.Winners = []gamescript.HandWinner{
		{Seat: 0, Receive: 25, Rank: "Straight"},
	}
	runner, err := NewRunner(script)
	require.NoError(t, err)

	err = runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "winner count mismatch")
}

func TestRunnerRejectsOutOfTurnScript(t *testing.T) {
	script, err := gamescript.ReadGameScript("test_scripts/holdem_3max.yaml")
	require.NoError(t, err)

	script.Hands[0].Preflop.SeatActions[0] = gamescript.SeatAction{
		Action: gamescript.Action{Seat: 1, Action: "FOLD"},
	}
	runner, err := NewRunner(script)
	require.NoError(t, err)

	err = runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOLD by seat 1")
}
