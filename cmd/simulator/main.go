package main

import (
	"flag"
	"math/rand"
	"os"

	"github.com/cardroomhq/engine/driver"
	"github.com/cardroomhq/engine/game"
	"github.com/cardroomhq/engine/gamescript"
	"github.com/cardroomhq/engine/logging"
	"github.com/cardroomhq/engine/util/random"
)

var (
	cmdArgs    arg
	mainLogger = logging.GetZeroLogger("main::main", nil)
)

type arg struct {
	scriptFile string
	numPlayers int
	numHands   int
	seed       int64
	smallBlind int64
	bigBlind   int64
	buyIn      int64
}

func init() {
	flag.StringVar(&cmdArgs.scriptFile, "script", "", "Game script YAML file. When set, the script is run instead of a random simulation.")
	flag.IntVar(&cmdArgs.numPlayers, "players", 4, "Number of players (2-4)")
	flag.IntVar(&cmdArgs.numHands, "hands", 100, "Number of hands to simulate")
	flag.Int64Var(&cmdArgs.seed, "seed", 0, "Random seed. 0 picks a crypto seed.")
	flag.Int64Var(&cmdArgs.smallBlind, "small-blind", 5, "Small blind")
	flag.Int64Var(&cmdArgs.bigBlind, "big-blind", 10, "Big blind")
	flag.Int64Var(&cmdArgs.buyIn, "buy-in", 1000, "Buy-in per player")
	flag.Parse()
}

func main() {
	os.Exit(simulator())
}

func simulator() int {
	if cmdArgs.scriptFile != "" {
		return runScript()
	}
	return simulate()
}

func runScript() int {
	mainLogger.Info().Msgf("Game script file: %s", cmdArgs.scriptFile)
	script, err := gamescript.ReadGameScript(cmdArgs.scriptFile)
	if err != nil {
		mainLogger.Error().Msgf("Error while parsing script file: %+v", err)
		return 1
	}
	runner, err := driver.NewRunner(script)
	if err != nil {
		mainLogger.Error().Msgf("Error while creating a script runner: %+v", err)
		return 1
	}
	if err := runner.Run(); err != nil {
		mainLogger.Error().Msgf("Script failed: %+v", err)
		return 1
	}
	mainLogger.Info().Msgf("Script %s passed", cmdArgs.scriptFile)
	return 0
}

var seatNames = []string{"alice", "bob", "carol", "dave"}

func simulate() int {
	if cmdArgs.numPlayers < game.MinSeats || cmdArgs.numPlayers > game.MaxSeats {
		mainLogger.Error().Msgf("Invalid player count %d", cmdArgs.numPlayers)
		return 1
	}

	seed := cmdArgs.seed
	if seed == 0 {
		seed = random.NewSeed()
	}
	mainLogger.Info().Msgf("Simulating %d hands, %d players, seed %d", cmdArgs.numHands, cmdArgs.numPlayers, seed)

	seats := make([]game.Seat, cmdArgs.numPlayers)
	for i := range seats {
		seats[i] = game.Seat{ID: seatNames[i], Name: seatNames[i], BuyIn: cmdArgs.buyIn}
	}
	g, err := game.NewGame(
		game.Config{Title: "simulation", SmallBlind: cmdArgs.smallBlind, BigBlind: cmdArgs.bigBlind},
		seats,
		game.WithRandSource(random.NewSeededSource(seed)),
	)
	if err != nil {
		mainLogger.Error().Msgf("Error while creating the game: %+v", err)
		return 1
	}

	r := rand.New(random.NewSeededSource(seed + 1))
	total := cmdArgs.buyIn * int64(cmdArgs.numPlayers)
	handsPlayed := 0
	for hand := 0; hand < cmdArgs.numHands; hand++ {
		if err := g.StartHand(); err != nil {
			mainLogger.Info().Msgf("Stopping after %d hands: %s", handsPlayed, err)
			break
		}
		if err := playHand(g, r); err != nil {
			mainLogger.Error().Msgf("Hand %d failed: %+v", g.HandNum(), err)
			return 1
		}
		if onTable := chipsOnTable(g); onTable != total {
			mainLogger.Error().Msgf("Chips not conserved after hand %d: have %d, want %d", g.HandNum(), onTable, total)
			return 1
		}
		handsPlayed++
		if err := g.ResetForNextHand(); err != nil {
			mainLogger.Error().Msgf("Reset failed: %+v", err)
			return 1
		}
	}

	mainLogger.Info().Msgf("Simulated %d hands, chips conserved at %d", handsPlayed, total)
	for _, p := range g.Players() {
		mainLogger.Info().Msgf("%s finished with %d", p.Name, p.Chips)
	}
	return 0
}

// playHand drives one hand to completion with a naive mixed policy.
func playHand(g *game.Game, r *rand.Rand) error {
	for !g.IsHandComplete() {
		if liveCount(g) == 1 || g.Phase() == game.PhaseShowdown {
			if err := g.DetermineWinner(); err != nil {
				return err
			}
			continue
		}
		if g.IsBettingComplete() {
			if err := g.AdvancePhase(); err != nil {
				return err
			}
			continue
		}

		id, ok := g.CurrentActorID()
		if !ok {
			continue
		}
		toCall, err := g.AmountToCall(id)
		if err != nil {
			return err
		}
		switch {
		case toCall == 0 && r.Intn(10) < 3:
			err = g.PlayerAction(id, game.ActionRaise, g.MinRaise())
		case toCall == 0:
			err = g.PlayerAction(id, game.ActionCheck, 0)
		case r.Intn(10) < 2:
			err = g.PlayerAction(id, game.ActionFold, 0)
		default:
			err = g.PlayerAction(id, game.ActionCall, 0)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func liveCount(g *game.Game) int {
	live := 0
	for _, p := range g.Players() {
		if !p.Folded {
			live++
		}
	}
	return live
}

func chipsOnTable(g *game.Game) int64 {
	total := g.PotTotal()
	for _, p := range g.Players() {
		total += p.Chips
	}
	return total
}
