package driver

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cardroomhq/engine/game"
	"github.com/cardroomhq/engine/gamescript"
	"github.com/cardroomhq/engine/logging"
	"github.com/cardroomhq/engine/poker"
)

var runnerLogger = logging.GetZeroLogger("driver::runner", nil)

var actionTypes = map[string]game.ActionType{
	"FOLD":  game.ActionFold,
	"CHECK": game.ActionCheck,
	"CALL":  game.ActionCall,
	"RAISE": game.ActionRaise,
	"BET":   game.ActionRaise,
}

// Runner plays a scripted game against the engine and verifies every table
// state the script asserts. Script seats are resolved to player ids each
// hand, so scripts keep working across eliminations and seat recompaction.
type Runner struct {
	script *gamescript.Script
	game   *game.Game
	logger *zerolog.Logger

	seatToID map[uint32]string
	idToSeat map[string]uint32
}

// NewRunner seats the script's players with generated ids.
func NewRunner(script *gamescript.Script) (*Runner, error) {
	seats := make([]game.Seat, len(script.StartingSeats))
	for _, startingSeat := range script.StartingSeats {
		seats[startingSeat.Seat] = game.Seat{
			ID:    uuid.New().String(),
			Name:  startingSeat.Player,
			BuyIn: startingSeat.BuyIn,
		}
	}

	g, err := game.NewGame(game.Config{
		Title:      script.Game.Title,
		SmallBlind: script.Game.SmallBlind,
		BigBlind:   script.Game.BigBlind,
	}, seats)
	if err != nil {
		return nil, errors.Wrap(err, "creating game from script")
	}

	r := &Runner{
		script: script,
		game:   g,
		logger: runnerLogger,
	}
	r.refreshSeats()
	return r, nil
}

// Game exposes the underlying table, mainly for assertions after Run.
func (r *Runner) Game() *game.Game {
	return r.game
}

// Run plays every scripted hand in order.
func (r *Runner) Run() error {
	for i := range r.script.Hands {
		if err := r.runHand(r.script.Hands[i]); err != nil {
			return errors.Wrapf(err, "hand %d", i+1)
		}
	}
	return nil
}

func (r *Runner) refreshSeats() {
	r.seatToID = make(map[uint32]string)
	r.idToSeat = make(map[string]uint32)
	for _, p := range r.game.Players() {
		r.seatToID[p.SeatNo] = p.ID
		r.idToSeat[p.ID] = p.SeatNo
	}
}

func (r *Runner) runHand(hand gamescript.Hand) error {
	if hand.Setup.ButtonPos != nil {
		if err := r.game.SetButton(*hand.Setup.ButtonPos); err != nil {
			return errors.Wrap(err, "moving button")
		}
	}
	if !hand.Setup.Auto {
		deck, err := r.buildDeck(hand.Setup)
		if err != nil {
			return err
		}
		if err := r.game.SetupDeck(deck); err != nil {
			return errors.Wrap(err, "installing scripted deck")
		}
	}

	if err := r.game.StartHand(); err != nil {
		return errors.Wrap(err, "starting hand")
	}
	r.logger.Info().
		Uint32(logging.HandNumKey, r.game.HandNum()).
		Str("script", r.script.Game.Title).
		Msg("Running scripted hand")

	streets := []string{"preflop", "flop", "turn", "river"}
	for i, round := range hand.BettingRounds() {
		if r.liveCount() <= 1 {
			break
		}
		if err := r.playRound(round, streets[i]); err != nil {
			return err
		}
		if r.liveCount() > 1 {
			if err := r.game.AdvancePhase(); err != nil {
				return errors.Wrapf(err, "advancing past %s", streets[i])
			}
		}
	}

	preShowdownChips := make(map[uint32]int64)
	for _, p := range r.game.Players() {
		preShowdownChips[p.SeatNo] = p.Chips
	}
	actionEndedAt := r.game.Phase().String()
	if err := r.game.DetermineWinner(); err != nil {
		return errors.Wrap(err, "determining winner")
	}
	if err := r.verifyResult(hand.Result, actionEndedAt, preShowdownChips); err != nil {
		return err
	}

	if err := r.game.ResetForNextHand(); err != nil {
		return errors.Wrap(err, "resetting for next hand")
	}
	r.refreshSeats()
	return nil
}

func (r *Runner) playRound(round gamescript.BettingRound, street string) error {
	for _, seatAction := range round.SeatActions {
		act := seatAction.Action
		playerID, ok := r.seatToID[act.Seat]
		if !ok {
			return errors.Errorf("no player in seat %d [%s]", act.Seat, street)
		}
		actionType, ok := actionTypes[act.Action]
		if !ok {
			return errors.Errorf("unknown action [%s] for seat %d [%s]", act.Action, act.Seat, street)
		}
		if err := r.game.PlayerAction(playerID, actionType, act.Amount); err != nil {
			return errors.Wrapf(err, "%s by seat %d [%s]", act.Action, act.Seat, street)
		}
	}
	return r.verifyRound(round.Verify, street)
}

func (r *Runner) buildDeck(setup gamescript.HandSetup) (*poker.Deck, error) {
	players := r.game.Players()
	seatCards := make([]poker.CardsInAscii, len(players))
	for _, sc := range setup.SeatCards {
		if int(sc.Seat) >= len(players) {
			return nil, errors.Errorf("scripted cards for unknown seat %d", sc.Seat)
		}
		seatCards[sc.Seat] = sc.Cards
	}
	for seatNo, cards := range seatCards {
		if cards == nil {
			return nil, errors.Errorf("no scripted cards for seat %d", seatNo)
		}
	}
	deck, err := poker.DeckFromScript(seatCards, setup.Flop, setup.Turn, setup.River, nil)
	if err != nil {
		return nil, errors.Wrap(err, "arranging scripted deck")
	}
	return deck, nil
}

func (r *Runner) liveCount() int {
	live := 0
	for _, p := range r.game.Players() {
		if !p.Folded {
			live++
		}
	}
	return live
}

func (r *Runner) verifyRound(v gamescript.BettingRoundVerification, street string) error {
	if len(v.Board) > 0 {
		want := poker.CardsToString(poker.NewCards(v.Board))
		got := poker.CardsToString(r.game.Board())
		if diff := cmp.Diff(want, got); diff != "" {
			return errors.Errorf("board mismatch [%s] (-want +got):\n%s", street, diff)
		}
	}
	if v.Pot != nil && r.game.PotTotal() != *v.Pot {
		return errors.Errorf("pot mismatch [%s]: want %d, got %d", street, *v.Pot, r.game.PotTotal())
	}
	if v.CurrentBet != nil && r.game.CurrentBet() != *v.CurrentBet {
		return errors.Errorf("current bet mismatch [%s]: want %d, got %d", street, *v.CurrentBet, r.game.CurrentBet())
	}
	if v.MinRaise != nil && r.game.MinRaise() != *v.MinRaise {
		return errors.Errorf("min raise mismatch [%s]: want %d, got %d", street, *v.MinRaise, r.game.MinRaise())
	}
	if v.NextActionSeat != nil {
		actingID, ok := r.game.CurrentActorID()
		if !ok {
			return errors.Errorf("no player to act [%s], want seat %d", street, *v.NextActionSeat)
		}
		if got := r.idToSeat[actingID]; got != *v.NextActionSeat {
			return errors.Errorf("next action seat mismatch [%s]: want %d, got %d", street, *v.NextActionSeat, got)
		}
	}
	return nil
}

func (r *Runner) verifyResult(result gamescript.HandResult, actionEndedAt string, preShowdownChips map[uint32]int64) error {
	if result.ActionEndedAt != "" && result.ActionEndedAt != actionEndedAt {
		return errors.Errorf("action ended at %s, script expected %s", actionEndedAt, result.ActionEndedAt)
	}

	if len(result.Winners) > 0 {
		winnerIDs := r.game.Winners()
		if len(winnerIDs) != len(result.Winners) {
			return errors.Errorf("winner count mismatch: want %d, got %d", len(result.Winners), len(winnerIDs))
		}
		wonBy := make(map[uint32]bool, len(winnerIDs))
		for _, id := range winnerIDs {
			wonBy[r.idToSeat[id]] = true
		}
		evals := r.game.WinningEvaluations()
		for _, winner := range result.Winners {
			if !wonBy[winner.Seat] {
				return errors.Errorf("seat %d did not win", winner.Seat)
			}
			p, err := r.game.PlayerByID(r.seatToID[winner.Seat])
			if err != nil {
				return err
			}
			received := p.Chips - preShowdownChips[winner.Seat]
			if received != winner.Receive {
				return errors.Errorf("seat %d received %d, script expected %d", winner.Seat, received, winner.Receive)
			}
			if winner.Rank != "" {
				eval, ok := evals[p.ID]
				if !ok {
					return errors.Errorf("seat %d has no revealed hand to rank", winner.Seat)
				}
				if eval.Category.String() != winner.Rank {
					return errors.Errorf("seat %d won with %s, script expected %s", winner.Seat, eval.Category, winner.Rank)
				}
			}
		}
	}

	if len(result.Pots) > 0 {
		got := make([]gamescript.PotResult, 0, len(r.game.Pots()))
		for _, pot := range r.game.Pots() {
			seats := make([]uint32, 0, len(pot.EligiblePlayerIDs))
			for _, id := range pot.EligiblePlayerIDs {
				seats = append(seats, r.idToSeat[id])
			}
			got = append(got, gamescript.PotResult{Pot: pot.Amount, SeatsInPot: seats})
		}
		if diff := cmp.Diff(result.Pots, got); diff != "" {
			return errors.Errorf("pots mismatch (-want +got):\n%s", diff)
		}
	}

	for _, resultPlayer := range result.Players {
		if resultPlayer.Balance.After == nil {
			continue
		}
		p, err := r.game.PlayerByID(r.seatToID[resultPlayer.Seat])
		if err != nil {
			return err
		}
		if p.Chips != *resultPlayer.Balance.After {
			return errors.Errorf("seat %d balance is %d, script expected %d", resultPlayer.Seat, p.Chips, *resultPlayer.Balance.After)
		}
	}
	return nil
}
