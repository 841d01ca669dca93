package gamescript

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Script is a scripted game: the table configuration, the starting seats
// and a sequence of fully specified hands. Seat numbers in a script are the
// engine's 0-based table positions.
type Script struct {
	Game          Game           `yaml:"game"`
	StartingSeats []StartingSeat `yaml:"starting-seats"`
	Hands         []Hand         `yaml:"hands"`
}

// Game contains the table configuration in the game script.
type Game struct {
	Title      string `yaml:"title"`
	SmallBlind int64  `yaml:"small-blind"`
	BigBlind   int64  `yaml:"big-blind"`
}

// StartingSeat contains an entry in the starting-seats array.
type StartingSeat struct {
	Seat   uint32 `yaml:"seat"`
	Player string `yaml:"player"`
	BuyIn  int64  `yaml:"buy-in"`
}

// Hand contains an entry in the hands array.
type Hand struct {
	Num     uint32       `yaml:"num"`
	Setup   HandSetup    `yaml:"setup"`
	Preflop BettingRound `yaml:"preflop"`
	Flop    BettingRound `yaml:"flop"`
	Turn    BettingRound `yaml:"turn"`
	River   BettingRound `yaml:"river"`
	Result  HandResult   `yaml:"result"`
}

// HandSetup arranges the deck and the button before the hand starts. When
// Auto is set the deck is shuffled instead of scripted and the card fields
// must be empty.
type HandSetup struct {
	Auto      bool        `yaml:"auto"`
	ButtonPos *uint32     `yaml:"button-pos"`
	SeatCards []SeatCards `yaml:"seat-cards"`
	Flop      []string    `yaml:"flop"`
	Turn      string      `yaml:"turn"`
	River     string      `yaml:"river"`
}

// SeatCards scripts the hole cards dealt to one seat.
type SeatCards struct {
	Seat  uint32   `yaml:"seat"`
	Cards []string `yaml:"cards"`
}

// BettingRound is the scripted actions for one street plus the expected
// table state once they are applied.
type BettingRound struct {
	SeatActions []SeatAction             `yaml:"seat-actions"`
	Verify      BettingRoundVerification `yaml:"verify"`
}

// SeatAction wraps one scripted action.
type SeatAction struct {
	Action Action `yaml:"action"`
}

// Action is one player decision.
type Action struct {
	Seat   uint32
	Action string
	Amount int64
}

// UnmarshalYAML parses the compact action expression used in scripts:
//
//	0, FOLD
//	2, RAISE, 30
func (a *Action) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	actionExpr, ok := v.(string)
	if !ok {
		return fmt.Errorf("cannot parse action expression [%v] as string", v)
	}
	tokens := strings.Split(actionExpr, ",")
	if len(tokens) != 2 && len(tokens) != 3 {
		return fmt.Errorf("invalid action expression [%v], need 2 or 3 comma-separated tokens", v)
	}

	trimmed := strings.TrimSpace(tokens[0])
	seatNo, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return errors.Wrapf(err, "cannot convert first token [%s] to seat number", trimmed)
	}

	var amount int64
	if len(tokens) == 3 {
		trimmed := strings.TrimSpace(tokens[2])
		amount, err = strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "cannot convert third token [%s] to amount", trimmed)
		}
	}
	a.Seat = uint32(seatNo)
	a.Action = strings.TrimSpace(tokens[1])
	a.Amount = amount
	return nil
}

// BettingRoundVerification is the expected table state at the end of a
// betting round. Nil fields are not checked.
type BettingRoundVerification struct {
	Board          []string `yaml:"board"`
	Pot            *int64   `yaml:"pot"`
	CurrentBet     *int64   `yaml:"current-bet"`
	MinRaise       *int64   `yaml:"min-raise"`
	NextActionSeat *uint32  `yaml:"next-action-seat"`
}

// HandResult is the expected outcome of the hand. Nil/empty fields are not
// checked.
type HandResult struct {
	ActionEndedAt string         `yaml:"action-ended"`
	Winners       []HandWinner   `yaml:"winners"`
	Pots          []PotResult    `yaml:"pots"`
	Players       []ResultPlayer `yaml:"players"`
}

// HandWinner is one expected winner. Rank is checked only at showdown;
// uncontested winners have no revealed hand.
type HandWinner struct {
	Seat    uint32 `yaml:"seat"`
	Receive int64  `yaml:"receive"`
	Rank    string `yaml:"rank"`
}

// PotResult is one expected settled pot, main pot first.
type PotResult struct {
	Pot        int64    `yaml:"pot"`
	SeatsInPot []uint32 `yaml:"seats"`
}

// ResultPlayer is the expected balance for one seat after payout.
type ResultPlayer struct {
	Seat    uint32        `yaml:"seat"`
	Balance PlayerBalance `yaml:"balance"`
}

type PlayerBalance struct {
	After *int64 `yaml:"after"`
}

// ReadGameScript reads and validates a game script yaml file.
func ReadGameScript(fileName string) (*Script, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading game script file [%s]", fileName)
	}

	var script Script
	if err := yaml.Unmarshal(bytes, &script); err != nil {
		return nil, errors.Wrapf(err, "error parsing yaml file [%s]", fileName)
	}

	if err := script.Validate(); err != nil {
		return nil, errors.Wrapf(err, "error validating script [%s]", fileName)
	}
	return &script, nil
}

// Validate checks the script for internal consistency before any hand is
// run: unique seats and players, action seats that exist, and scripted
// cards without duplicates.
func (s *Script) Validate() error {
	if len(s.StartingSeats) < 2 || len(s.StartingSeats) > 4 {
		return fmt.Errorf("starting-seats must have 2 to 4 entries, have %d", len(s.StartingSeats))
	}

	startingSeats := mapset.NewSet()
	playerNames := mapset.NewSet()
	for _, seat := range s.StartingSeats {
		if seat.Seat >= uint32(len(s.StartingSeats)) {
			return fmt.Errorf("seat number [%d] in starting-seats is out of range", seat.Seat)
		}
		if startingSeats.Contains(seat.Seat) {
			return fmt.Errorf("duplicate seat number [%d] in starting-seats", seat.Seat)
		}
		startingSeats.Add(seat.Seat)
		if playerNames.Contains(seat.Player) {
			return fmt.Errorf("duplicate player name [%s] in starting-seats", seat.Player)
		}
		playerNames.Add(seat.Player)
	}

	for i, hand := range s.Hands {
		handNum := i + 1
		if err := validateHand(hand, startingSeats, handNum); err != nil {
			return err
		}
	}
	return nil
}

func validateHand(hand Hand, validSeats mapset.Set, handNum int) error {
	if !hand.Setup.Auto {
		scriptedCards := mapset.NewSet()
		seatCardSeats := mapset.NewSet()
		for _, seatCards := range hand.Setup.SeatCards {
			if !validSeats.Contains(seatCards.Seat) {
				return fmt.Errorf("seat number [%d] is not valid for hand %d seat-cards", seatCards.Seat, handNum)
			}
			if seatCardSeats.Contains(seatCards.Seat) {
				return fmt.Errorf("duplicate seat number [%d] in hand %d seat-cards", seatCards.Seat, handNum)
			}
			seatCardSeats.Add(seatCards.Seat)
			if len(seatCards.Cards) != 2 {
				return fmt.Errorf("seat [%d] in hand %d must be scripted exactly 2 cards", seatCards.Seat, handNum)
			}
			for _, card := range seatCards.Cards {
				if scriptedCards.Contains(card) {
					return fmt.Errorf("card [%s] appears twice in hand %d", card, handNum)
				}
				scriptedCards.Add(card)
			}
		}

		if len(hand.Setup.Flop) != 3 {
			return fmt.Errorf("hand %d must script exactly 3 flop cards", handNum)
		}
		board := append(append([]string{}, hand.Setup.Flop...), hand.Setup.Turn, hand.Setup.River)
		for _, card := range board {
			if card == "" {
				return fmt.Errorf("hand %d is missing a scripted board card", handNum)
			}
			if scriptedCards.Contains(card) {
				return fmt.Errorf("card [%s] appears twice in hand %d", card, handNum)
			}
			scriptedCards.Add(card)
		}
	}

	rounds := map[string]BettingRound{
		"preflop": hand.Preflop,
		"flop":    hand.Flop,
		"turn":    hand.Turn,
		"river":   hand.River,
	}
	for name, round := range rounds {
		for _, seatAction := range round.SeatActions {
			if !validSeats.Contains(seatAction.Action.Seat) {
				return fmt.Errorf("seat number [%d] is not valid for hand %d %s", seatAction.Action.Seat, handNum, name)
			}
		}
	}
	return nil
}

// GetHand returns the scripted hand by its 1-based number.
func (s *Script) GetHand(handNum uint32) Hand {
	return s.Hands[handNum-1]
}

func (s *Script) GetSeatNoByPlayerName(playerName string) uint32 {
	for _, startingSeat := range s.StartingSeats {
		if startingSeat.Player == playerName {
			return startingSeat.Seat
		}
	}
	return 0
}

func (s *Script) GetInitialBuyInAmount(seatNo uint32) int64 {
	for _, startingSeat := range s.StartingSeats {
		if startingSeat.Seat == seatNo {
			return startingSeat.BuyIn
		}
	}
	return 0
}

// BettingRounds returns the hand's rounds in street order.
func (h Hand) BettingRounds() []BettingRound {
	return []BettingRound{h.Preflop, h.Flop, h.Turn, h.River}
}
