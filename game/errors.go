package game

import "fmt"

// Every error here is a rejected call: the engine never auto-corrects an
// illegal action and the caller must submit a corrected one. State is left
// untouched when any of these is returned.

type NotPlayersTurnError struct {
	PlayerID string
	ActingID string
}

func (e NotPlayersTurnError) Error() string {
	if e.ActingID == "" {
		return fmt.Sprintf("player %s cannot act: no action is pending", e.PlayerID)
	}
	return fmt.Sprintf("not player %s's turn to act (waiting on %s)", e.PlayerID, e.ActingID)
}

type CannotCheckError struct {
	PlayerID     string
	AmountToCall int64
}

func (e CannotCheckError) Error() string {
	return fmt.Sprintf("player %s cannot check facing a bet (%d to call)", e.PlayerID, e.AmountToCall)
}

type NotEnoughPlayersError struct {
	PlayersWithChips int
}

func (e NotEnoughPlayersError) Error() string {
	return fmt.Sprintf("need at least 2 players with chips to start a hand, have %d", e.PlayersWithChips)
}

type TooManySeatsError struct {
	Seats int
}

func (e TooManySeatsError) Error() string {
	return fmt.Sprintf("table supports 2 to 4 seats, got %d", e.Seats)
}

type IncompleteBoardError struct {
	CommunityCards int
}

func (e IncompleteBoardError) Error() string {
	return fmt.Sprintf("showdown needs 5 community cards, have %d", e.CommunityCards)
}

type NoWinnersError struct{}

func (e NoWinnersError) Error() string {
	return "cannot distribute a pot to an empty winner set"
}

type WinnerNotFoundError struct {
	PlayerID string
}

func (e WinnerNotFoundError) Error() string {
	return fmt.Sprintf("winner %s is not eligible for this pot", e.PlayerID)
}

type UnknownPlayerError struct {
	PlayerID string
}

func (e UnknownPlayerError) Error() string {
	return fmt.Sprintf("no player %s at this table", e.PlayerID)
}

type InvalidRaiseError struct {
	PlayerID      string
	NewRoundTotal int64
	MinRaise      int64
}

func (e InvalidRaiseError) Error() string {
	return fmt.Sprintf("player %s cannot raise to %d (minimum raise is %d; smaller totals only as an all-in)",
		e.PlayerID, e.NewRoundTotal, e.MinRaise)
}

type BettingIncompleteError struct {
	Phase string
}

func (e BettingIncompleteError) Error() string {
	return fmt.Sprintf("cannot advance from %s until the betting round is complete", e.Phase)
}

type HandInProgressError struct {
	Phase string
}

func (e HandInProgressError) Error() string {
	return fmt.Sprintf("operation not allowed while a hand is in progress (phase %s)", e.Phase)
}

type NoActionAllowedError struct {
	Phase string
}

func (e NoActionAllowedError) Error() string {
	return fmt.Sprintf("no player action is allowed in phase %s", e.Phase)
}
