package game

import (
	"math/rand"

	"github.com/looplab/fsm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cardroomhq/engine/logging"
	"github.com/cardroomhq/engine/poker"
	"github.com/cardroomhq/engine/util"
)

var handLogger = logging.GetZeroLogger("game::hand", nil)

const (
	// MinSeats and MaxSeats bound the table size (heads-up to four-handed).
	MinSeats = 2
	MaxSeats = 4

	evalCacheSize = 1024
)

// Config holds per-table settings fixed for a session.
type Config struct {
	Title      string
	SmallBlind int64
	BigBlind   int64
}

// Seat describes one player joining the table.
type Seat struct {
	ID    string
	Name  string
	BuyIn int64
}

// ActionType enumerates the legal player decisions.
type ActionType int32

const (
	ActionFold ActionType = iota
	ActionCheck
	ActionCall
	ActionRaise
)

var actionTypeToString = map[ActionType]string{
	ActionFold:  "FOLD",
	ActionCheck: "CHECK",
	ActionCall:  "CALL",
	ActionRaise: "RAISE",
}

func (a ActionType) String() string {
	return actionTypeToString[a]
}

// action is a tagged state transition. Every mutation of the table state
// flows through apply with exactly one of these; each transition validates
// fully before touching state, so a rejected call leaves the game unchanged.
type action interface {
	name() string
}

type startHandAction struct{}

type playerActedAction struct {
	playerID   string
	actionType ActionType
	// newRoundTotal is the player's new total committed bet for the round,
	// not the additional chips being pushed. Raise only.
	newRoundTotal int64
}

type advancePhaseAction struct{}

type determineWinnerAction struct{}

type resetNextHandAction struct{}

func (startHandAction) name() string       { return "startHand" }
func (playerActedAction) name() string     { return "playerActed" }
func (advancePhaseAction) name() string    { return "advancePhase" }
func (determineWinnerAction) name() string { return "determineWinner" }
func (resetNextHandAction) name() string   { return "resetNextHand" }

// Game is the single mutable root owning all table state. It is
// synchronous and single-threaded: each action is applied atomically and
// completely before the next is accepted, and out-of-turn submissions are
// rejected, never queued.
type Game struct {
	config Config
	logger *zerolog.Logger
	sm     *fsm.FSM

	players   []*Player
	buttonPos int
	handNum   uint32

	deck       *poker.Deck
	nextDeck   *poker.Deck
	randSource rand.Source
	evalCache  *poker.EvalCache

	communityCards     []poker.Card
	currentBet         int64
	minRaise           int64
	currentPlayerIndex int
	handComplete       bool
	pots               []Pot
	winners            []string
	winningEvals       map[string]poker.HandEvaluation
}

// Option customizes a new game.
type Option func(*Game)

// WithRandSource injects the random source used for every shuffle, so test
// suites can replay dealt-card sequences deterministically.
func WithRandSource(source rand.Source) Option {
	return func(g *Game) { g.randSource = source }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// NewGame seats the given players with the button at seat 0.
func NewGame(config Config, seats []Seat, options ...Option) (*Game, error) {
	if len(seats) < MinSeats {
		return nil, NotEnoughPlayersError{PlayersWithChips: len(seats)}
	}
	if len(seats) > MaxSeats {
		return nil, TooManySeatsError{Seats: len(seats)}
	}
	if config.SmallBlind <= 0 || config.BigBlind < config.SmallBlind {
		return nil, errors.Errorf("invalid blinds %d/%d", config.SmallBlind, config.BigBlind)
	}

	evalCache, err := poker.NewEvalCache(evalCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "initializing evaluation cache")
	}

	g := &Game{
		config:             config,
		logger:             handLogger,
		sm:                 newLifecycle(),
		evalCache:          evalCache,
		currentPlayerIndex: -1,
	}

	seen := make(map[string]bool, len(seats))
	for i, seat := range seats {
		if seat.ID == "" || seen[seat.ID] {
			return nil, errors.Errorf("seat %d has a missing or duplicate player id", i)
		}
		if seat.BuyIn <= 0 {
			return nil, errors.Errorf("player %s must buy in for a positive amount", seat.ID)
		}
		seen[seat.ID] = true
		g.players = append(g.players, &Player{
			ID:     seat.ID,
			Name:   seat.Name,
			SeatNo: uint32(i),
			Chips:  seat.BuyIn,
		})
	}

	for _, option := range options {
		option(g)
	}
	return g, nil
}

// SetButton moves the dealer button between hands. Used by scripted games.
func (g *Game) SetButton(seatNo uint32) error {
	if g.sm.Current() != stateReady && g.sm.Current() != stateComplete {
		return HandInProgressError{Phase: g.Phase().String()}
	}
	if int(seatNo) >= len(g.players) {
		return errors.Errorf("no seat %d at this table", seatNo)
	}
	g.buttonPos = int(seatNo)
	return nil
}

// SetupDeck installs a pre-arranged deck consumed by the next StartHand.
func (g *Game) SetupDeck(deck *poker.Deck) error {
	if g.sm.Current() != stateReady && g.sm.Current() != stateComplete {
		return HandInProgressError{Phase: g.Phase().String()}
	}
	g.nextDeck = deck
	return nil
}

// StartHand shuffles a fresh deck, posts blinds, deals hole cards and sets
// the first player to act.
func (g *Game) StartHand() error {
	return g.apply(startHandAction{})
}

// PlayerAction applies one decision for the acting player. For raises,
// newRoundTotal is the player's new total committed bet for this round.
func (g *Game) PlayerAction(playerID string, actionType ActionType, newRoundTotal int64) error {
	return g.apply(playerActedAction{playerID: playerID, actionType: actionType, newRoundTotal: newRoundTotal})
}

// AdvancePhase moves to the next betting round, dealing its community
// cards. Only legal once the current betting round is complete.
func (g *Game) AdvancePhase() error {
	return g.apply(advancePhaseAction{})
}

// DetermineWinner resolves the hand: uncontested at any phase when one
// live player remains, otherwise by showdown over a complete board.
func (g *Game) DetermineWinner() error {
	return g.apply(determineWinnerAction{})
}

// ResetForNextHand removes busted players, recompacts seats and rotates
// the button.
func (g *Game) ResetForNextHand() error {
	return g.apply(resetNextHandAction{})
}

func (g *Game) apply(a action) error {
	switch act := a.(type) {
	case startHandAction:
		return g.applyStartHand()
	case playerActedAction:
		return g.applyPlayerAction(act)
	case advancePhaseAction:
		return g.applyAdvancePhase()
	case determineWinnerAction:
		return g.applyDetermineWinner()
	case resetNextHandAction:
		return g.applyResetNextHand()
	default:
		return errors.Errorf("unknown action %s", a.name())
	}
}

func (g *Game) applyStartHand() error {
	if !g.sm.Can(eventStartHand) {
		return HandInProgressError{Phase: g.Phase().String()}
	}
	withChips := 0
	for _, p := range g.players {
		if p.Chips > 0 {
			withChips++
		}
	}
	if withChips < MinSeats {
		return NotEnoughPlayersError{PlayersWithChips: withChips}
	}

	deck := g.nextDeck
	g.nextDeck = nil
	if deck == nil {
		deck = poker.NewDeck(g.randSource)
	}
	g.deck = deck

	for _, p := range g.players {
		p.resetForNewHand()
		if p.Chips == 0 {
			// busted player still seated before a reset sits the hand out
			p.Folded = true
		}
	}
	g.communityCards = nil
	g.pots = nil
	g.winners = nil
	g.winningEvals = nil
	g.handComplete = false
	g.handNum++

	sbPos, bbPos := g.blindPositions(withChips)
	g.players[sbPos].commit(g.config.SmallBlind)
	g.players[bbPos].commit(g.config.BigBlind)
	g.currentBet = g.config.BigBlind
	g.minRaise = g.currentBet + g.config.BigBlind

	// two passes, one card per seat per pass; all-in blind posters are
	// still dealt in
	for pass := 0; pass < 2; pass++ {
		for _, p := range g.players {
			if p.Chips > 0 || p.AllIn {
				cards, err := g.deck.Draw(1)
				if err != nil {
					return errors.Wrap(err, "dealing hole cards")
				}
				p.HoleCards = append(p.HoleCards, cards[0])
			}
		}
	}

	if g.bettingComplete() {
		// blind all-ins can end the round before anyone decides
		g.currentPlayerIndex = -1
	} else {
		g.currentPlayerIndex = g.nextActionable(bbPos + 1)
	}
	if err := g.sm.Event(eventStartHand); err != nil {
		return errors.Wrap(err, "hand lifecycle")
	}

	g.logger.Info().
		Uint32(logging.HandNumKey, g.handNum).
		Int("button", g.buttonPos).
		Int("smallBlindSeat", sbPos).
		Int("bigBlindSeat", bbPos).
		Int64(logging.PotKey, g.potContributions()).
		Msg("Hand started")
	return nil
}

// blindPositions picks the blind seats relative to the button, skipping
// seats without chips. Heads-up, the button posts the small blind.
func (g *Game) blindPositions(withChips int) (int, int) {
	var sbPos int
	if withChips == 2 {
		sbPos = g.nextSeatWithChips(g.buttonPos)
	} else {
		sbPos = g.nextSeatWithChips(g.buttonPos + 1)
	}
	bbPos := g.nextSeatWithChips(sbPos + 1)
	return sbPos, bbPos
}

func (g *Game) applyPlayerAction(act playerActedAction) error {
	state := g.sm.Current()
	if !bettingStates[state] {
		return NoActionAllowedError{Phase: state}
	}
	if g.currentPlayerIndex < 0 {
		return NotPlayersTurnError{PlayerID: act.playerID}
	}
	actor := g.players[g.currentPlayerIndex]
	if actor.ID != act.playerID {
		return NotPlayersTurnError{PlayerID: act.playerID, ActingID: actor.ID}
	}

	var committed int64
	switch act.actionType {
	case ActionFold:
		actor.Folded = true
		actor.HasActed = true

	case ActionCheck:
		if g.currentBet > actor.CurrentBet {
			return CannotCheckError{PlayerID: actor.ID, AmountToCall: g.currentBet - actor.CurrentBet}
		}
		actor.HasActed = true

	case ActionCall:
		committed = actor.commit(g.currentBet - actor.CurrentBet)
		actor.HasActed = true

	case ActionRaise:
		maxTotal := actor.CurrentBet + actor.Chips
		// the requested total is capped at the chips the player has
		newTotal := util.MinInt64(act.newRoundTotal, maxTotal)
		allIn := newTotal == maxTotal
		if newTotal <= actor.CurrentBet {
			return InvalidRaiseError{PlayerID: actor.ID, NewRoundTotal: act.newRoundTotal, MinRaise: g.minRaise}
		}
		if newTotal < g.minRaise && !allIn {
			return InvalidRaiseError{PlayerID: actor.ID, NewRoundTotal: act.newRoundTotal, MinRaise: g.minRaise}
		}
		committed = actor.commit(newTotal - actor.CurrentBet)
		if newTotal > g.currentBet {
			g.currentBet = newTotal
			g.minRaise = g.currentBet + g.config.BigBlind
			// everyone still in the hand must respond to the new bet
			for _, p := range g.players {
				if p != actor && !p.Folded && !p.AllIn {
					p.HasActed = false
				}
			}
		}
		actor.HasActed = true

	default:
		return errors.Errorf("unknown action type %d", act.actionType)
	}

	g.logger.Info().
		Uint32(logging.HandNumKey, g.handNum).
		Uint32(logging.SeatNoKey, actor.SeatNo).
		Str(logging.PlayerNameKey, actor.Name).
		Str(logging.PhaseKey, state).
		Str(logging.ActionKey, act.actionType.String()).
		Int64(logging.AmountKey, committed).
		Msg("Player acted")

	if g.bettingComplete() {
		g.currentPlayerIndex = -1
	} else {
		g.currentPlayerIndex = g.nextActionable(g.currentPlayerIndex + 1)
	}
	return nil
}

func (g *Game) applyAdvancePhase() error {
	state := g.sm.Current()
	if !g.sm.Can(eventAdvance) {
		return NoActionAllowedError{Phase: state}
	}
	if !g.bettingComplete() {
		return BettingIncompleteError{Phase: state}
	}

	if state == stateRiver {
		// showdown: no cards to deal and no further betting
		if err := g.sm.Event(eventAdvance); err != nil {
			return errors.Wrap(err, "hand lifecycle")
		}
		g.logger.Info().Uint32(logging.HandNumKey, g.handNum).Msg("Showdown")
		return nil
	}

	draw := 1
	if state == statePreflop {
		draw = 3
	}
	cards, err := g.deck.Draw(draw)
	if err != nil {
		return errors.Wrap(err, "dealing community cards")
	}
	g.communityCards = append(g.communityCards, cards...)

	for _, p := range g.players {
		p.CurrentBet = 0
		p.HasActed = false
	}
	g.currentBet = 0
	g.minRaise = g.config.BigBlind
	if g.bettingComplete() {
		g.currentPlayerIndex = -1
	} else {
		g.currentPlayerIndex = g.nextActionable(g.buttonPos + 1)
	}

	if err := g.sm.Event(eventAdvance); err != nil {
		return errors.Wrap(err, "hand lifecycle")
	}

	g.logger.Info().
		Uint32(logging.HandNumKey, g.handNum).
		Str(logging.PhaseKey, g.sm.Current()).
		Str("board", poker.CardsToString(g.communityCards)).
		Msg("Phase advanced")
	return nil
}

func (g *Game) applyDetermineWinner() error {
	if !g.sm.Can(eventFinish) {
		return NoActionAllowedError{Phase: g.sm.Current()}
	}

	var live []*Player
	for _, p := range g.players {
		if !p.Folded {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return NoWinnersError{}
	}

	contributions := make([]Contribution, 0, len(g.players))
	for _, p := range g.players {
		if p.TotalBet > 0 {
			contributions = append(contributions, Contribution{PlayerID: p.ID, TotalBet: p.TotalBet, Folded: p.Folded})
		}
	}

	if len(live) == 1 {
		// uncontested: the terminal shortcut applies at any phase
		winner := live[0]
		var total int64
		for _, c := range contributions {
			total += c.TotalBet
		}
		winner.Chips += total
		g.pots = []Pot{{Amount: total, EligiblePlayerIDs: []string{winner.ID}}}
		g.winners = []string{winner.ID}
		g.winningEvals = nil
		g.handComplete = true
		if err := g.sm.Event(eventFinish); err != nil {
			return errors.Wrap(err, "hand lifecycle")
		}
		g.logger.Info().
			Uint32(logging.HandNumKey, g.handNum).
			Str(logging.PlayerNameKey, winner.Name).
			Int64(logging.PotKey, total).
			Msg("Hand won uncontested")
		return nil
	}

	if len(g.communityCards) != 5 {
		return IncompleteBoardError{CommunityCards: len(g.communityCards)}
	}
	for _, p := range live {
		if len(p.HoleCards) != 2 {
			return errors.Errorf("player %s has %d hole cards at showdown", p.ID, len(p.HoleCards))
		}
	}

	evals := make(map[string]poker.HandEvaluation, len(live))
	for _, p := range live {
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, p.HoleCards...)
		cards = append(cards, g.communityCards...)
		evals[p.ID] = g.evalCache.Evaluate(cards)
	}

	// settle every pot before crediting any chips so a failure cannot
	// leave a half-paid hand
	pots := CalculateSidePots(contributions)
	payouts := make(map[string]int64)
	winnerSeen := make(map[string]bool)
	var winners []string
	for _, pot := range pots {
		potEvals := make([]poker.HandEvaluation, len(pot.EligiblePlayerIDs))
		for i, id := range pot.EligiblePlayerIDs {
			potEvals[i] = evals[id]
		}
		// eligible ids are already in seat order, so the first winner of
		// a split gets the odd chips
		winnerIDs := make([]string, 0, 1)
		for _, idx := range poker.DetermineWinners(potEvals) {
			winnerIDs = append(winnerIDs, pot.EligiblePlayerIDs[idx])
		}
		potPayouts, err := DistributePot(pot, winnerIDs)
		if err != nil {
			return errors.Wrap(err, "distributing pot")
		}
		for id, amount := range potPayouts {
			payouts[id] += amount
		}
		for _, id := range winnerIDs {
			if !winnerSeen[id] {
				winnerSeen[id] = true
				winners = append(winners, id)
			}
		}
	}

	winningEvals := make(map[string]poker.HandEvaluation, len(winners))
	for _, p := range g.players {
		if amount, ok := payouts[p.ID]; ok {
			p.Chips += amount
		}
		if winnerSeen[p.ID] {
			winningEvals[p.ID] = evals[p.ID]
		}
	}

	g.pots = pots
	g.winners = winners
	g.winningEvals = winningEvals
	g.handComplete = true
	if err := g.sm.Event(eventFinish); err != nil {
		return errors.Wrap(err, "hand lifecycle")
	}

	for _, id := range winners {
		g.logger.Info().
			Uint32(logging.HandNumKey, g.handNum).
			Str(logging.PlayerIDKey, id).
			Str("hand", winningEvals[id].String()).
			Int64(logging.AmountKey, payouts[id]).
			Msg("Pot awarded")
	}
	return nil
}

func (g *Game) applyResetNextHand() error {
	if !g.sm.Can(eventReset) {
		return HandInProgressError{Phase: g.Phase().String()}
	}

	remaining := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p.Chips > 0 {
			p.resetForNewHand()
			remaining = append(remaining, p)
			continue
		}
		g.logger.Info().
			Str(logging.PlayerNameKey, p.Name).
			Uint32(logging.SeatNoKey, p.SeatNo).
			Msg("Player eliminated")
	}
	for i, p := range remaining {
		p.SeatNo = uint32(i)
	}
	g.players = remaining

	if len(g.players) > 0 {
		g.buttonPos = (g.buttonPos + 1) % len(g.players)
	} else {
		g.buttonPos = 0
	}

	g.communityCards = nil
	g.pots = nil
	g.winners = nil
	g.winningEvals = nil
	g.handComplete = false
	g.currentBet = 0
	g.minRaise = 0
	g.currentPlayerIndex = -1
	g.deck = nil

	if err := g.sm.Event(eventReset); err != nil {
		return errors.Wrap(err, "hand lifecycle")
	}
	return nil
}

// bettingComplete implements the round-complete predicate: at most one
// player who can still act remains, or every such player has acted and
// matched the table bet. Folded and all-in players are exempt from both
// conditions.
func (g *Game) bettingComplete() bool {
	actionable := 0
	for _, p := range g.players {
		if p.canAct() {
			actionable++
		}
	}
	if actionable <= 1 {
		return true
	}
	for _, p := range g.players {
		if !p.canAct() {
			continue
		}
		if !p.HasActed || p.CurrentBet != g.currentBet {
			return false
		}
	}
	return true
}

// nextSeatWithChips scans seats starting at from (inclusive), wrapping.
func (g *Game) nextSeatWithChips(from int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if g.players[idx].Chips > 0 {
			return idx
		}
	}
	return -1
}

// nextActionable scans seats starting at from (inclusive), wrapping;
// returns -1 when nobody can act.
func (g *Game) nextActionable(from int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if g.players[idx].canAct() {
			return idx
		}
	}
	return -1
}

func (g *Game) playerByID(playerID string) *Player {
	for _, p := range g.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (g *Game) potContributions() int64 {
	var total int64
	for _, p := range g.players {
		total += p.TotalBet
	}
	return total
}

// AmountToCall reports the chips the player must still commit to match the
// table bet. Non-mutating.
func (g *Game) AmountToCall(playerID string) (int64, error) {
	p := g.playerByID(playerID)
	if p == nil {
		return 0, UnknownPlayerError{PlayerID: playerID}
	}
	toCall := g.currentBet - p.CurrentBet
	if toCall < 0 {
		toCall = 0
	}
	return toCall, nil
}

// IsBettingComplete reports whether the current betting round is complete.
// Outside a betting round there is nothing pending, so it reports true.
func (g *Game) IsBettingComplete() bool {
	if !bettingStates[g.sm.Current()] {
		return true
	}
	return g.bettingComplete()
}

// Phase returns the current hand phase.
func (g *Game) Phase() Phase {
	return stateToPhase[g.sm.Current()]
}

// CurrentActorID returns the player expected to act, if any.
func (g *Game) CurrentActorID() (string, bool) {
	if g.currentPlayerIndex < 0 || !bettingStates[g.sm.Current()] {
		return "", false
	}
	return g.players[g.currentPlayerIndex].ID, true
}

func (g *Game) CurrentBet() int64 {
	return g.currentBet
}

func (g *Game) MinRaise() int64 {
	return g.minRaise
}

func (g *Game) HandNum() uint32 {
	return g.handNum
}

func (g *Game) IsHandComplete() bool {
	return g.handComplete
}

func (g *Game) ButtonPos() int {
	return g.buttonPos
}

// PotTotal is the money on the table for the current hand; zero once the
// hand completes and the pots are paid out.
func (g *Game) PotTotal() int64 {
	if g.handComplete {
		return 0
	}
	return g.potContributions()
}

// Board returns a copy of the community cards.
func (g *Game) Board() []poker.Card {
	board := make([]poker.Card, len(g.communityCards))
	copy(board, g.communityCards)
	return board
}

// Players returns value copies of all seats in seat order.
func (g *Game) Players() []Player {
	players := make([]Player, len(g.players))
	for i, p := range g.players {
		players[i] = *p
		players[i].HoleCards = append([]poker.Card(nil), p.HoleCards...)
	}
	return players
}

// PlayerByID returns a value copy of one seat.
func (g *Game) PlayerByID(playerID string) (Player, error) {
	p := g.playerByID(playerID)
	if p == nil {
		return Player{}, UnknownPlayerError{PlayerID: playerID}
	}
	player := *p
	player.HoleCards = append([]poker.Card(nil), p.HoleCards...)
	return player, nil
}

// Winners returns the hand's winners, main pot first; empty until the
// hand completes.
func (g *Game) Winners() []string {
	return append([]string(nil), g.winners...)
}

// WinningEvaluations maps winner ids to their best hands; empty for
// uncontested wins.
func (g *Game) WinningEvaluations() map[string]poker.HandEvaluation {
	evals := make(map[string]poker.HandEvaluation, len(g.winningEvals))
	for id, eval := range g.winningEvals {
		evals[id] = eval
	}
	return evals
}

// Pots returns the settled pots, main pot first; empty until the hand
// completes.
func (g *Game) Pots() []Pot {
	pots := make([]Pot, len(g.pots))
	copy(pots, g.pots)
	return pots
}
