package game

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/cardroomhq/engine/poker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PlayerSnapshot is the read-only view of one seat. Hole cards are
// included; the presentation layer decides whose cards a viewer may see.
type PlayerSnapshot struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	SeatNo     uint32       `json:"seatNo"`
	Chips      int64        `json:"chips"`
	HoleCards  []poker.Card `json:"holeCards,omitempty"`
	Folded     bool         `json:"folded"`
	AllIn      bool         `json:"allIn"`
	CurrentBet int64        `json:"currentBet"`
	TotalBet   int64        `json:"totalBet"`
	HasActed   bool         `json:"hasActed"`
}

// Snapshot is an immutable view of the table for the UI boundary. Mutating
// a snapshot never touches engine state.
type Snapshot struct {
	Title          string            `json:"title,omitempty"`
	HandNum        uint32            `json:"handNum"`
	Phase          string            `json:"phase"`
	ButtonPos      int               `json:"buttonPos"`
	SmallBlind     int64             `json:"smallBlind"`
	BigBlind       int64             `json:"bigBlind"`
	Pot            int64             `json:"pot"`
	CurrentBet     int64             `json:"currentBet"`
	MinRaise       int64             `json:"minRaise"`
	CommunityCards []poker.Card      `json:"communityCards"`
	ActingPlayerID string            `json:"actingPlayerId,omitempty"`
	Players        []PlayerSnapshot  `json:"players"`
	HandComplete   bool              `json:"handComplete"`
	Pots           []Pot             `json:"pots,omitempty"`
	Winners        []string          `json:"winners,omitempty"`
	WinningHands   map[string]string `json:"winningHands,omitempty"`
}

// Snapshot captures the current table state.
func (g *Game) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(g.players))
	for i, p := range g.players {
		players[i] = PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			SeatNo:     p.SeatNo,
			Chips:      p.Chips,
			HoleCards:  append([]poker.Card(nil), p.HoleCards...),
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			CurrentBet: p.CurrentBet,
			TotalBet:   p.TotalBet,
			HasActed:   p.HasActed,
		}
	}

	actingID, _ := g.CurrentActorID()
	var winningHands map[string]string
	if len(g.winningEvals) > 0 {
		winningHands = make(map[string]string, len(g.winningEvals))
		for id, eval := range g.winningEvals {
			winningHands[id] = eval.String()
		}
	}

	return Snapshot{
		Title:          g.config.Title,
		HandNum:        g.handNum,
		Phase:          g.Phase().String(),
		ButtonPos:      g.buttonPos,
		SmallBlind:     g.config.SmallBlind,
		BigBlind:       g.config.BigBlind,
		Pot:            g.PotTotal(),
		CurrentBet:     g.currentBet,
		MinRaise:       g.minRaise,
		CommunityCards: g.Board(),
		ActingPlayerID: actingID,
		Players:        players,
		HandComplete:   g.handComplete,
		Pots:           g.Pots(),
		Winners:        g.Winners(),
		WinningHands:   winningHands,
	}
}

// ToJSON serializes the snapshot for transport to a presentation layer.
func (s Snapshot) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}
