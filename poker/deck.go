package poker

import (
	"fmt"
	"math/rand"

	"github.com/cardroomhq/engine/util/random"
)

var fullDeck *Deck

func init() {
	fullDeck = &Deck{cards: initializeFullCards()}
}

// InsufficientCardsError is returned when a draw asks for more cards than
// remain in the deck.
type InsufficientCardsError struct {
	Requested int
	Remaining int
}

func (e InsufficientCardsError) Error() string {
	return fmt.Sprintf("cannot draw %d cards, only %d remaining in deck", e.Requested, e.Remaining)
}

// Deck is an ordered sequence of unique cards, consumed from the front.
type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

// NewDeck returns a full 52-card deck shuffled with the given source.
// A nil source gets a crypto-seeded xoshiro256** source; tests inject a
// fixed-seed source so deals replay exactly.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = random.NewSource()
	}
	deck := &Deck{randGen: rand.New(source)}
	deck.Shuffle()
	return deck
}

// NewDeckNoShuffle returns a full deck in canonical suit-major order.
func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	return deck
}

// Shuffle resets the deck to 52 cards and applies a Fisher-Yates
// permutation using the deck's own random source.
func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)

	if deck.randGen == nil {
		deck.randGen = rand.New(random.NewSource())
	}
	for i := len(deck.cards) - 1; i > 0; i-- {
		j := deck.randGen.Intn(i + 1)
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	}

	return deck
}

// Draw removes and returns n cards from the front of the deck.
func (deck *Deck) Draw(n int) ([]Card, error) {
	if n > len(deck.cards) {
		return nil, InsufficientCardsError{Requested: n, Remaining: len(deck.cards)}
	}
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) GetBytes() []uint8 {
	cards := make([]byte, len(deck.cards))
	for i, card := range deck.cards {
		cards[i] = card.GetByte()
	}
	return cards
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card

	for _, suit := range []string{"s", "h", "d", "c"} {
		for _, rank := range strRanks {
			cards = append(cards, NewCard(string(rank)+suit))
		}
	}

	return cards
}

// CardsInAscii is a scripted set of cards, e.g. {"Ah", "Kh"}.
type CardsInAscii []string

// DeckFromScript arranges a deck so that interleaved hole-card dealing
// (one card per seat per pass) followed by flop/turn/river tranches
// reproduces the scripted cards. The rest of the deck stays shuffled.
func DeckFromScript(seatCards []CardsInAscii, flop CardsInAscii, turn string, river string, source rand.Source) (*Deck, error) {
	deck := NewDeck(source)
	numSeats := len(seatCards)
	for seat, cards := range seatCards {
		for pass, cardStr := range cards {
			deckIndex := pass*numSeats + seat
			if err := deck.placeCard(NewCard(cardStr), deckIndex); err != nil {
				return nil, err
			}
		}
	}

	// board tranches follow the hole cards, dealt without burns
	deckIndex := numSeats * 2
	for _, cardStr := range flop {
		if err := deck.placeCard(NewCard(cardStr), deckIndex); err != nil {
			return nil, err
		}
		deckIndex++
	}
	if err := deck.placeCard(NewCard(turn), deckIndex); err != nil {
		return nil, err
	}
	deckIndex++
	if err := deck.placeCard(NewCard(river), deckIndex); err != nil {
		return nil, err
	}

	return deck, nil
}

// placeCard swaps the card into the target index, keeping the deck a
// permutation of the full 52.
func (deck *Deck) placeCard(card Card, deckIndex int) error {
	cardLoc := deck.getCardLoc(card)
	if cardLoc < 0 {
		return fmt.Errorf("card %s is not in the deck; scripted twice?", card.String())
	}
	deck.cards[cardLoc] = deck.cards[deckIndex]
	deck.cards[deckIndex] = card
	return nil
}

func (deck *Deck) getCardLoc(cardToLocate Card) int {
	for i, card := range deck.cards {
		if card == cardToLocate {
			return i
		}
	}
	return -1
}
