package poker

import (
	"fmt"
	"strings"
)

// Card packs rank and suit into an int32:
//
//	xxxbbbbb bbbbbbbb ssssrrrr xxxxxxxx
//
// b = bit set at the rank position (used for straight detection)
// s = suit (s=1, h=2, d=4, c=8)
// r = rank (0: deuce .. 12: ace)
type Card int32

var (
	strRanks = "23456789TJQKA"

	charRankToIntRank = map[uint8]int32{}
	charSuitToIntSuit = map[uint8]int32{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"
)

var prettySuits = map[int32]string{
	1: "♠", // spades
	2: "❤", // hearts
	4: "♦", // diamonds
	8: "♣", // clubs
}

func init() {
	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = int32(i)
	}
}

// NewCard parses a two-character card string such as "As" or "Td".
func NewCard(s string) Card {
	rankInt := charRankToIntRank[s[0]]
	suitInt := charSuitToIntSuit[s[1]]

	bitRank := int32(1) << uint32(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank)
}

// NewCardFromByte builds a card from its compact byte form
// (high 4 bits rank, low 4 bits suit).
func NewCardFromByte(cardByte uint8) Card {
	rankInt := int32(cardByte >> 4)
	suitInt := int32(cardByte & 0xF)

	bitRank := int32(1) << uint32(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank)
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	*c = NewCard(string(b[1:3]))
	return nil
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

// Rank returns the rank ordinal, 0 (deuce) through 12 (ace).
func (c Card) Rank() int32 {
	return (int32(c) >> 8) & 0xF
}

// RankValue returns the rank as a card value, 2 through 14 (ace high).
func (c Card) RankValue() int32 {
	return c.Rank() + 2
}

func (c Card) Suit() int32 {
	return (int32(c) >> 12) & 0xF
}

func (c Card) BitRank() int32 {
	return (int32(c) >> 16) & 0x1FFF
}

func (c Card) GetByte() uint8 {
	return uint8((c.Rank() << 4) | c.Suit())
}

// CardToString renders a card with a pretty suit glyph for logs.
func CardToString(card Card) string {
	return fmt.Sprintf("%s%s", string(strRanks[card.Rank()]), prettySuits[card.Suit()])
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", CardToString(c))
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}

// NewCards parses a list of card strings. Used by scripted decks and tests.
func NewCards(cardStrs []string) []Card {
	cards := make([]Card, len(cardStrs))
	for i, s := range cardStrs {
		cards[i] = NewCard(s)
	}
	return cards
}
