package poker

import (
	"fmt"
	"sort"
)

// HandCategory is the rank class of a 5-card hand, ordered low to high.
type HandCategory int32

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryToString = map[HandCategory]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (hc HandCategory) String() string {
	return categoryToString[hc]
}

// HandEvaluation is the best 5-card hand found in an input set. TieBreaks
// is ordered most-significant first: the ranks forming the combination,
// then kickers in descending order. Two evaluations tie iff Category and
// the full TieBreaks sequence match.
type HandEvaluation struct {
	Category  HandCategory
	Cards     []Card
	TieBreaks []int32
}

func (e HandEvaluation) String() string {
	return fmt.Sprintf("%s %s", e.Category, CardsToString(e.Cards))
}

// Compare returns a negative value if a ranks below b, positive if above,
// zero on an exact tie (split pot).
func Compare(a, b HandEvaluation) int {
	if a.Category != b.Category {
		return int(a.Category - b.Category)
	}
	for i := range a.TieBreaks {
		if i >= len(b.TieBreaks) {
			break
		}
		if a.TieBreaks[i] != b.TieBreaks[i] {
			return int(a.TieBreaks[i] - b.TieBreaks[i])
		}
	}
	return 0
}

// Evaluate finds the best 5-card hand in 5, 6 or 7 cards.
func Evaluate(cards []Card) HandEvaluation {
	switch len(cards) {
	case 5:
		return Evaluate5(cards)
	case 6:
		return Evaluate6(cards)
	case 7:
		return Evaluate7(cards)
	default:
		panic("only 5, 6 and 7 cards are supported")
	}
}

type rankGroup struct {
	value int32 // 2..14
	count int
}

// Evaluate5 evaluates exactly five cards. It is pure: identical card sets
// always produce evaluations that compare equal, regardless of input order.
func Evaluate5(cards []Card) HandEvaluation {
	if len(cards) != 5 {
		panic("Evaluate5 requires exactly 5 cards")
	}

	sorted := make([]Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RankValue() > sorted[j].RankValue()
	})

	values := make([]int32, 5)
	flush := true
	for i, c := range sorted {
		values[i] = c.RankValue()
		if c.Suit() != sorted[0].Suit() {
			flush = false
		}
	}

	groups := groupRanks(values)
	straightHigh := straightHighCard(values, groups)

	eval := HandEvaluation{Cards: sorted}
	switch {
	case flush && straightHigh == 14:
		eval.Category = RoyalFlush
		eval.TieBreaks = []int32{straightHigh}
	case flush && straightHigh > 0:
		eval.Category = StraightFlush
		eval.TieBreaks = []int32{straightHigh}
	case groups[0].count == 4:
		eval.Category = FourOfAKind
		eval.TieBreaks = []int32{groups[0].value, groups[1].value}
	case groups[0].count == 3 && groups[1].count == 2:
		eval.Category = FullHouse
		eval.TieBreaks = []int32{groups[0].value, groups[1].value}
	case flush:
		eval.Category = Flush
		eval.TieBreaks = values
	case straightHigh > 0:
		eval.Category = Straight
		eval.TieBreaks = []int32{straightHigh}
	case groups[0].count == 3:
		eval.Category = ThreeOfAKind
		eval.TieBreaks = []int32{groups[0].value, groups[1].value, groups[2].value}
	case groups[0].count == 2 && groups[1].count == 2:
		eval.Category = TwoPair
		eval.TieBreaks = []int32{groups[0].value, groups[1].value, groups[2].value}
	case groups[0].count == 2:
		eval.Category = Pair
		eval.TieBreaks = []int32{groups[0].value, groups[1].value, groups[2].value, groups[3].value}
	default:
		eval.Category = HighCard
		eval.TieBreaks = values
	}
	return eval
}

// Evaluate6 takes the best of the six 5-card combinations.
func Evaluate6(cards []Card) HandEvaluation {
	if len(cards) != 6 {
		panic("Evaluate6 requires exactly 6 cards")
	}
	return bestDroppingOne(cards, Evaluate5)
}

// Evaluate7 takes the best of the twenty-one 5-card combinations.
func Evaluate7(cards []Card) HandEvaluation {
	if len(cards) != 7 {
		panic("Evaluate7 requires exactly 7 cards")
	}
	return bestDroppingOne(cards, Evaluate6)
}

func bestDroppingOne(cards []Card, evaluate func([]Card) HandEvaluation) HandEvaluation {
	var best HandEvaluation
	targets := make([]Card, len(cards)-1)
	for i := range cards {
		k := 0
		for j, c := range cards {
			if j == i {
				continue
			}
			targets[k] = c
			k++
		}
		eval := evaluate(targets)
		if i == 0 || Compare(eval, best) > 0 {
			best = eval
		}
	}
	return best
}

// DetermineWinners returns the indices of all evaluations tied for best.
func DetermineWinners(evals []HandEvaluation) []int {
	if len(evals) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(evals); i++ {
		if Compare(evals[i], evals[best]) > 0 {
			best = i
		}
	}
	winners := make([]int, 0, 1)
	for i := range evals {
		if Compare(evals[i], evals[best]) == 0 {
			winners = append(winners, i)
		}
	}
	return winners
}

// groupRanks buckets the sorted rank values by count, ordered by count
// descending then rank descending. The grouping drives both the category
// and the tie-break sequence.
func groupRanks(sortedValues []int32) []rankGroup {
	var groups []rankGroup
	for _, v := range sortedValues {
		if len(groups) > 0 && groups[len(groups)-1].value == v {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, rankGroup{value: v, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	return groups
}

// straightHighCard returns the high card value of a 5-card straight, or 0.
// The wheel (A-2-3-4-5) counts as a 5-high straight.
func straightHighCard(sortedValues []int32, groups []rankGroup) int32 {
	if len(groups) != 5 {
		return 0
	}
	if sortedValues[0]-sortedValues[4] == 4 {
		return sortedValues[0]
	}
	// ace plays low: A,5,4,3,2
	if sortedValues[0] == 14 && sortedValues[1] == 5 && sortedValues[4] == 2 {
		return 5
	}
	return 0
}
