package gamescript

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func getUint32Pointer(v uint32) *uint32 {
	return &v
}

func getInt64Pointer(v int64) *int64 {
	return &v
}

func TestReadGameScript(t *testing.T) {
	script, err := ReadGameScript("test_scripts/script1.yaml")
	if err != nil {
		t.Fatalf("ReadGameScript returned error [%s]", err)
	}
	if script == nil {
		t.Fatal("ReadGameScript returned nil data")
	}

	expectedGame := Game{
		Title:      "3-max scripted game",
		SmallBlind: 5,
		BigBlind:   10,
	}
	if !cmp.Equal(expectedGame, script.Game) {
		t.Errorf("game mismatch (-want +got):\n%s", cmp.Diff(expectedGame, script.Game))
	}

	expectedSeats := []StartingSeat{
		{Seat: 0, Player: "alice", BuyIn: 100},
		{Seat: 1, Player: "bob", BuyIn: 100},
		{Seat: 2, Player: "carol", BuyIn: 100},
	}
	if !cmp.Equal(expectedSeats, script.StartingSeats) {
		t.Errorf("starting seats mismatch (-want +got):\n%s", cmp.Diff(expectedSeats, script.StartingSeats))
	}

	if len(script.Hands) != 2 {
		t.Fatalf("expected 2 hands, got %d", len(script.Hands))
	}

	hand := script.GetHand(1)
	expectedSetup := HandSetup{
		ButtonPos: getUint32Pointer(0),
		SeatCards: []SeatCards{
			{Seat: 0, Cards: []string{"As", "Kh"}},
			{Seat: 1, Cards: []string{"7c", "2h"}},
			{Seat: 2, Cards: []string{"Ad", "Kc"}},
		},
		Flop:  []string{"2d", "3h", "4s"},
		Turn:  "5c",
		River: "6d",
	}
	if !cmp.Equal(expectedSetup, hand.Setup) {
		t.Errorf("hand 1 setup mismatch (-want +got):\n%s", cmp.Diff(expectedSetup, hand.Setup))
	}

	expectedPreflop := BettingRound{
		SeatActions: []SeatAction{
			{Action: Action{Seat: 0, Action: "CALL"}},
			{Action: Action{Seat: 1, Action: "FOLD"}},
			{Action: Action{Seat: 2, Action: "CHECK"}},
		},
		Verify: BettingRoundVerification{
			Pot:        getInt64Pointer(25),
			CurrentBet: getInt64Pointer(10),
		},
	}
	if !cmp.Equal(expectedPreflop, hand.Preflop) {
		t.Errorf("hand 1 preflop mismatch (-want +got):\n%s", cmp.Diff(expectedPreflop, hand.Preflop))
	}

	expectedResult := HandResult{
		ActionEndedAt: "showdown",
		Winners: []HandWinner{
			{Seat: 0, Receive: 13, Rank: "Straight"},
			{Seat: 2, Receive: 12, Rank: "Straight"},
		},
		Pots: []PotResult{
			{Pot: 25, SeatsInPot: []uint32{0, 2}},
		},
		Players: []ResultPlayer{
			{Seat: 0, Balance: PlayerBalance{After: getInt64Pointer(103)}},
			{Seat: 1, Balance: PlayerBalance{After: getInt64Pointer(95)}},
			{Seat: 2, Balance: PlayerBalance{After: getInt64Pointer(102)}},
		},
	}
	if !cmp.Equal(expectedResult, hand.Result) {
		t.Errorf("hand 1 result mismatch (-want +got):\n%s", cmp.Diff(expectedResult, hand.Result))
	}

	hand2 := script.GetHand(2)
	if !hand2.Setup.Auto {
		t.Error("hand 2 should use an auto deck")
	}
	expectedRaise := Action{Seat: 1, Action: "RAISE", Amount: 30}
	if !cmp.Equal(expectedRaise, hand2.Preflop.SeatActions[0].Action) {
		t.Errorf("hand 2 raise mismatch (-want +got):\n%s", cmp.Diff(expectedRaise, hand2.Preflop.SeatActions[0].Action))
	}
}

func TestReadGameScriptRejectsDuplicateSeat(t *testing.T) {
	_, err := ReadGameScript("test_scripts/duplicate_seat.yaml")
	if err == nil {
		t.Fatal("expected a validation error for duplicate seats")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Script {
		return &Script{
			Game: Game{SmallBlind: 5, BigBlind: 10},
			StartingSeats: []StartingSeat{
				{Seat: 0, Player: "alice", BuyIn: 100},
				{Seat: 1, Player: "bob", BuyIn: 100},
			},
			Hands: []Hand{
				{
					Num: 1,
					Setup: HandSetup{
						SeatCards: []SeatCards{
							{Seat: 0, Cards: []string{"As", "Kh"}},
							{Seat: 1, Cards: []string{"7c", "2h"}},
						},
						Flop:  []string{"2d", "3h", "4s"},
						Turn:  "5c",
						River: "6d",
					},
				},
			},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid script rejected: %s", err)
	}

	tests := []struct {
		name   string
		mutate func(*Script)
	}{
		{
			name: "too few seats",
			mutate: func(s *Script) {
				s.StartingSeats = s.StartingSeats[:1]
			},
		},
		{
			name: "seat out of range",
			mutate: func(s *Script) {
				s.StartingSeats[1].Seat = 7
			},
		},
		{
			name: "duplicate player name",
			mutate: func(s *Script) {
				s.StartingSeats[1].Player = "alice"
			},
		},
		{
			name: "action for unknown seat",
			mutate: func(s *Script) {
				s.Hands[0].Preflop.SeatActions = []SeatAction{
					{Action: Action{Seat: 3, Action: "FOLD"}},
				}
			},
		},
		{
			name: "duplicate scripted card",
			mutate: func(s *Script) {
				s.Hands[0].Setup.SeatCards[1].Cards = []string{"As", "2h"}
			},
		},
		{
			name: "scripted card reused on board",
			mutate: func(s *Script) {
				s.Hands[0].Setup.Turn = "Kh"
			},
		},
		{
			name: "wrong hole card count",
			mutate: func(s *Script) {
				s.Hands[0].Setup.SeatCards[0].Cards = []string{"As"}
			},
		},
		{
			name: "missing river",
			mutate: func(s *Script) {
				s.Hands[0].Setup.River = ""
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := base()
			tt.mutate(script)
			if err := script.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
