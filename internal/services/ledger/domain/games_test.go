package domain

import (
	"math"
	"testing"
)

func TestParseGame(t *testing.T) {
	tests := []struct {
		name string
		want Game
		ok   bool
	}{
		{"mines", GameMines, true},
		{"  Blackjack ", GameBlackjack, true},
		{"PLINKO", GamePlinko, true},
		{"roulette", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseGame(tc.name)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseGame(%q) = %q, %v; want %q, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestGameConfigTable(t *testing.T) {
	tests := []struct {
		game Game
		p    float64
		m    float64
	}{
		{GameMines, 0.46, 1.8},
		{GameBlackjack, 0.48, 2.1},
		{GamePlinko, 0.35, 2.5},
	}

	for _, tc := range tests {
		cfg, ok := tc.game.Config()
		if !ok {
			t.Fatalf("expected config for %s", tc.game)
		}
		if cfg.WinProbability != tc.p || cfg.PayoutMultiplier != tc.m {
			t.Fatalf("%s config = %+v; want p=%v m=%v", tc.game, cfg, tc.p, tc.m)
		}
	}

	if _, ok := Game("roulette").Config(); ok {
		t.Fatal("expected no config for unknown game")
	}
}

func TestPayoutRoundsUp(t *testing.T) {
	tests := []struct {
		game  Game
		wager int64
		want  int64
	}{
		{GameMines, 100, 180},    // 100 * 1.8
		{GameMines, 1, 2},        // ceil(1.8)
		{GameBlackjack, 10, 21},  // 10 * 2.1
		{GameBlackjack, 3, 7},    // ceil(6.3)
		{GamePlinko, 2, 5},       // 2 * 2.5
		{GamePlinko, 3, 8},       // ceil(7.5)
	}

	for _, tc := range tests {
		cfg, _ := tc.game.Config()
		if got := cfg.Payout(tc.wager); got != tc.want {
			t.Fatalf("%s payout(%d) = %d; want %d", tc.game, tc.wager, got, tc.want)
		}
	}
}

func TestExpectedReturnHouseEdge(t *testing.T) {
	tests := []struct {
		game Game
		want float64
	}{
		{GameMines, 0.828},
		{GameBlackjack, 1.008},
		{GamePlinko, 0.875},
	}

	for _, tc := range tests {
		cfg, _ := tc.game.Config()
		if got := cfg.ExpectedReturn(); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s expected return = %v; want %v", tc.game, got, tc.want)
		}
	}
}

func TestGameReason(t *testing.T) {
	tests := []struct {
		game Game
		want Reason
	}{
		{GameMines, ReasonMinesBet},
		{GameBlackjack, ReasonBlackjackBet},
		{GamePlinko, ReasonPlinkoBet},
	}

	for _, tc := range tests {
		if got := tc.game.Reason(); got != tc.want {
			t.Fatalf("%s reason = %q; want %q", tc.game, got, tc.want)
		}
	}
}

func TestGamesListsAllConfigured(t *testing.T) {
	games := Games()
	if len(games) != len(gameTable) {
		t.Fatalf("expected %d games, got %d", len(gameTable), len(games))
	}
	for _, game := range games {
		if _, ok := game.Config(); !ok {
			t.Fatalf("listed game %s has no config", game)
		}
	}
}
