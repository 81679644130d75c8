package domain

import (
	"math"
	"strings"
)

// Game identifies one chance-based mini-game.
type Game string

const (
	GameMines     Game = "mines"
	GameBlackjack Game = "blackjack"
	GamePlinko    Game = "plinko"
)

// GameConfig is the fixed house configuration for one game. The expected
// return per Bit wagered is WinProbability * PayoutMultiplier; every game
// except blackjack carries a house edge by design.
type GameConfig struct {
	WinProbability   float64
	PayoutMultiplier float64
}

// gameTable holds the static per-game constants. It is configuration, not
// runtime state, and is never mutated.
var gameTable = map[Game]GameConfig{
	GameMines:     {WinProbability: 0.46, PayoutMultiplier: 1.8},
	GameBlackjack: {WinProbability: 0.48, PayoutMultiplier: 2.1},
	GamePlinko:    {WinProbability: 0.35, PayoutMultiplier: 2.5},
}

// ParseGame normalizes a game name. Unknown names report false.
func ParseGame(name string) (Game, bool) {
	game := Game(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := gameTable[game]; !ok {
		return "", false
	}
	return game, true
}

// Config returns the fixed configuration for the game.
func (g Game) Config() (GameConfig, bool) {
	cfg, ok := gameTable[g]
	return cfg, ok
}

// Reason returns the ledger reason tag for bets on this game.
func (g Game) Reason() Reason {
	switch g {
	case GameMines:
		return ReasonMinesBet
	case GameBlackjack:
		return ReasonBlackjackBet
	case GamePlinko:
		return ReasonPlinkoBet
	default:
		return Reason(string(g) + "_bet")
	}
}

// Games lists the configured games in display order.
func Games() []Game {
	return []Game{GameMines, GameBlackjack, GamePlinko}
}

// Payout computes the gross return for a winning wager: ceil(wager * m).
func (c GameConfig) Payout(wager int64) int64 {
	return int64(math.Ceil(float64(wager) * c.PayoutMultiplier))
}

// ExpectedReturn is the statistical return per Bit wagered.
func (c GameConfig) ExpectedReturn() float64 {
	return c.WinProbability * c.PayoutMultiplier
}
