package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	platformerrors "github.com/louisbranch/bitarcade/internal/platform/errors"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage"
)

// WagerResult reports one resolved wager.
type WagerResult struct {
	Won        bool
	Payout     int64 // gross return, zero on a loss
	Delta      int64 // signed balance change: payout - wager
	NewBalance int64
}

// ResolveWager resolves one chance-based bet against the account balance.
//
// The funds check, the outcome draw, and the commit run inside one
// transaction scoped to the account, so a concurrent wager on the same
// account cannot observe the pre-debit balance. The draw comes from the
// service's own generator; callers cannot supply or influence the seed.
func (s *Service) ResolveWager(ctx context.Context, accountID string, game domain.Game, wager int64) (WagerResult, error) {
	if s == nil {
		return WagerResult{}, ErrServiceNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "ledger.ResolveWager", trace.WithAttributes(
		attribute.String("ledger.account_id", accountID),
		attribute.String("ledger.game", string(game)),
		attribute.Int64("ledger.wager", wager),
	))
	var err error
	defer func() { endSpan(span, err) }()

	if accountID == "" {
		err = platformerrors.New(platformerrors.CodeAccountIDEmpty, "account id is required")
		return WagerResult{}, err
	}
	cfg, ok := game.Config()
	if !ok {
		err = platformerrors.WithMetadata(platformerrors.CodeUnknownGame, "unknown game", map[string]string{
			"game": string(game),
		})
		return WagerResult{}, err
	}
	if wager < 1 {
		err = platformerrors.New(platformerrors.CodeInvalidWager, "wager must be at least 1 Bit")
		return WagerResult{}, err
	}

	var result WagerResult
	err = s.store.WithAccountTx(ctx, accountID, func(tx storage.AccountTx) error {
		account := tx.Account()
		if wager > account.Balance {
			return platformerrors.WithMetadata(platformerrors.CodeInsufficientFunds, "wager exceeds balance", map[string]string{
				"account_id": accountID,
				"game":       string(game),
			})
		}

		won := s.draw() < cfg.WinProbability
		var payout int64
		if won {
			payout = cfg.Payout(wager)
		}
		delta := payout - wager
		newBalance := account.Balance + delta

		raw, marshalErr := domain.MarshalMetadata(domain.BetMetadata{
			Wager:  wager,
			Payout: payout,
			Won:    won,
		})
		if marshalErr != nil {
			return platformerrors.Wrap(platformerrors.CodeUnknown, "encode bet metadata", marshalErr)
		}

		if txErr := tx.SetBalance(newBalance); txErr != nil {
			return txErr
		}
		if _, txErr := tx.AppendEntry(domain.Entry{
			AccountID: accountID,
			Amount:    delta,
			Reason:    game.Reason(),
			Metadata:  raw,
			CreatedAt: s.clock().UTC(),
		}); txErr != nil {
			return txErr
		}

		result = WagerResult{Won: won, Payout: payout, Delta: delta, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		err = accountErr(err, accountID)
		return WagerResult{}, err
	}

	span.SetAttributes(
		attribute.Bool("ledger.won", result.Won),
		attribute.Int64("ledger.new_balance", result.NewBalance),
	)
	return result, nil
}
