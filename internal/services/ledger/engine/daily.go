package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	platformerrors "github.com/louisbranch/bitarcade/internal/platform/errors"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage"
)

// ClaimDaily grants the fixed daily reward at most once per account per
// UTC calendar day. The day check, the day update, and the balance
// mutation share one transaction, so two concurrent claims cannot both
// succeed.
func (s *Service) ClaimDaily(ctx context.Context, accountID string) (int64, error) {
	if s == nil {
		return 0, ErrServiceNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "ledger.ClaimDaily", trace.WithAttributes(
		attribute.String("ledger.account_id", accountID),
	))
	var err error
	defer func() { endSpan(span, err) }()

	if accountID == "" {
		err = platformerrors.New(platformerrors.CodeAccountIDEmpty, "account id is required")
		return 0, err
	}

	today := domain.Day(s.clock())

	var newBalance int64
	err = s.store.WithAccountTx(ctx, accountID, func(tx storage.AccountTx) error {
		account := tx.Account()
		if account.LastDailyClaim == today {
			return platformerrors.WithMetadata(platformerrors.CodeAlreadyClaimedToday, "daily reward already claimed", map[string]string{
				"account_id": accountID,
				"day":        today,
			})
		}

		if txErr := tx.SetDailyClaim(today); txErr != nil {
			return txErr
		}

		newBalance = account.Balance + s.dailyReward

		raw, marshalErr := domain.MarshalMetadata(domain.DailyMetadata{Day: today})
		if marshalErr != nil {
			return platformerrors.Wrap(platformerrors.CodeUnknown, "encode daily metadata", marshalErr)
		}

		if txErr := tx.SetBalance(newBalance); txErr != nil {
			return txErr
		}
		_, txErr := tx.AppendEntry(domain.Entry{
			AccountID: accountID,
			Amount:    s.dailyReward,
			Reason:    domain.ReasonDailyBonus,
			Metadata:  raw,
			CreatedAt: s.clock().UTC(),
		})
		return txErr
	})
	if err != nil {
		err = accountErr(err, accountID)
		return 0, err
	}

	return newBalance, nil
}

// GrantLoginBonus records the fixed login grant. It is not idempotent;
// the session layer decides when a login counts.
func (s *Service) GrantLoginBonus(ctx context.Context, accountID string) (int64, error) {
	if s == nil {
		return 0, ErrServiceNotConfigured
	}
	return s.RecordEntry(ctx, accountID, s.loginBonus, domain.ReasonLoginBonus, nil)
}
