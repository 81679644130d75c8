package engine

import (
	"context"
	"fmt"

	platformerrors "github.com/louisbranch/bitarcade/internal/platform/errors"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage"
)

// Leaderboard returns up to limit accounts ordered by balance descending,
// ties broken by account creation order. It is recomputed per call from
// current state; a read-committed view is sufficient.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardRow, error) {
	if s == nil {
		return nil, ErrServiceNotConfigured
	}
	if limit <= 0 {
		return nil, platformerrors.New(platformerrors.CodeInvalidLimit, "leaderboard limit must be greater than zero")
	}
	return s.store.Leaderboard(ctx, limit)
}

// RecentEntries returns up to limit ledger entries for the account,
// newest first. A missing account yields an empty history rather than an
// error; the projection makes no existence claim.
func (s *Service) RecentEntries(ctx context.Context, accountID string, limit int) ([]domain.Entry, error) {
	if s == nil {
		return nil, ErrServiceNotConfigured
	}
	if accountID == "" {
		return nil, platformerrors.New(platformerrors.CodeAccountIDEmpty, "account id is required")
	}
	if limit <= 0 {
		return nil, platformerrors.New(platformerrors.CodeInvalidLimit, "history limit must be greater than zero")
	}
	return s.store.RecentEntries(ctx, accountID, limit)
}

// ReconcileReport compares an account's cached balance against the signed
// sum of its ledger entries.
type ReconcileReport struct {
	AccountID string
	Balance   int64
	EntrySum  int64
}

// Consistent reports whether the cached balance reconciles with the ledger.
func (r ReconcileReport) Consistent() bool {
	return r.Balance == r.EntrySum
}

// Reconcile verifies that the account's balance equals the sum of its
// entries. A report with Consistent() == false indicates a broken
// invariant and should be treated as an operational incident, not
// repaired silently.
func (s *Service) Reconcile(ctx context.Context, accountID string) (ReconcileReport, error) {
	if s == nil {
		return ReconcileReport{}, ErrServiceNotConfigured
	}

	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return ReconcileReport{}, err
	}

	sum, err := s.store.SumEntries(ctx, accountID)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("sum entries: %w", err)
	}

	return ReconcileReport{
		AccountID: accountID,
		Balance:   account.Balance,
		EntrySum:  sum,
	}, nil
}
