// Package storage defines persistence contracts for the Bits ledger.
//
// These interfaces exist so the engine can depend on stable transactional
// semantics without coupling to SQLite schema details. The contract that
// matters most is WithAccountTx: one account's validate-mutate-append
// sequence runs under an exclusive per-account serialization so two
// concurrent operations can never both act on a stale balance.
package storage

import (
	"context"

	"github.com/louisbranch/bitarcade/internal/platform/errors"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrAccountExists indicates an account id is already provisioned.
var ErrAccountExists = errors.New(errors.CodeAccountExists, "account already exists")

// AccountTx is a consistent transactional view over one account. The
// snapshot returned by Account reflects the state at transaction start and
// cannot be changed by concurrent operations before commit.
type AccountTx interface {
	// Account returns the snapshot read when the transaction began.
	Account() domain.Account

	// SetBalance persists a new cached balance for the account.
	SetBalance(balance int64) error

	// SetDailyClaim persists the last successful daily-claim day.
	SetDailyClaim(day string) error

	// AppendEntry appends an immutable ledger entry and returns it with
	// its assigned id.
	AppendEntry(entry domain.Entry) (domain.Entry, error)
}

// LeaderboardRow is one row of the balance leaderboard projection.
type LeaderboardRow struct {
	AccountID string
	Balance   int64
	Role      domain.Role
}

// Store persists accounts and their append-only ledger entries.
type Store interface {
	// CreateAccount inserts a new account record. It fails with
	// ErrAccountExists when the id is already provisioned.
	CreateAccount(ctx context.Context, account domain.Account) error

	// ProvisionAccount inserts a new account record together with its
	// opening ledger entry in one transaction. The account's balance must
	// equal the entry amount. A failure persists neither, so provisioning
	// is safely retryable. It fails with ErrAccountExists when the id is
	// already provisioned.
	ProvisionAccount(ctx context.Context, account domain.Account, opening domain.Entry) error

	// GetAccount returns one account, or ErrNotFound.
	GetAccount(ctx context.Context, accountID string) (domain.Account, error)

	// WithAccountTx runs fn inside an atomic transaction scoped to one
	// account, serialized against every other mutation on the same
	// account. Mutations on different accounts do not serialize against
	// each other. If fn returns an error nothing is persisted. It fails
	// with ErrNotFound when the account does not exist.
	WithAccountTx(ctx context.Context, accountID string, fn func(AccountTx) error) error

	// Leaderboard returns up to limit accounts ordered by balance
	// descending, ties broken by account creation order.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)

	// RecentEntries returns up to limit ledger entries for the account,
	// newest first.
	RecentEntries(ctx context.Context, accountID string, limit int) ([]domain.Entry, error)

	// SumEntries recomputes the signed sum of all entry amounts for the
	// account. Used to verify reconciliation against the cached balance.
	SumEntries(ctx context.Context, accountID string) (int64, error)
}
