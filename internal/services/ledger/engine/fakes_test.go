package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage"
)

// fakeStore is an in-memory Store with staged-commit transactions so
// engine tests can verify all-or-nothing behavior and inject failures at
// either write step.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	order    []string // account ids in creation order
	entries  []domain.Entry
	nextID   int64

	failSetBalance error
	failAppend     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]domain.Account)}
}

func (f *fakeStore) addAccount(account domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.ID] = account
	f.order = append(f.order, account.ID)
}

func (f *fakeStore) CreateAccount(ctx context.Context, account domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.ID]; ok {
		return storage.ErrAccountExists
	}
	f.accounts[account.ID] = account
	f.order = append(f.order, account.ID)
	return nil
}

func (f *fakeStore) ProvisionAccount(ctx context.Context, account domain.Account, opening domain.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.ID]; ok {
		return storage.ErrAccountExists
	}
	if f.failAppend != nil {
		// Neither the account nor the entry lands.
		return f.failAppend
	}
	f.accounts[account.ID] = account
	f.order = append(f.order, account.ID)
	f.nextID++
	opening.ID = f.nextID
	f.entries = append(f.entries, opening)
	return nil
}

func (f *fakeStore) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[accountID]
	if !ok {
		return domain.Account{}, storage.ErrNotFound
	}
	return account, nil
}

func (f *fakeStore) WithAccountTx(ctx context.Context, accountID string, fn func(storage.AccountTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[accountID]
	if !ok {
		return storage.ErrNotFound
	}

	tx := &fakeAccountTx{store: f, account: account}
	if err := fn(tx); err != nil {
		// Discard staged writes.
		return err
	}

	// Commit staged writes.
	if tx.balance != nil {
		account.Balance = *tx.balance
	}
	if tx.daily != nil {
		account.LastDailyClaim = *tx.daily
	}
	f.accounts[accountID] = account
	for _, entry := range tx.appended {
		f.nextID++
		entry.ID = f.nextID
		f.entries = append(f.entries, entry)
	}
	return nil
}

func (f *fakeStore) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, len(f.order))
	copy(ids, f.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return f.accounts[ids[i]].Balance > f.accounts[ids[j]].Balance
	})

	rows := make([]storage.LeaderboardRow, 0, limit)
	for _, id := range ids {
		if len(rows) == limit {
			break
		}
		account := f.accounts[id]
		rows = append(rows, storage.LeaderboardRow{
			AccountID: account.ID,
			Balance:   account.Balance,
			Role:      account.Role,
		})
	}
	return rows, nil
}

func (f *fakeStore) RecentEntries(ctx context.Context, accountID string, limit int) ([]domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Entry
	for i := len(f.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if f.entries[i].AccountID == accountID {
			result = append(result, f.entries[i])
		}
	}
	return result, nil
}

func (f *fakeStore) SumEntries(ctx context.Context, accountID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sum int64
	for _, entry := range f.entries {
		if entry.AccountID == accountID {
			sum += entry.Amount
		}
	}
	return sum, nil
}

// balance returns the committed balance for assertions.
func (f *fakeStore) balance(accountID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[accountID].Balance
}

// entryCount returns the number of committed entries for the account.
func (f *fakeStore) entryCount(accountID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, entry := range f.entries {
		if entry.AccountID == accountID {
			count++
		}
	}
	return count
}

type fakeAccountTx struct {
	store    *fakeStore
	account  domain.Account
	balance  *int64
	daily    *string
	appended []domain.Entry
}

func (t *fakeAccountTx) Account() domain.Account {
	return t.account
}

func (t *fakeAccountTx) SetBalance(balance int64) error {
	if t.store.failSetBalance != nil {
		return t.store.failSetBalance
	}
	t.balance = &balance
	return nil
}

func (t *fakeAccountTx) SetDailyClaim(day string) error {
	t.daily = &day
	return nil
}

func (t *fakeAccountTx) AppendEntry(entry domain.Entry) (domain.Entry, error) {
	if t.store.failAppend != nil {
		return domain.Entry{}, t.store.failAppend
	}
	t.appended = append(t.appended, entry)
	return entry, nil
}
