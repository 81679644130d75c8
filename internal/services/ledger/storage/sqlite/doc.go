// Package sqlite provides SQLite-backed ledger persistence.
//
// It is the default on-disk store for accounts and ledger entries, and it
// implements the per-account transactional discipline the engine relies
// on: a keyed exclusive lock around a single-account transaction.
package sqlite
