// Package ledger contains the internal service boundary for the Bits
// economy: balance mutation, wager resolution, daily rewards, admin
// adjustments, and the read projections derived from them.
//
// Every balance change flows through one primitive that appends an
// immutable audit entry and updates the cached balance in the same
// transaction, so an account's balance always equals the sum of its
// entries. External handlers resolve identity and authorization before
// calling in; this service owns only the economic invariants.
package ledger
