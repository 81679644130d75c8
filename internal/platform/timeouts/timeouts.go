// Package timeouts defines shared timeout constants used across the
// ledger engine and its tooling. Centralizing these values prevents
// drift between callers and makes the durations discoverable.
package timeouts

import "time"

// StoreBusy caps how long SQLite waits on a locked database before
// reporting a busy error, expressed in the DSN busy_timeout parameter.
const StoreBusy = 5 * time.Second

// AccountTx caps one validate-mutate-append sequence against a single
// account, including the time spent waiting for the account lock.
const AccountTx = 10 * time.Second

// CLI is the default overall deadline for a ledgerctl invocation.
const CLI = 1 * time.Minute
