// Package errors provides structured, coded error handling for the
// Bits ledger engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Account errors
	CodeAccountNotFound Code = "ACCOUNT_NOT_FOUND"
	CodeAccountExists   Code = "ACCOUNT_ALREADY_EXISTS"
	CodeAccountIDEmpty  Code = "ACCOUNT_ID_EMPTY"
	CodeInvalidRole     Code = "ACCOUNT_INVALID_ROLE"

	// Ledger entry errors
	CodeInvalidAmount  Code = "LEDGER_INVALID_AMOUNT"
	CodeReasonRequired Code = "LEDGER_REASON_REQUIRED"
	CodeActorRequired  Code = "LEDGER_ACTOR_REQUIRED"

	// Wager errors
	CodeUnknownGame       Code = "WAGER_UNKNOWN_GAME"
	CodeInvalidWager      Code = "WAGER_INVALID_AMOUNT"
	CodeInsufficientFunds Code = "WAGER_INSUFFICIENT_FUNDS"

	// Daily claim errors
	CodeAlreadyClaimedToday Code = "DAILY_ALREADY_CLAIMED"

	// Projection errors
	CodeInvalidLimit Code = "PROJECTION_INVALID_LIMIT"

	// Authorization errors (enforced by callers; kept for mapping parity)
	CodeUnauthorized Code = "UNAUTHORIZED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes so calling handlers can
// derive their transport status (400/403/404/409 equivalents) uniformly.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeAccountIDEmpty,
		CodeInvalidRole,
		CodeInvalidAmount,
		CodeReasonRequired,
		CodeActorRequired,
		CodeUnknownGame,
		CodeInvalidWager,
		CodeInvalidLimit:
		return codes.InvalidArgument

	// FailedPrecondition - current account state disallows the operation
	case CodeInsufficientFunds,
		CodeAlreadyClaimedToday:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeAccountNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAccountExists:
		return codes.AlreadyExists

	// PermissionDenied - caller lacks the required role
	case CodeUnauthorized:
		return codes.PermissionDenied

	default:
		return codes.Internal
	}
}
