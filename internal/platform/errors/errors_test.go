package errors

import (
	stderrors "errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeInsufficientFunds, "wager exceeds balance")
	target := New(CodeInsufficientFunds, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeAccountNotFound, "wager exceeds balance")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "record entry", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found in chain")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeAccountNotFound, codes.NotFound},
		{CodeNotFound, codes.NotFound},
		{CodeAccountExists, codes.AlreadyExists},
		{CodeInvalidAmount, codes.InvalidArgument},
		{CodeInvalidWager, codes.InvalidArgument},
		{CodeUnknownGame, codes.InvalidArgument},
		{CodeReasonRequired, codes.InvalidArgument},
		{CodeActorRequired, codes.InvalidArgument},
		{CodeInvalidLimit, codes.InvalidArgument},
		{CodeInsufficientFunds, codes.FailedPrecondition},
		{CodeAlreadyClaimedToday, codes.FailedPrecondition},
		{CodeUnauthorized, codes.PermissionDenied},
		{CodeUnknown, codes.Internal},
		{Code("SOMETHING_ELSE"), codes.Internal},
	}

	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("code %s: expected %v, got %v", tc.code, tc.want, got)
		}
	}
}

func TestToGRPCStatusCarriesErrorInfo(t *testing.T) {
	err := WithMetadata(CodeInsufficientFunds, "wager exceeds balance", map[string]string{
		"account_id": "acct-1",
	})

	st, ok := status.FromError(err.ToGRPCStatus())
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", st.Code())
	}
	if len(st.Details()) != 1 {
		t.Fatalf("expected one detail, got %d", len(st.Details()))
	}
}
