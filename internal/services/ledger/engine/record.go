package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	platformerrors "github.com/louisbranch/bitarcade/internal/platform/errors"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage"
)

// RecordEntry applies one signed balance change and appends its audit
// entry in the same transaction. It is the primitive every other mutation
// builds on: if any step fails, neither the balance nor the entry is
// persisted.
//
// RecordEntry does not reject debits that take the balance negative; the
// wager path pre-validates funds and the admin path clamps instead, so the
// bound belongs to the callers.
func (s *Service) RecordEntry(ctx context.Context, accountID string, amount int64, reason domain.Reason, metadata any) (int64, error) {
	if s == nil {
		return 0, ErrServiceNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "ledger.RecordEntry", trace.WithAttributes(
		attribute.String("ledger.account_id", accountID),
		attribute.String("ledger.reason", string(reason)),
		attribute.Int64("ledger.amount", amount),
	))
	var err error
	defer func() { endSpan(span, err) }()

	if accountID == "" {
		err = platformerrors.New(platformerrors.CodeAccountIDEmpty, "account id is required")
		return 0, err
	}
	if amount == 0 {
		err = platformerrors.New(platformerrors.CodeInvalidAmount, "entry amount must be non-zero")
		return 0, err
	}
	if !reason.Valid() {
		err = platformerrors.New(platformerrors.CodeReasonRequired, "entry reason is required")
		return 0, err
	}

	raw, marshalErr := domain.MarshalMetadata(metadata)
	if marshalErr != nil {
		err = platformerrors.Wrap(platformerrors.CodeUnknown, "encode entry metadata", marshalErr)
		return 0, err
	}

	var newBalance int64
	err = s.store.WithAccountTx(ctx, accountID, func(tx storage.AccountTx) error {
		account := tx.Account()
		newBalance = account.Balance + amount
		if txErr := tx.SetBalance(newBalance); txErr != nil {
			return txErr
		}
		_, txErr := tx.AppendEntry(domain.Entry{
			AccountID: accountID,
			Amount:    amount,
			Reason:    reason,
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

// AdjustBalance applies a privileged manual correction. Adjustments that
// would take the balance below zero are floor-clamped to zero instead of
// rejected; the recorded entry carries the applied delta so the ledger
// still reconciles, with the requested delta kept in metadata. Role
// enforcement is the caller's job, but a non-empty actor id is required
// for audit attribution.
func (s *Service) AdjustBalance(ctx context.Context, accountID string, amount int64, reason domain.Reason, actorID string) (int64, error) {
	if s == nil {
		return 0, ErrServiceNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "ledger.AdjustBalance", trace.WithAttributes(
		attribute.String("ledger.account_id", accountID),
		attribute.String("ledger.actor_id", actorID),
		attribute.Int64("ledger.amount", amount),
	))
	var err error
	defer func() { endSpan(span, err) }()

	if accountID == "" {
		err = platformerrors.New(platformerrors.CodeAccountIDEmpty, "account id is required")
		return 0, err
	}
	if amount == 0 {
		err = platformerrors.New(platformerrors.CodeInvalidAmount, "adjustment amount must be non-zero")
		return 0, err
	}
	if !reason.Valid() {
		err = platformerrors.New(platformerrors.CodeReasonRequired, "adjustment reason is required")
		return 0, err
	}
	if actorID == "" {
		err = platformerrors.New(platformerrors.CodeActorRequired, "acting admin id is required")
		return 0, err
	}

	var newBalance int64
	err = s.store.WithAccountTx(ctx, accountID, func(tx storage.AccountTx) error {
		account := tx.Account()

		applied := amount
		meta := domain.AdjustMetadata{ActorID: actorID}
		if account.Balance+amount < 0 {
			// Zero floor: the entry records the delta actually applied so
			// the ledger reconciles; the requested delta stays in metadata.
			applied = -account.Balance
			meta.Requested = amount
		}
		newBalance = account.Balance + applied

		raw, marshalErr := domain.MarshalMetadata(meta)
		if marshalErr != nil {
			return platformerrors.Wrap(platformerrors.CodeUnknown, "encode adjustment metadata", marshalErr)
		}

		if txErr := tx.SetBalance(newBalance); txErr != nil {
			return txErr
		}
		_, txErr := tx.AppendEntry(domain.Entry{
			AccountID: accountID,
			Amount:    applied,
			Reason:    reason,
			Metadata:  raw,
			CreatedAt: s.clock().UTC(),
		})
		return txErr
	})
	if err != nil {
		err = accountErr(err, accountID)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("ledger.new_balance", newBalance))
	return newBalance, nil
}
