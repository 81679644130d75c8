package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	platformerrors "github.com/louisbranch/bitarcade/internal/platform/errors"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
)

// CreateAccount materializes the economic state for a newly signed-up
// identity: the account row plus its signup bonus entry, committed in one
// store transaction. A failed provisioning leaves no account behind, so
// the caller can simply retry.
func (s *Service) CreateAccount(ctx context.Context, accountID string, role domain.Role, oauth bool) (domain.Account, error) {
	if s == nil {
		return domain.Account{}, ErrServiceNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "ledger.CreateAccount", trace.WithAttributes(
		attribute.String("ledger.account_id", accountID),
	))
	var err error
	defer func() { endSpan(span, err) }()

	if accountID == "" {
		err = platformerrors.New(platformerrors.CodeAccountIDEmpty, "account id is required")
		return domain.Account{}, err
	}
	if role == "" {
		role = domain.RoleUser
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		err = platformerrors.WithMetadata(platformerrors.CodeInvalidRole, "invalid account role", map[string]string{
			"role": string(role),
		})
		return domain.Account{}, err
	}

	reason := domain.ReasonSignupBonus
	if oauth {
		reason = domain.ReasonOAuthSignupBonus
	}
	raw, marshalErr := domain.MarshalMetadata(domain.SignupMetadata{OAuth: oauth})
	if marshalErr != nil {
		err = platformerrors.Wrap(platformerrors.CodeUnknown, "encode signup metadata", marshalErr)
		return domain.Account{}, err
	}

	now := s.clock().UTC()
	account := domain.Account{
		ID:        accountID,
		Balance:   s.signupBonus,
		Role:      role,
		CreatedAt: now,
	}
	bonus := domain.Entry{
		AccountID: accountID,
		Amount:    s.signupBonus,
		Reason:    reason,
		Metadata:  raw,
		CreatedAt: now,
	}
	if err = s.store.ProvisionAccount(ctx, account, bonus); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// GetAccount returns one account for display surfaces.
func (s *Service) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	if s == nil {
		return domain.Account{}, ErrServiceNotConfigured
	}
	if accountID == "" {
		return domain.Account{}, platformerrors.New(platformerrors.CodeAccountIDEmpty, "account id is required")
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return domain.Account{}, accountErr(err, accountID)
	}
	return account, nil
}
