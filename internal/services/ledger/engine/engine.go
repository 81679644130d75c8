// Package engine implements the Bits ledger operations: the balance
// mutation primitive, wager resolution, daily claims, admin adjustments,
// and account provisioning. It is the single choke point for every
// balance change.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	platformerrors "github.com/louisbranch/bitarcade/internal/platform/errors"
	"github.com/louisbranch/bitarcade/internal/random"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage"
)

// Default grant amounts, in Bits.
const (
	DefaultSignupBonus = 1000
	DefaultDailyReward = 100
	DefaultLoginBonus  = 50
)

// ErrServiceNotConfigured indicates the ledger service is nil.
var ErrServiceNotConfigured = errors.New("ledger service is not configured")

// ErrStoreRequired indicates the service was built without a store.
var ErrStoreRequired = errors.New("ledger store is required")

// Config controls grant amounts and the injectable clock and random draw.
type Config struct {
	SignupBonus int64
	DailyReward int64
	LoginBonus  int64

	// Clock supplies the current time; defaults to time.Now. Tests pin it
	// to exercise UTC day boundaries.
	Clock func() time.Time

	// Draw supplies a uniform value in [0, 1) for wager outcomes. When
	// nil the service seeds a private generator from crypto/rand. Draws
	// are never derived from caller input.
	Draw func() float64
}

// Service resolves ledger operations against a Store.
type Service struct {
	store       storage.Store
	signupBonus int64
	dailyReward int64
	loginBonus  int64
	clock       func() time.Time
	draw        func() float64
	tracer      trace.Tracer
}

// New creates a ledger service. Zero-valued Config fields fall back to the
// package defaults.
func New(store storage.Store, cfg Config) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Service{
		store:       store,
		signupBonus: cfg.SignupBonus,
		dailyReward: cfg.DailyReward,
		loginBonus:  cfg.LoginBonus,
		clock:       cfg.Clock,
		draw:        cfg.Draw,
		tracer:      otel.Tracer("github.com/louisbranch/bitarcade/internal/services/ledger/engine"),
	}
	if s.signupBonus == 0 {
		s.signupBonus = DefaultSignupBonus
	}
	if s.dailyReward == 0 {
		s.dailyReward = DefaultDailyReward
	}
	if s.loginBonus == 0 {
		s.loginBonus = DefaultLoginBonus
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.draw == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed wager rng: %w", err)
		}
		rng := rand.New(rand.NewSource(seed))
		var mu sync.Mutex
		s.draw = func() float64 {
			mu.Lock()
			defer mu.Unlock()
			return rng.Float64()
		}
	}

	return s, nil
}

// accountErr maps storage lookup failures onto the account error taxonomy.
func accountErr(err error, accountID string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return platformerrors.WithMetadata(platformerrors.CodeAccountNotFound, "account not found", map[string]string{
			"account_id": accountID,
		})
	}
	return err
}

// endSpan records the operation outcome before the span closes.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
