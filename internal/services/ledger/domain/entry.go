package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Reason tags one ledger entry with the business cause of the balance
// change. The set below is closed; any other non-empty tag is treated as
// the open "other" variant so new flows can record entries before the
// enum catches up.
type Reason string

const (
	ReasonSignupBonus      Reason = "signup_bonus"
	ReasonOAuthSignupBonus Reason = "oauth_signup_bonus"
	ReasonLoginBonus       Reason = "login_bonus"
	ReasonDailyBonus       Reason = "daily_bonus"
	ReasonMinesBet         Reason = "mines_bet"
	ReasonBlackjackBet     Reason = "blackjack_bet"
	ReasonPlinkoBet        Reason = "plinko_bet"
	ReasonAdminAdjust      Reason = "admin_adjust"
)

// Known reports whether the reason belongs to the closed variant set.
func (r Reason) Known() bool {
	switch r {
	case ReasonSignupBonus, ReasonOAuthSignupBonus, ReasonLoginBonus,
		ReasonDailyBonus, ReasonMinesBet, ReasonBlackjackBet,
		ReasonPlinkoBet, ReasonAdminAdjust:
		return true
	default:
		return false
	}
}

// Valid reports whether the reason may be recorded at all.
func (r Reason) Valid() bool {
	return strings.TrimSpace(string(r)) != ""
}

// Entry is an immutable audit record of one balance change. Entries are
// never updated or deleted once committed, and their amounts reconcile to
// the account's cached balance.
type Entry struct {
	ID        int64
	AccountID string
	Amount    int64
	Reason    Reason
	Metadata  json.RawMessage // informational payload, never replayed
	CreatedAt time.Time
}

// BetMetadata is the payload attached to wager entries.
type BetMetadata struct {
	Wager  int64 `json:"wager"`
	Payout int64 `json:"payout"`
	Won    bool  `json:"win"`
}

// DailyMetadata is the payload attached to daily-claim entries.
type DailyMetadata struct {
	Day string `json:"day"`
}

// AdjustMetadata is the payload attached to admin adjustments.
type AdjustMetadata struct {
	ActorID string `json:"actor_id"`
	// Requested carries the pre-clamp delta when the zero floor applied.
	Requested int64 `json:"requested,omitempty"`
}

// SignupMetadata is the payload attached to signup bonus entries.
type SignupMetadata struct {
	OAuth bool `json:"oauth,omitempty"`
}

// MarshalMetadata encodes a typed payload for storage. A nil payload maps
// to a null metadata column.
func MarshalMetadata(payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
