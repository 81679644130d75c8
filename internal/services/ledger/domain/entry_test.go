package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestReasonKnown(t *testing.T) {
	known := []Reason{
		ReasonSignupBonus, ReasonOAuthSignupBonus, ReasonLoginBonus,
		ReasonDailyBonus, ReasonMinesBet, ReasonBlackjackBet,
		ReasonPlinkoBet, ReasonAdminAdjust,
	}
	for _, reason := range known {
		if !reason.Known() {
			t.Fatalf("expected %q to be known", reason)
		}
	}

	if Reason("referral_bonus").Known() {
		t.Fatal("expected open-variant reason not to be known")
	}
	if !Reason("referral_bonus").Valid() {
		t.Fatal("expected open-variant reason to remain valid")
	}
	if Reason("  ").Valid() {
		t.Fatal("expected blank reason to be invalid")
	}
}

func TestMarshalMetadata(t *testing.T) {
	raw, err := MarshalMetadata(BetMetadata{Wager: 100, Payout: 180, Won: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["wager"] != float64(100) || decoded["payout"] != float64(180) || decoded["win"] != true {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestMarshalMetadataNil(t *testing.T) {
	raw, err := MarshalMetadata(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if raw != nil {
		t.Fatalf("expected nil metadata, got %q", raw)
	}
}

func TestAdjustMetadataOmitsZeroRequested(t *testing.T) {
	raw, err := MarshalMetadata(AdjustMetadata{ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["requested"]; ok {
		t.Fatal("expected requested to be omitted when no clamp applied")
	}
}

func TestDayUsesUTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 3, 1, 23, 30, 0, 0, loc)

	if got := Day(local); got != "2026-03-02" {
		t.Fatalf("expected UTC day 2026-03-02, got %s", got)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		value string
		want  Role
		ok    bool
	}{
		{"user", RoleUser, true},
		{" ADMIN ", RoleAdmin, true},
		{"Owner", RoleOwner, true},
		{"superuser", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseRole(tc.value)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q, %v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}
