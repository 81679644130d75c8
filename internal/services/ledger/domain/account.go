package domain

import (
	"strings"
	"time"
)

// Role is the capability tag attached to an account. The engine stores and
// surfaces roles; enforcement belongs to the calling handler.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
)

// ParseRole normalizes a role string. Unknown or empty values report false.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleOwner:
		return RoleOwner, true
	default:
		return "", false
	}
}

// DayFormat is the layout for UTC calendar days in claim tracking.
const DayFormat = "2006-01-02"

// Day formats a timestamp as its UTC calendar day.
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Account is one user's economic state. The ID is owned by the external
// identity collaborator; everything else is owned by this engine.
type Account struct {
	ID             string
	Balance        int64
	Role           Role
	LastDailyClaim string // UTC day in DayFormat, empty when never claimed
	CreatedAt      time.Time
}
