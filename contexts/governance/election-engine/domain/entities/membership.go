package entities

import (
	"strings"
	"time"
)

// MembershipRecord is one association membership as reported by the
// membership service. A nil EndedAt marks a membership that is still held.
type MembershipRecord struct {
	MembershipID  string
	MemberID      string
	AssociationID int64
	IsBoardMember bool
	JoinedAt      time.Time
	Duration      time.Duration
	EndedAt       *time.Time
}

func (r MembershipRecord) IsCurrent() bool {
	return r.EndedAt == nil
}

// ParseChoice maps a client supplied proposal choice onto a boolean. Only
// "true" and "t" (any case) are true; every other token is false.
func ParseChoice(token string) bool {
	token = strings.TrimSpace(token)
	return strings.EqualFold(token, "true") || strings.EqualFold(token, "t")
}
