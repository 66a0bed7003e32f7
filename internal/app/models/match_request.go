package models

import (
	"fmt"
	"time"
)

// MatchStatus is the lifecycle state of a match request.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// ParseMatchStatus validates a raw status value read from storage.
func ParseMatchStatus(raw string) (MatchStatus, error) {
	switch MatchStatus(raw) {
	case MatchStatusPending, MatchStatusAccepted, MatchStatusRejected, MatchStatusCancelled:
		return MatchStatus(raw), nil
	default:
		return "", fmt.Errorf("unknown match request status %q", raw)
	}
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusAccepted || s == MatchStatusRejected || s == MatchStatusCancelled
}

// MatchRequest defines the match request model based on the 'match_requests' table
type MatchRequest struct {
	ID        int64       `json:"id" db:"id"`
	MentorID  int64       `json:"mentorId" db:"mentor_id"`
	MenteeID  int64       `json:"menteeId" db:"mentee_id"`
	Message   string      `json:"message" db:"message"`
	Status    MatchStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// MatchRequestDetails is a match request joined with the counterpart's
// display attributes (the mentee for incoming lists, the mentor for outgoing).
type MatchRequestDetails struct {
	MatchRequest
	CounterpartName  string
	CounterpartEmail string
}
