// Package entity holds the domain model of the responsible-party
// verification flow: the registrant identity and the expiring session that
// tracks one verification attempt.
package entity

import (
	"time"

	"github.com/patrulla-360/app-cce/internal/pkg/phone"
)

// Registrant is the identity a responsible party types in before verifying.
type Registrant struct {
	Name       string
	Surname    string
	NationalID string
}

// Equal reports whether two registrants describe the same person with the
// same spelling. An edit to any field invalidates a live session.
func (r Registrant) Equal(o Registrant) bool {
	return r.Name == o.Name && r.Surname == o.Surname && r.NationalID == o.NationalID
}

// Session is one verification attempt for a registrant and phone.
//
// The pair (NationalID, Phone.Dispatch()) identifies the session; the
// orchestrator keeps at most one live session per pair.
type Session struct {
	Registrant Registrant
	Phone      phone.Number
	State      SessionState

	// Attempt increases every time a code dispatch is started. Responses
	// carrying an older attempt number are stale and must be discarded.
	Attempt uint64

	RequestedAt time.Time
	ExpiresAt   time.Time

	// ReferenceID is the upstream registration reference, set on confirm.
	ReferenceID string
}

// ExpiredAt reports whether the session window has closed as of now.
//
// A Pending session whose deadline passed is expired even if the countdown
// has not observed it yet; expiry is a fact of wall-clock time.
func (s *Session) ExpiredAt(now time.Time) bool {
	if s.State == SessionStateExpired {
		return true
	}
	return s.State == SessionStatePending && !now.Before(s.ExpiresAt)
}

// MarkPending opens a fresh verification window.
func (s *Session) MarkPending(requestedAt time.Time, ttl time.Duration) {
	s.State = SessionStatePending
	s.RequestedAt = requestedAt
	s.ExpiresAt = requestedAt.Add(ttl)
}

// MarkConfirmed closes the session successfully.
func (s *Session) MarkConfirmed(referenceID string) {
	s.State = SessionStateConfirmed
	s.ReferenceID = referenceID
}

// MarkExpired closes the window without confirmation. Confirmed sessions
// never expire.
func (s *Session) MarkExpired() {
	if s.State == SessionStateConfirmed {
		return
	}
	s.State = SessionStateExpired
}
