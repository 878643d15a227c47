// Package entity holds the domain model of the election-day dashboard:
// voter check-ins, participation aggregates, and the school map.
package entity

import "time"

// CheckIn is one voter marked as voted at a table.
type CheckIn struct {
	ID          int64
	NationalID  string
	SchoolID    int64
	TableNumber int32
	CheckedBy   int64
	CheckedAt   time.Time
}

// School is a polling place with map coordinates.
type School struct {
	ID        int64
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Tables    int32
}

// SchoolParticipation aggregates check-ins per polling place.
type SchoolParticipation struct {
	SchoolID   int64
	SchoolName string
	CheckedIn  int64
}

// Summary is the dashboard headline block. VerifiedParties and Referrals
// are fed by broker events, the rest comes from check-in rows.
type Summary struct {
	TotalCheckIns   int64
	VerifiedParties int64
	Referrals       int64
	BySchool        []SchoolParticipation
	GeneratedAt     time.Time
}
