// Package entity holds the domain model of the referral registry: people a
// responsible party brings in, recorded by console operators during the day.
package entity

import "time"

// Referral is one registered referral.
type Referral struct {
	ID          int64
	Name        string
	Surname     string
	NationalID  string
	Phone       string
	School      string
	TableNumber int32
	CreatedBy   int64
	CreatedAt   time.Time
}

// ListFilter narrows and pages the referral listing.
type ListFilter struct {
	// Search matches name, surname, or national ID.
	Search string
	Page   int32
	Size   int32
}

// Offset converts page/size into a row offset.
func (f ListFilter) Offset() int32 {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Size
}
