// Package phone holds the normalized mobile contact value object used by the
// responsible-party verification flow.
//
// A Number is built once from the operator-entered parts and every wire or
// display rendering is derived from it on demand. Nothing is cached, so the
// renderings can never drift apart.
package phone

import (
	"strings"

	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
)

// mobileIndicator is the digit inserted between country and area codes for
// mobile-terminated messaging routes.
const mobileIndicator = "9"

// Number is a validated mobile contact split into its three parts.
//
// The zero value is not usable; construct via New.
type Number struct {
	country    string
	area       string
	subscriber string
}

// New normalizes and validates the three raw parts of a mobile number.
//
// Non-digit characters are stripped before validation. The country code must
// be 1-3 digits, the area code 2-4 digits, and the subscriber number exactly
// 8 digits. All violations are reported together as field errors.
func New(country, area, subscriber string) (Number, error) {
	c := digitsOnly(country)
	a := digitsOnly(area)
	s := digitsOnly(subscriber)

	var fields []string
	if len(c) < 1 || len(c) > 3 {
		fields = append(fields, "phone_country", "must be 1-3 digits")
	}
	if len(a) < 2 || len(a) > 4 {
		fields = append(fields, "phone_area", "must be 2-4 digits")
	}
	if len(s) != 8 {
		fields = append(fields, "phone_number", "must be exactly 8 digits")
	}
	if len(fields) > 0 {
		return Number{}, goerror.NewInvalidInput(nil, fields...)
	}

	return Number{country: c, area: a, subscriber: s}, nil
}

// IsZero reports whether n was not built via New.
func (n Number) IsZero() bool {
	return n.country == "" && n.area == "" && n.subscriber == ""
}

// Display renders the number for humans: "+{country} {area} {dddd-dddd}".
func (n Number) Display() string {
	return "+" + n.country + " " + n.area + " " + groupSubscriber(n.subscriber)
}

// Dispatch renders the canonical digit string used to identify the contact
// on confirmation and issuance calls. No mobile indicator is inserted.
func (n Number) Dispatch() string {
	return n.country + n.area + n.subscriber
}

// Messaging renders the mobile-terminated route used when requesting a code:
// the country code, the mobile indicator, then area and subscriber.
func (n Number) Messaging() string {
	return n.country + mobileIndicator + n.area + n.subscriber
}

// Masked renders the display form with every subscriber digit but the last
// two obscured. The full number must never reach logs or screens once a code
// has been dispatched.
func (n Number) Masked() string {
	masked := strings.Repeat("*", len(n.subscriber)-2) + n.subscriber[len(n.subscriber)-2:]
	return "+" + n.country + " " + n.area + " " + groupSubscriber(masked)
}

// groupSubscriber inserts the dddd-dddd separator for 8-character values and
// leaves anything else untouched.
func groupSubscriber(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[:4] + "-" + s[4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
