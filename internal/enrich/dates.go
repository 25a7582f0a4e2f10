// Package enrich derives or repairs fields that cannot be computed from a
// single raw value alone: date token validation, product validity intervals,
// monetary reconciliation and the future-birthdate guard. Every
// "now"-relative rule reads the pinned run clock from runcontext; nothing in
// this package touches the wall clock.
package enrich

import (
	"context"
	"strconv"
	"time"

	"prism/pkg/runcontext"
)

const dateTokenLayout = "20060102"

// Date token repair reasons.
const (
	ReasonDateBadLength   = "date_bad_length"
	ReasonDateZero        = "date_zero"
	ReasonDateNotCalendar = "date_not_calendar"
	ReasonFutureBirthdate = "future_birthdate"
)

// ParseDateToken validates and parses an integer-encoded calendar date.
// A token is accepted only when its decimal digit count is exactly 8 and its
// value is non-zero; anything else yields nil plus the rejection reason.
// Length-valid tokens that do not denote a calendar date (e.g. month 13) also
// yield nil: the upstream rule checks only length and zero, and this
// implementation folds the parse failure into the same repair-not-reject
// policy instead of hard-failing the cast.
func ParseDateToken(token *int64) (*time.Time, string) {
	if token == nil {
		return nil, ""
	}
	if *token == 0 {
		return nil, ReasonDateZero
	}
	digits := strconv.FormatInt(*token, 10)
	if len(digits) != 8 || *token < 0 {
		return nil, ReasonDateBadLength
	}
	t, err := time.Parse(dateTokenLayout, digits)
	if err != nil {
		return nil, ReasonDateNotCalendar
	}
	return &t, ""
}

// GuardBirthdate nulls any birthdate strictly later than the pinned run
// clock. Returns the kept value and whether a repair happened.
func GuardBirthdate(ctx context.Context, birthdate *time.Time) (*time.Time, bool) {
	if birthdate == nil {
		return nil, false
	}
	if birthdate.After(runcontext.Now(ctx)) {
		return nil, true
	}
	return birthdate, false
}
