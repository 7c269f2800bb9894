// Package recur turns a campaign template plus a recurrence rule into a
// sequence of dated campaign instances. It is invoked only when
// creating campaigns (including duplicates), never on in-place edits.
package recur

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"omniplan/internal/dateutil"
	"omniplan/internal/model"
)

// Kind is the recurrence rule applied to a new campaign.
type Kind string

const (
	None    Kind = "none"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

// ParseKind validates a recurrence kind string. The empty string is
// treated as None so older clients that omit the field keep working.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case None, Weekly, Monthly:
		return Kind(s), nil
	case "":
		return None, nil
	}
	return None, fmt.Errorf("recur: unknown kind %q", s)
}

// NewID generates a collision-resistant campaign identifier.
func NewID() string {
	return uuid.NewString()
}

// Expand produces campaign instances from template starting at start.
//
//   - None yields exactly one instance at start; count is ignored.
//   - Weekly yields count instances 7 days apart.
//   - Monthly yields count instances with the month advanced by one
//     each step. A start day past the end of a target month clamps to
//     that month's last day (Jan 31 -> Feb 29 in a leap year), so the
//     i-th instance always lands in start month + i.
//
// Every instance gets a fresh identifier from newID; all other template
// fields are copied verbatim. The template's own ID and Date are
// ignored.
func Expand(template model.Campaign, start time.Time, kind Kind, count int, newID func() string) ([]model.Campaign, error) {
	if newID == nil {
		newID = NewID
	}

	dates, err := occurrences(start, kind, count)
	if err != nil {
		return nil, err
	}

	out := make([]model.Campaign, 0, len(dates))
	for _, d := range dates {
		c := template
		c.ID = newID()
		c.Date = dateutil.FormatISODate(d)
		out = append(out, c)
	}
	return out, nil
}

func occurrences(start time.Time, kind Kind, count int) ([]time.Time, error) {
	if kind == None {
		return []time.Time{start}, nil
	}
	if count < 1 {
		return nil, errors.New("recur: repeat count must be at least 1")
	}

	opt := rrule.ROption{
		Count:   count,
		Dtstart: start,
	}

	switch kind {
	case Weekly:
		opt.Freq = rrule.WEEKLY
	case Monthly:
		opt.Freq = rrule.MONTHLY
		if day := start.Day(); day > 28 {
			// Clamp policy for short months: restrict BYMONTHDAY to the
			// candidates 28..day and keep the last one per month, which
			// resolves to min(day, last day of month).
			for d := 28; d <= day; d++ {
				opt.Bymonthday = append(opt.Bymonthday, d)
			}
			opt.Bysetpos = []int{-1}
		}
	default:
		return nil, fmt.Errorf("recur: unknown kind %q", kind)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}
	return r.All(), nil
}
