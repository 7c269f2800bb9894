// Package query holds the pure collection operations over campaign
// snapshots: brand filtering, chronological ordering, and the
// upcoming-notification window.
package query

import (
	"sort"
	"time"

	"omniplan/internal/dateutil"
	"omniplan/internal/model"
)

// FilterByBrands keeps campaigns whose brand is in the selection.
// Selection has set semantics; order and duplicates are irrelevant.
func FilterByBrands(campaigns []model.Campaign, selectedBrandIDs []string) []model.Campaign {
	selected := make(map[string]struct{}, len(selectedBrandIDs))
	for _, id := range selectedBrandIDs {
		selected[id] = struct{}{}
	}

	out := make([]model.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if _, ok := selected[c.BrandID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SortByDateTime returns a new slice ordered ascending by date plus
// time. Campaigns without a time sort as midnight of their date, so
// they never come after same-day campaigns that have one. Equal keys
// keep their input order.
func SortByDateTime(campaigns []model.Campaign) []model.Campaign {
	out := make([]model.Campaign, len(campaigns))
	copy(out, campaigns)

	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i]) < sortKey(out[j])
	})
	return out
}

// sortKey builds a lexicographically ordered date+time key. ISO dates
// and 24-hour clock strings compare correctly as text, and a missing
// time becomes midnight.
func sortKey(c model.Campaign) string {
	t := c.Time
	if t == "" {
		t = "00:00"
	}
	return c.Date + "T" + t
}

// UpcomingWithin selects campaigns flagged for notification that are
// not yet sent and whose date falls inside [reference, reference +
// windowDays], both bounds at calendar-day granularity. Time of day is
// ignored for this comparison.
func UpcomingWithin(campaigns []model.Campaign, windowDays int, reference time.Time) []model.Campaign {
	from := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, windowDays)

	out := make([]model.Campaign, 0)
	for _, c := range campaigns {
		if !c.Notify || c.Status == model.StatusSent {
			continue
		}
		d, err := dateutil.ParseISODate(c.Date)
		if err != nil {
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out
}
