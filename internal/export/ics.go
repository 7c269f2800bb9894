// Package export converts campaign snapshots into the two interchange
// documents the client offers for download: an iCalendar event list and
// a CSV table.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"omniplan/internal/dateutil"
	"omniplan/internal/model"
)

const (
	productID = "-//OmniPlan//Marketing Calendar//ES"
	uidDomain = "omniplan.app"

	// unknownBrandICS labels events whose campaign references a brand
	// that no longer exists. Dangling references degrade, never fail.
	unknownBrandICS = "Marca"

	blastMarker     = "💥"
	blastMarkerLine = "💥 ES BOMBA 💥"

	// Floating local date-time, no zone designator. Calendar dates in
	// this system carry no time zone, so events are exported as
	// "floating" per RFC 5545 §3.3.5.
	floatingStamp = "20060102T150405"
)

// ICS renders campaigns as a VCALENDAR document, one VEVENT per
// campaign. A campaign with a clock time becomes a one-hour timed
// event; one without becomes an all-day event with an exclusive
// next-day DTEND. now is used for DTSTAMP.
func ICS(campaigns []model.Campaign, brands map[string]model.Brand, now time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)

	for _, c := range campaigns {
		date, err := dateutil.ParseISODate(c.Date)
		if err != nil {
			return "", fmt.Errorf("export: campaign %s has malformed date %q: %w", c.ID, c.Date, err)
		}

		brandName := unknownBrandICS
		if b, ok := brands[c.BrandID]; ok {
			brandName = b.Name
		}

		ev := cal.AddEvent(c.ID + "@" + uidDomain)
		ev.SetDtStampTime(now.UTC())

		if c.Time != "" {
			hour, minute, err := dateutil.ParseClock(c.Time)
			if err != nil {
				return "", fmt.Errorf("export: campaign %s has malformed time %q: %w", c.ID, c.Time, err)
			}
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
			ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingStamp))
			ev.SetProperty(ical.ComponentPropertyDtEnd, start.Add(time.Hour).Format(floatingStamp))
		} else {
			ev.SetAllDayStartAt(date)
			ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
		}

		// SetSummary/SetDescription apply RFC 5545 TEXT escaping; values
		// must go in raw.
		ev.SetSummary(eventSummary(c, brandName))
		ev.SetDescription(eventDescription(c, brandName))
		ev.SetStatus(ical.ObjectStatusConfirmed)
		ev.SetTimeTransparency(ical.TransparencyTransparent)
	}

	return cal.Serialize(), nil
}

func eventSummary(c model.Campaign, brandName string) string {
	s := "[" + brandName + "] " + c.Title
	if c.Tactics.IsBlast {
		s += " " + blastMarker
	}
	return s
}

// eventDescription concatenates, in fixed order: brand, type label,
// optional detail, call to action, coupon, the blast marker, and one
// line per touchpoint.
func eventDescription(c model.Campaign, brandName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Marca: %s\n", brandName)
	fmt.Fprintf(&b, "Tipo: %s\n", model.TypeLabel(c.Type))
	if c.Description != "" {
		fmt.Fprintf(&b, "Detalle: %s\n", c.Description)
	}
	if c.Tactics.CallToAction != "" {
		fmt.Fprintf(&b, "CTA: %s\n", c.Tactics.CallToAction)
	}
	if c.Tactics.Coupon != "" {
		fmt.Fprintf(&b, "Cupón: %s\n", c.Tactics.Coupon)
	}
	if c.Tactics.IsBlast {
		b.WriteString(blastMarkerLine + "\n")
	}
	if len(c.Touchpoints) > 0 {
		b.WriteString("\nCanales/Toques:\n")
		for _, tp := range c.Touchpoints {
			fmt.Fprintf(&b, "- [%s] %s\n", model.ChannelLabel(tp.Channel), tp.Name)
		}
	}
	return b.String()
}
