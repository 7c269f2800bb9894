package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniplan/internal/model"
)

var stamp = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func acme() map[string]model.Brand {
	return map[string]model.Brand{
		"b1": {ID: "b1", Name: "Acme", Industry: "Retail"},
	}
}

func springSale() model.Campaign {
	return model.Campaign{
		ID:      "c1",
		BrandID: "b1",
		Title:   "Spring Sale",
		Date:    "2024-03-10",
		Time:    "09:30",
		Status:  model.StatusPlanned,
		Type:    model.TypePromotion,
		Tactics: model.Tactics{IsBlast: true, Coupon: "SPRING10", CallToAction: "Shop now"},
		Touchpoints: []model.Touchpoint{
			{ID: "t1", Channel: model.ChannelEmail, Name: "Teaser"},
		},
	}
}

// unfold undoes RFC 5545 line folding so substring assertions are not
// broken by wrap points.
func unfold(s string) string {
	return strings.ReplaceAll(s, "\r\n ", "")
}

func TestICSTimedEvent(t *testing.T) {
	out, err := ICS([]model.Campaign{springSale()}, acme(), stamp)
	require.NoError(t, err)
	doc := unfold(out)

	assert.Contains(t, doc, "BEGIN:VCALENDAR")
	assert.Contains(t, doc, "END:VCALENDAR")
	assert.Contains(t, doc, "PRODID:-//OmniPlan//Marketing Calendar//ES")
	assert.Contains(t, doc, "METHOD:PUBLISH")
	assert.Contains(t, doc, "UID:c1@omniplan.app")

	// One-hour floating event, no zone designator.
	assert.Contains(t, doc, "DTSTART:20240310T093000")
	assert.Contains(t, doc, "DTEND:20240310T103000")
	assert.NotContains(t, doc, "DTSTART:20240310T093000Z")

	assert.Contains(t, doc, "STATUS:CONFIRMED")
	assert.Contains(t, doc, "TRANSP:TRANSPARENT")
}

func TestICSSummaryAndDescription(t *testing.T) {
	out, err := ICS([]model.Campaign{springSale()}, acme(), stamp)
	require.NoError(t, err)
	doc := unfold(out)

	assert.Contains(t, doc, "SUMMARY:[Acme] Spring Sale 💥")

	assert.Contains(t, doc, "Marca: Acme")
	assert.Contains(t, doc, "Tipo: Promoción")
	assert.Contains(t, doc, "CTA: Shop now")
	assert.Contains(t, doc, "Cupón: SPRING10")
	assert.Contains(t, doc, "💥 ES BOMBA 💥")
	assert.Contains(t, doc, "- [Email Marketing] Teaser")

	// Line breaks inside DESCRIPTION are escaped exactly once, so a
	// calendar client renders them as real line breaks.
	assert.Contains(t, doc, `Marca: Acme\nTipo: Promoción`)
	assert.NotContains(t, doc, `\\n`)
}

func TestICSAllDayEvent(t *testing.T) {
	c := springSale()
	c.Time = ""

	out, err := ICS([]model.Campaign{c}, acme(), stamp)
	require.NoError(t, err)
	doc := unfold(out)

	// All-day with exclusive next-day end.
	assert.Contains(t, doc, "DTSTART;VALUE=DATE:20240310")
	assert.Contains(t, doc, "DTEND;VALUE=DATE:20240311")
}

func TestICSAllDayEndCrossesMonth(t *testing.T) {
	c := springSale()
	c.Time = ""
	c.Date = "2024-03-31"

	out, err := ICS([]model.Campaign{c}, acme(), stamp)
	require.NoError(t, err)
	doc := unfold(out)

	assert.Contains(t, doc, "DTSTART;VALUE=DATE:20240331")
	assert.Contains(t, doc, "DTEND;VALUE=DATE:20240401")
}

func TestICSUnknownBrandPlaceholder(t *testing.T) {
	c := springSale()
	c.BrandID = "gone"

	out, err := ICS([]model.Campaign{c}, acme(), stamp)
	require.NoError(t, err)
	doc := unfold(out)

	assert.Contains(t, doc, "SUMMARY:[Marca] Spring Sale")
	assert.Contains(t, doc, "Marca: Marca")
}

func TestICSNoBlastMarkerWhenUnset(t *testing.T) {
	c := springSale()
	c.Tactics.IsBlast = false

	out, err := ICS([]model.Campaign{c}, acme(), stamp)
	require.NoError(t, err)
	doc := unfold(out)

	assert.Contains(t, doc, "SUMMARY:[Acme] Spring Sale")
	assert.NotContains(t, doc, "💥")
}

func TestICSEscapesTextValues(t *testing.T) {
	c := springSale()
	c.Title = "Sale; 2x1, big"
	c.Tactics.IsBlast = false

	out, err := ICS([]model.Campaign{c}, acme(), stamp)
	require.NoError(t, err)
	doc := unfold(out)

	assert.Contains(t, doc, `SUMMARY:[Acme] Sale\; 2x1\, big`)
	assert.NotContains(t, doc, `\\;`)
	assert.NotContains(t, doc, `\\,`)
}

func TestICSMalformedDateFails(t *testing.T) {
	c := springSale()
	c.Date = "10/03/2024"

	_, err := ICS([]model.Campaign{c}, acme(), stamp)
	assert.Error(t, err)
}

func TestCSV(t *testing.T) {
	campaigns := []model.Campaign{
		springSale(),
		{
			ID:      "c2",
			BrandID: "missing",
			Title:   "Hello, world",
			Date:    "2024-03-11",
			Status:  model.StatusSent,
			Type:    model.TypeLaunch,
			Segment: "VIP",
		},
	}

	out, err := CSV(campaigns, acme())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "ID,Brand,Date,Time,Title,Type,Status,Segment", lines[0])
	assert.Equal(t, "c1,Acme,2024-03-10,09:30,Spring Sale,promotion,planned,", lines[1])
	// Unknown brand falls back; the comma in the title forces quoting.
	assert.Equal(t, `c2,Unknown,2024-03-11,,"Hello, world",launch,sent,VIP`, lines[2])
}

func TestCSVEmptyCollection(t *testing.T) {
	out, err := CSV(nil, acme())
	require.NoError(t, err)
	assert.Equal(t, "ID,Brand,Date,Time,Title,Type,Status,Segment\n", out)
}
