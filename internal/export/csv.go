package export

import (
	"encoding/csv"
	"strings"

	"omniplan/internal/model"
)

// unknownBrandCSV is the tabular export's dangling-reference fallback.
const unknownBrandCSV = "Unknown"

// csvHeader is the fixed column order of the tabular export.
var csvHeader = []string{"ID", "Brand", "Date", "Time", "Title", "Type", "Status", "Segment"}

// CSV renders campaigns as comma-delimited text: one header row, then
// one row per campaign in the given order. Fields containing the
// delimiter (or quotes/newlines) are quoted by the writer.
func CSV(campaigns []model.Campaign, brands map[string]model.Brand) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, c := range campaigns {
		brandName := unknownBrandCSV
		if brand, ok := brands[c.BrandID]; ok {
			brandName = brand.Name
		}
		row := []string{c.ID, brandName, c.Date, c.Time, c.Title, string(c.Type), string(c.Status), c.Segment}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return b.String(), w.Error()
}
