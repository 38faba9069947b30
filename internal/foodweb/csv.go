package foodweb

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// interactionRow mirrors one line of an interaction CSV. The optional
// numeric columns are decoded as raw strings so that an empty cell stays
// distinguishable from a recorded zero.
type interactionRow struct {
	Predator      string `csv:"predator"`
	Prey          string `csv:"prey"`
	Observations  int    `csv:"observations"`
	DietPercent   string `csv:"diet_percent"`
	EgestionCoeff string `csv:"egestion_coeff"`
}

// parseOptionalFloat maps empty and NA cells to nil ("unrecorded") and
// anything else through strconv.
func parseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "na") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// LoadInteractionsCSV reads predator-prey interaction records from a
// header-driven CSV file (columns predator, prey, observations,
// diet_percent, egestion_coeff). Rows without both a predator and a prey
// name are rejected; empty diet and egestion cells load as unrecorded,
// not as zero.
func LoadInteractionsCSV(path string) ([]Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening interactions csv: %w", err)
	}
	defer f.Close()

	var rows []*interactionRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing interactions csv %s: %w", path, err)
	}

	interactions := make([]Interaction, 0, len(rows))
	for i, row := range rows {
		if row.Predator == "" || row.Prey == "" {
			return nil, fmt.Errorf("interactions csv %s: row %d: predator and prey are required", path, i+1)
		}
		diet, err := parseOptionalFloat(row.DietPercent)
		if err != nil {
			return nil, fmt.Errorf("interactions csv %s: row %d: diet_percent %q: %w", path, i+1, row.DietPercent, err)
		}
		egestion, err := parseOptionalFloat(row.EgestionCoeff)
		if err != nil {
			return nil, fmt.Errorf("interactions csv %s: row %d: egestion_coeff %q: %w", path, i+1, row.EgestionCoeff, err)
		}
		interactions = append(interactions, Interaction{
			Predator:      row.Predator,
			Prey:          row.Prey,
			Observations:  row.Observations,
			DietPercent:   diet,
			EgestionCoeff: egestion,
		})
	}
	return interactions, nil
}
