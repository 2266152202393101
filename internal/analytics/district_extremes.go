package analytics

import (
	"fmt"

	apperrors "agri-insights/internal/common/errors"
	"agri-insights/internal/dataset"
	"agri-insights/internal/interpret"
)

// districtExtremes finds the top-producing district of one state and the
// lowest-producing district of another for a crop and year. Missing data for
// either state degrades that side to a placeholder row, not an error.
func (e *Engine) districtExtremes(p interpret.Params) (*AnswerPayload, error) {
	stateA, err := e.resolveState("state", p.StateA, e.snap.ProductionStates)
	if err != nil {
		return nil, err
	}
	stateB, err := e.resolveState("state", p.StateB, e.snap.ProductionStates)
	if err != nil {
		return nil, err
	}
	crop, err := e.resolveCrop(p.Crop)
	if err != nil {
		return nil, err
	}

	subset := make([]dataset.ProductionRow, 0)
	for _, row := range e.snap.Production {
		if row.Crop != crop {
			continue
		}
		if p.Year != 0 && row.Year != p.Year {
			continue
		}
		subset = append(subset, row)
	}
	if len(subset) == 0 {
		return nil, apperrors.NewEmptyResultError("No production data found for the requested crop/year.")
	}

	year := p.Year
	if year == 0 {
		for _, row := range subset {
			if row.Year > year {
				year = row.Year
			}
		}
	}

	var stateARows, stateBRows []dataset.ProductionRow
	for _, row := range subset {
		if row.Year != year {
			continue
		}
		switch row.State {
		case stateA:
			stateARows = append(stateARows, row)
		case stateB:
			stateBRows = append(stateBRows, row)
		}
	}

	rows := make([][]interface{}, 0, 2)
	parts := make([]string, 0, 2)

	if len(stateARows) == 0 {
		rows = append(rows, []interface{}{stateA, "No records", "—"})
		parts = append(parts, fmt.Sprintf("%s did not report %s production in %d.", stateA, crop, year))
	} else {
		maxRow := stateARows[0]
		for _, row := range stateARows[1:] {
			if row.ProductionTonnes > maxRow.ProductionTonnes {
				maxRow = row
			}
		}
		rows = append(rows, []interface{}{stateA, maxRow.District, roundTonnes(maxRow.ProductionTonnes)})
		parts = append(parts, fmt.Sprintf(
			"%s's peak output came from %s with %.1f tonnes.",
			stateA, maxRow.District, maxRow.ProductionTonnes,
		))
	}

	if len(stateBRows) == 0 {
		rows = append(rows, []interface{}{stateB, "No records", "—"})
		parts = append(parts, fmt.Sprintf("%s did not report %s production in %d.", stateB, crop, year))
	} else {
		minRow := stateBRows[0]
		for _, row := range stateBRows[1:] {
			if row.ProductionTonnes < minRow.ProductionTonnes {
				minRow = row
			}
		}
		rows = append(rows, []interface{}{stateB, minRow.District, roundTonnes(minRow.ProductionTonnes)})
		parts = append(parts, fmt.Sprintf(
			"%s's lowest output was %s at %.1f tonnes.",
			stateB, minRow.District, minRow.ProductionTonnes,
		))
	}

	table := Table{
		Title:   fmt.Sprintf("District extremes for %s in %d", crop, year),
		Headers: []string{"State", "District", "Production (tonnes)"},
		Rows:    rows,
	}

	return &AnswerPayload{
		Answer:    parts[0] + " " + parts[1],
		Tables:    []Table{table},
		Citations: []Citation{e.citation(dataset.NameAgriculture)},
	}, nil
}
