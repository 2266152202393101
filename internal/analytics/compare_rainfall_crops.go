package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "agri-insights/internal/common/errors"
	"agri-insights/internal/dataset"
	"agri-insights/internal/interpret"
)

// compareRainfallAndCrops builds the side-by-side rainfall pivot for two
// states plus each state's top crops by production over the same year window.
func (e *Engine) compareRainfallAndCrops(p interpret.Params) (*AnswerPayload, error) {
	stateA, err := e.resolveState("state", p.StateA, e.snap.RainfallStates)
	if err != nil {
		return nil, err
	}
	stateB, err := e.resolveState("state", p.StateB, e.snap.RainfallStates)
	if err != nil {
		return nil, err
	}

	topM := p.TopM
	if topM <= 0 {
		topM = e.cfg.DefaultTopCrops
	}

	rainfallRows := make([]dataset.RainfallRow, 0)
	seenYears := map[int]bool{}
	for _, row := range e.snap.Rainfall {
		if row.State == stateA || row.State == stateB {
			rainfallRows = append(rainfallRows, row)
			seenYears[row.Year] = true
		}
	}
	if len(seenYears) == 0 {
		return nil, apperrors.NewEmptyResultError("No rainfall data found for the requested states.")
	}

	nYears := p.Years
	if nYears <= 0 {
		nYears = e.cfg.DefaultRainfallYears
	}
	window := yearWindow(distinctYears(seenYears), nYears)

	// Per state-year rainfall averages plus per-state overall means, both
	// restricted to the window.
	type cell struct {
		sum   float64
		count int
	}
	pivot := map[string]map[int]*cell{stateA: {}, stateB: {}}
	stateSum := map[string]float64{}
	stateCount := map[string]int{}
	for _, row := range rainfallRows {
		if !containsYear(window, row.Year) {
			continue
		}
		c := pivot[row.State][row.Year]
		if c == nil {
			c = &cell{}
			pivot[row.State][row.Year] = c
		}
		c.sum += row.AnnualRainfallMM
		c.count++
		stateSum[row.State] += row.AnnualRainfallMM
		stateCount[row.State]++
	}

	rainfallTableRows := make([][]interface{}, 0, len(window))
	for _, year := range window {
		tr := []interface{}{year}
		for _, state := range []string{stateA, stateB} {
			if c := pivot[state][year]; c != nil {
				tr = append(tr, roundMM(c.sum/float64(c.count)))
			} else {
				tr = append(tr, nil)
			}
		}
		rainfallTableRows = append(rainfallTableRows, tr)
	}
	rainfallTable := Table{
		Title:   "Average annual rainfall (mm)",
		Headers: []string{"Year", stateA, stateB},
		Rows:    rainfallTableRows,
	}

	// Crop filters match a canonical crop when possible and fall back to a
	// case-insensitive substring check.
	cropMatch := func(crop string) bool { return true }
	if p.CropFilter != "" {
		if matched, ok := e.resolver.Crop(p.CropFilter); ok {
			cropMatch = func(crop string) bool { return crop == matched }
		} else {
			needle := strings.ToLower(p.CropFilter)
			cropMatch = func(crop string) bool {
				return strings.Contains(strings.ToLower(crop), needle)
			}
		}
	}

	totals := map[string]map[string]float64{stateA: {}, stateB: {}}
	cropOrder := map[string][]string{}
	for _, row := range e.snap.Production {
		if row.State != stateA && row.State != stateB {
			continue
		}
		if !containsYear(window, row.Year) || !cropMatch(row.Crop) {
			continue
		}
		if _, seen := totals[row.State][row.Crop]; !seen {
			cropOrder[row.State] = append(cropOrder[row.State], row.Crop)
		}
		totals[row.State][row.Crop] += row.ProductionTonnes
	}

	cropRows := make([][]interface{}, 0)
	for _, state := range []string{stateA, stateB} {
		ranked := rankCrops(cropOrder[state], totals[state], topM)
		if len(ranked) == 0 {
			cropRows = append(cropRows, []interface{}{state, "No data", "—"})
			continue
		}
		for _, entry := range ranked {
			cropRows = append(cropRows, []interface{}{state, entry.crop, roundTonnes(entry.total)})
		}
	}

	cropTitle := fmt.Sprintf("Top %d crops by production", topM)
	if p.CropFilter != "" {
		cropTitle += fmt.Sprintf(" (filter: %s)", p.CropFilter)
	}
	cropTable := Table{
		Title:   cropTitle,
		Headers: []string{"State", "Crop", "Production (tonnes)"},
		Rows:    cropRows,
	}

	answer := fmt.Sprintf(
		"Compared rainfall for %s and %s over %d year(s). %s averaged %.1f mm while %s averaged %.1f mm.",
		stateA, stateB, len(window),
		stateA, meanOrNaN(stateSum[stateA], stateCount[stateA]),
		stateB, meanOrNaN(stateSum[stateB], stateCount[stateB]),
	)
	if p.CropFilter != "" {
		answer += fmt.Sprintf(" Filtered crop category: %s.", p.CropFilter)
	}

	return &AnswerPayload{
		Answer:    answer,
		Tables:    []Table{rainfallTable, cropTable},
		Citations: []Citation{e.citation(dataset.NameRainfall), e.citation(dataset.NameAgriculture)},
	}, nil
}

type cropTotal struct {
	crop  string
	total float64
}

// rankCrops orders crops by total production descending and keeps the top m.
// Ties keep the order crops first appeared in the data.
func rankCrops(order []string, totals map[string]float64, m int) []cropTotal {
	ranked := make([]cropTotal, 0, len(order))
	for _, crop := range order {
		ranked = append(ranked, cropTotal{crop: crop, total: totals[crop]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].total > ranked[j].total
	})
	if m < len(ranked) {
		ranked = ranked[:m]
	}
	return ranked
}

func meanOrNaN(sum float64, count int) float64 {
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
