package analytics

import (
	"fmt"
	"sort"
	"strings"

	apperrors "agri-insights/internal/common/errors"
	"agri-insights/internal/dataset"
	"agri-insights/internal/interpret"
)

// policyArguments compares two crops in a region over a recent year window and
// frames the numbers as arguments for shifting towards the first crop.
func (e *Engine) policyArguments(p interpret.Params) (*AnswerPayload, error) {
	region, err := e.resolveState("region", p.Region, e.snap.ProductionStates)
	if err != nil {
		return nil, err
	}
	cropA, err := e.resolveCrop(p.CropA)
	if err != nil {
		return nil, err
	}
	cropB, err := e.resolveCrop(p.CropB)
	if err != nil {
		return nil, err
	}

	seenYears := map[int]bool{}
	for _, row := range e.snap.Production {
		if row.State == region {
			seenYears[row.Year] = true
		}
	}
	if len(seenYears) == 0 {
		return nil, apperrors.NewEmptyResultError(fmt.Sprintf("No production data found for %s.", region))
	}

	nYears := p.Years
	if nYears <= 0 {
		nYears = e.cfg.DefaultPolicyYears
	}
	window := yearWindow(distinctYears(seenYears), nYears)

	// Yearly totals per crop inside the window.
	totals := map[string]map[int]float64{cropA: {}, cropB: {}}
	for _, row := range e.snap.Production {
		if row.State != region || !containsYear(window, row.Year) {
			continue
		}
		if row.Crop != cropA && row.Crop != cropB {
			continue
		}
		totals[row.Crop][row.Year] += row.ProductionTonnes
	}

	rainfall := make([]dataset.RainfallRow, 0)
	for _, row := range e.snap.Rainfall {
		if row.State == region && containsYear(window, row.Year) {
			rainfall = append(rainfall, row)
		}
	}
	sort.SliceStable(rainfall, func(i, j int) bool { return rainfall[i].Year < rainfall[j].Year })

	insights := make([]string, 0, 3)
	tables := make([]Table, 0, 3)

	for _, crop := range []string{cropA, cropB} {
		byYear := totals[crop]
		if len(byYear) == 0 {
			insights = append(insights, fmt.Sprintf("No production records for %s in %s.", crop, region))
			continue
		}

		values := make([]float64, 0, len(byYear))
		rows := make([][]interface{}, 0, len(byYear))
		var sum float64
		for _, year := range window {
			v, ok := byYear[year]
			if !ok {
				continue
			}
			values = append(values, v)
			sum += v
			rows = append(rows, []interface{}{year, roundTonnes(v)})
		}

		insights = append(insights, fmt.Sprintf(
			"%s: avg %.1f tonnes over %d year(s) with %.1f%% total change.",
			crop, sum/float64(len(values)), len(window), growth(values),
		))
		tables = append(tables, Table{
			Title:   fmt.Sprintf("%s production", crop),
			Headers: []string{"Year", "Production (tonnes)"},
			Rows:    rows,
		})
	}

	if len(rainfall) > 0 {
		values := make([]float64, 0, len(rainfall))
		rows := make([][]interface{}, 0, len(rainfall))
		var sum float64
		for _, row := range rainfall {
			values = append(values, row.AnnualRainfallMM)
			sum += row.AnnualRainfallMM
			rows = append(rows, []interface{}{row.Year, roundMM(row.AnnualRainfallMM)})
		}
		insights = append(insights, fmt.Sprintf(
			"Rainfall averaged %.1f mm with %.1f%% change, affecting water availability for %s.",
			sum/float64(len(values)), growth(values), cropB,
		))
		tables = append(tables, Table{
			Title:   "Rainfall context",
			Headers: []string{"Year", "Rainfall (mm)"},
			Rows:    rows,
		})
	}

	if len(insights) > 3 {
		insights = insights[:3]
	}
	answer := fmt.Sprintf("Supporting a shift towards %s: %s", cropA, strings.Join(insights, "; "))

	return &AnswerPayload{
		Answer:    answer,
		Tables:    tables,
		Citations: []Citation{e.citation(dataset.NameAgriculture), e.citation(dataset.NameRainfall)},
	}, nil
}
