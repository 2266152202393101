package analytics

import (
	"fmt"
	"sort"

	apperrors "agri-insights/internal/common/errors"
	"agri-insights/internal/dataset"
	"agri-insights/internal/interpret"
)

// productionTrendWithClimate charts a crop's yearly production in one region
// alongside rainfall, with a growth figure and a rainfall correlation readout.
func (e *Engine) productionTrendWithClimate(p interpret.Params) (*AnswerPayload, error) {
	region, err := e.resolveState("region", p.Region, e.snap.ProductionStates)
	if err != nil {
		return nil, err
	}
	crop, err := e.resolveCrop(p.Crop)
	if err != nil {
		return nil, err
	}

	production := make([]dataset.ProductionRow, 0)
	prodYears := map[int]bool{}
	for _, row := range e.snap.Production {
		if row.State == region && row.Crop == crop {
			production = append(production, row)
			prodYears[row.Year] = true
		}
	}
	if len(production) == 0 {
		return nil, apperrors.NewEmptyResultError("No production data found for the selected region/crop.")
	}

	rainfall := make([]dataset.RainfallRow, 0)
	for _, row := range e.snap.Rainfall {
		if row.State == region {
			rainfall = append(rainfall, row)
		}
	}
	if len(rainfall) == 0 {
		return nil, apperrors.NewEmptyResultError("No rainfall data found for the selected region.")
	}

	nYears := p.Years
	if nYears <= 0 {
		nYears = e.cfg.DefaultTrendYears
	}
	window := yearWindow(distinctYears(prodYears), nYears)

	// Yearly production totals in ascending year order.
	prodByYear := map[int]float64{}
	for _, row := range production {
		if containsYear(window, row.Year) {
			prodByYear[row.Year] += row.ProductionTonnes
		}
	}
	prodValues := make([]float64, 0, len(window))
	for _, year := range window {
		if v, ok := prodByYear[year]; ok {
			prodValues = append(prodValues, v)
		}
	}

	rainInWindow := make([]dataset.RainfallRow, 0, len(rainfall))
	for _, row := range rainfall {
		if containsYear(window, row.Year) {
			rainInWindow = append(rainInWindow, row)
		}
	}
	sort.SliceStable(rainInWindow, func(i, j int) bool {
		return rainInWindow[i].Year < rainInWindow[j].Year
	})

	// Inner join of the production series with the rainfall rows on year.
	tableRows := make([][]interface{}, 0, len(rainInWindow))
	var mergedProd, mergedRain []float64
	for _, row := range rainInWindow {
		total, ok := prodByYear[row.Year]
		if !ok {
			continue
		}
		tableRows = append(tableRows, []interface{}{
			row.Year, roundTonnes(total), roundMM(row.AnnualRainfallMM),
		})
		mergedProd = append(mergedProd, total)
		mergedRain = append(mergedRain, row.AnnualRainfallMM)
	}

	corr := pearson(mergedProd, mergedRain)

	table := Table{
		Title:   fmt.Sprintf("%s %s vs rainfall", region, crop),
		Headers: []string{"Year", "Production (tonnes)", "Rainfall (mm)"},
		Rows:    tableRows,
	}

	answer := fmt.Sprintf(
		"%s recorded a %.1f%% change in %s production over %d year(s). Rainfall correlation indicates %s (r=%.2f).",
		region, growth(prodValues), crop, len(window), interpretCorrelation(corr), corr,
	)

	return &AnswerPayload{
		Answer:    answer,
		Tables:    []Table{table},
		Citations: []Citation{e.citation(dataset.NameAgriculture), e.citation(dataset.NameRainfall)},
	}, nil
}
