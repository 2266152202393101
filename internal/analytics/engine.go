// Package analytics executes the intent-specific aggregations over a dataset
// snapshot and builds the answer payload. Each intent maps to one pure
// computation; a request either yields a full payload or exactly one
// descriptive error, never partial tables.
package analytics

import (
	"sort"

	"agri-insights/internal/common/config"
	apperrors "agri-insights/internal/common/errors"
	"agri-insights/internal/common/logger"
	"agri-insights/internal/dataset"
	"agri-insights/internal/interpret"
	"agri-insights/internal/resolve"
)

// Engine answers resolved questions against one immutable snapshot. It holds
// no state across requests beyond the snapshot reference, so one Engine per
// request (or per snapshot) is cheap and safe.
type Engine struct {
	snap     *dataset.Snapshot
	resolver *resolve.Resolver
	cfg      config.AnalyticsConfig
	logger   logger.Logger
}

// New binds an engine to a snapshot.
func New(snap *dataset.Snapshot, cfg config.AnalyticsConfig, log logger.Logger) *Engine {
	applyAnalyticsDefaults(&cfg)
	return &Engine{
		snap:     snap,
		resolver: resolve.New(snap, cfg.FuzzyThreshold),
		cfg:      cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "analytics"}),
	}
}

func applyAnalyticsDefaults(cfg *config.AnalyticsConfig) {
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = resolve.DefaultThreshold
	}
	if cfg.DefaultRainfallYears == 0 {
		cfg.DefaultRainfallYears = 5
	}
	if cfg.DefaultTrendYears == 0 {
		cfg.DefaultTrendYears = 10
	}
	if cfg.DefaultPolicyYears == 0 {
		cfg.DefaultPolicyYears = 5
	}
	if cfg.DefaultTopCrops == 0 {
		cfg.DefaultTopCrops = 3
	}
}

// Answer dispatches a parsed question to its intent computation.
func (e *Engine) Answer(parsed interpret.ParsedQuestion) (*AnswerPayload, error) {
	switch parsed.Intent {
	case interpret.IntentCompareRainfallAndCrops:
		return e.compareRainfallAndCrops(parsed.Params)
	case interpret.IntentDistrictExtremes:
		return e.districtExtremes(parsed.Params)
	case interpret.IntentProductionTrend:
		return e.productionTrendWithClimate(parsed.Params)
	case interpret.IntentPolicyArguments:
		return e.policyArguments(parsed.Params)
	default:
		return nil, apperrors.NewMalformedQuestionError(parsed.Params.Raw)
	}
}

// ==========================
// Shared helpers
// ==========================

// resolveState resolves a state mention or fails with the known alternatives.
// The kind ("state" or "region") only changes the error wording.
func (e *Engine) resolveState(kind, query string, alternatives []string) (string, error) {
	if match, ok := e.resolver.State(query); ok {
		return match, nil
	}
	return "", apperrors.NewUnresolvedEntityError(kind, query, alternatives)
}

func (e *Engine) resolveCrop(query string) (string, error) {
	if match, ok := e.resolver.Crop(query); ok {
		return match, nil
	}
	return "", apperrors.NewUnresolvedEntityError("crop", query, e.resolver.KnownCrops())
}

// yearWindow picks the most recent n of the given years and returns them in
// ascending order. n larger than the available count selects everything.
func yearWindow(years []int, n int) []int {
	sorted := make([]int, len(years))
	copy(sorted, years)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	sort.Ints(sorted)
	return sorted
}

// distinctYears collects distinct values preserving nothing but the set.
func distinctYears(seen map[int]bool) []int {
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func containsYear(window []int, year int) bool {
	for _, y := range window {
		if y == year {
			return true
		}
	}
	return false
}

func (e *Engine) citation(name string) Citation {
	meta := e.snap.Metadata(name)
	source := meta.SourceURL
	if source == "" {
		source = "https://data.gov.in"
	}
	return Citation{
		Dataset:    name,
		Source:     source,
		ResourceID: meta.ResourceID,
	}
}
