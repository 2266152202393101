// Package resolve maps free-text entity mentions (states, crops) to the
// canonical values actually present in a dataset snapshot. Resolution is
// deterministic for a fixed snapshot and must be re-derived after a refresh.
package resolve

import (
	"strings"

	"agri-insights/internal/dataset"
	"agri-insights/internal/fuzzy"
)

// DefaultThreshold is the minimum similarity for a fuzzy match to count.
const DefaultThreshold = 0.75

// Resolver resolves entity mentions against one snapshot's vocabularies.
type Resolver struct {
	snapshot  *dataset.Snapshot
	threshold float64
}

// New creates a Resolver bound to a snapshot. A threshold of 0 selects
// DefaultThreshold.
func New(snapshot *dataset.Snapshot, threshold float64) *Resolver {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Resolver{snapshot: snapshot, threshold: threshold}
}

// State resolves a state mention: exact membership in either dataset's
// vocabulary first, then fuzzy against production states, then fuzzy against
// rainfall states. First success wins.
func (r *Resolver) State(query string) (string, bool) {
	if query == "" {
		return "", false
	}

	normalized := dataset.TitleCase(strings.ReplaceAll(query, "_", " "))

	if r.snapshot.HasProductionState(normalized) {
		return normalized, true
	}
	if r.snapshot.HasRainfallState(normalized) {
		return normalized, true
	}

	if match, _, ok := fuzzy.FindBestMatch(normalized, r.snapshot.ProductionStates, r.threshold); ok {
		return match, true
	}
	if match, _, ok := fuzzy.FindBestMatch(normalized, r.snapshot.RainfallStates, r.threshold); ok {
		return match, true
	}

	return "", false
}

// Crop resolves a crop mention: exact membership, then the synonym group
// matched case-insensitively against the canonical crops, then fuzzy.
func (r *Resolver) Crop(query string) (string, bool) {
	if query == "" {
		return "", false
	}

	normalized := dataset.TitleCase(strings.ReplaceAll(query, "_", " "))

	if r.snapshot.HasCrop(normalized) {
		return normalized, true
	}

	for _, synonym := range fuzzy.CropSynonyms(normalized) {
		for _, crop := range r.snapshot.Crops {
			if strings.EqualFold(crop, synonym) {
				return crop, true
			}
		}
	}

	if match, _, ok := fuzzy.FindBestMatch(normalized, r.snapshot.Crops, r.threshold); ok {
		return match, true
	}

	return "", false
}

// KnownStates lists the canonical state vocabulary for error messages,
// production states first, rainfall-only states appended.
func (r *Resolver) KnownStates() []string {
	states := make([]string, 0, len(r.snapshot.ProductionStates))
	states = append(states, r.snapshot.ProductionStates...)
	for _, s := range r.snapshot.RainfallStates {
		if !r.snapshot.HasProductionState(s) {
			states = append(states, s)
		}
	}
	return states
}

// KnownCrops lists the canonical crop vocabulary for error messages.
func (r *Resolver) KnownCrops() []string {
	crops := make([]string, len(r.snapshot.Crops))
	copy(crops, r.snapshot.Crops)
	return crops
}
