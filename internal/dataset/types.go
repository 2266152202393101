// Package dataset loads the two tabular government datasets (crop production,
// rainfall), normalizes them and publishes immutable snapshots.
package dataset

import (
	"strings"
	"time"
	"unicode"
)

// Dataset names as configured and cited.
const (
	NameAgriculture = "agriculture"
	NameRainfall    = "rainfall"
)

// ProductionRow is one record of the crop production dataset.
type ProductionRow struct {
	State            string
	District         string
	Crop             string
	Year             int
	ProductionTonnes float64
}

// RainfallRow is one record of the rainfall dataset.
type RainfallRow struct {
	State            string
	Year             int
	AnnualRainfallMM float64
}

// Metadata identifies where a dataset came from, for citations.
type Metadata struct {
	SourceURL  string `json:"source_url"`
	ResourceID string `json:"resource_id"`
}

// Snapshot is an immutable view of both datasets plus the canonical
// vocabularies observed in them. A snapshot is never mutated after
// construction; refreshes publish a new one.
type Snapshot struct {
	Production []ProductionRow
	Rainfall   []RainfallRow

	// Canonical vocabularies, title-cased, in first-seen row order.
	ProductionStates []string
	RainfallStates   []string
	Crops            []string

	Meta     map[string]Metadata
	LoadedAt time.Time
}

// NewSnapshot normalizes the rows (title-cased names) and computes the
// canonical vocabularies. Row order is preserved; downstream tie-breaking
// depends on it.
func NewSnapshot(production []ProductionRow, rainfall []RainfallRow, meta map[string]Metadata) *Snapshot {
	s := &Snapshot{
		Production: make([]ProductionRow, len(production)),
		Rainfall:   make([]RainfallRow, len(rainfall)),
		Meta:       meta,
		LoadedAt:   time.Now().UTC(),
	}

	seenProdStates := map[string]bool{}
	seenCrops := map[string]bool{}
	for i, row := range production {
		row.State = TitleCase(row.State)
		row.District = TitleCase(row.District)
		row.Crop = TitleCase(row.Crop)
		s.Production[i] = row

		if !seenProdStates[row.State] {
			seenProdStates[row.State] = true
			s.ProductionStates = append(s.ProductionStates, row.State)
		}
		if !seenCrops[row.Crop] {
			seenCrops[row.Crop] = true
			s.Crops = append(s.Crops, row.Crop)
		}
	}

	seenRainStates := map[string]bool{}
	for i, row := range rainfall {
		row.State = TitleCase(row.State)
		s.Rainfall[i] = row

		if !seenRainStates[row.State] {
			seenRainStates[row.State] = true
			s.RainfallStates = append(s.RainfallStates, row.State)
		}
	}

	return s
}

// Metadata returns citation info for a dataset name.
func (s *Snapshot) Metadata(name string) Metadata {
	if s.Meta == nil {
		return Metadata{}
	}
	return s.Meta[name]
}

// HasProductionState reports exact membership in the production vocabulary.
func (s *Snapshot) HasProductionState(state string) bool {
	for _, v := range s.ProductionStates {
		if v == state {
			return true
		}
	}
	return false
}

// HasRainfallState reports exact membership in the rainfall vocabulary.
func (s *Snapshot) HasRainfallState(state string) bool {
	for _, v := range s.RainfallStates {
		if v == state {
			return true
		}
	}
	return false
}

// HasCrop reports exact membership in the crop vocabulary.
func (s *Snapshot) HasCrop(crop string) bool {
	for _, v := range s.Crops {
		if v == crop {
			return true
		}
	}
	return false
}

// TitleCase capitalizes the first letter of every word and lowers the rest,
// so "tamil nadu" and "TAMIL NADU" both become "Tamil Nadu".
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
