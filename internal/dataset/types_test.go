package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "tamil nadu", expected: "Tamil Nadu"},
		{input: "TAMIL NADU", expected: "Tamil Nadu"},
		{input: "karnataka", expected: "Karnataka"},
		{input: "  punjab  ", expected: "Punjab"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TitleCase(tt.input))
	}
}

func TestNewSnapshot_NormalizesAndBuildsVocabularies(t *testing.T) {
	production := []ProductionRow{
		{State: "karnataka", District: "mysuru", Crop: "rice", Year: 2021, ProductionTonnes: 100},
		{State: "KARNATAKA", District: "belagavi", Crop: "maize", Year: 2021, ProductionTonnes: 80},
		{State: "maharashtra", District: "pune", Crop: "rice", Year: 2021, ProductionTonnes: 90},
	}
	rainfall := []RainfallRow{
		{State: "kerala", Year: 2021, AnnualRainfallMM: 2800},
		{State: "karnataka", Year: 2021, AnnualRainfallMM: 950},
	}

	snap := NewSnapshot(production, rainfall, nil)

	assert.Equal(t, "Karnataka", snap.Production[0].State)
	assert.Equal(t, "Mysuru", snap.Production[0].District)
	assert.Equal(t, "Rice", snap.Production[0].Crop)

	// First-seen order, duplicates collapsed.
	assert.Equal(t, []string{"Karnataka", "Maharashtra"}, snap.ProductionStates)
	assert.Equal(t, []string{"Rice", "Maize"}, snap.Crops)
	assert.Equal(t, []string{"Kerala", "Karnataka"}, snap.RainfallStates)

	assert.True(t, snap.HasProductionState("Karnataka"))
	assert.False(t, snap.HasProductionState("Kerala"))
	assert.True(t, snap.HasRainfallState("Kerala"))
	assert.True(t, snap.HasCrop("Maize"))
	assert.False(t, snap.HasCrop("Wheat"))
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestSnapshot_Metadata(t *testing.T) {
	meta := map[string]Metadata{
		NameAgriculture: {SourceURL: "https://example.org/agri", ResourceID: "agri-001"},
	}
	snap := NewSnapshot(nil, nil, meta)

	assert.Equal(t, "agri-001", snap.Metadata(NameAgriculture).ResourceID)
	assert.Equal(t, Metadata{}, snap.Metadata("bogus"))

	var empty Snapshot
	assert.Equal(t, Metadata{}, empty.Metadata(NameAgriculture))
}
