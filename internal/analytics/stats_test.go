package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowth(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty series", values: nil, expected: 0.0},
		{name: "single point", values: []float64{100}, expected: 0.0},
		{name: "zero baseline", values: []float64{0, 50}, expected: 0.0},
		{name: "fifty percent increase", values: []float64{100, 120, 150}, expected: 50.0},
		{name: "decline", values: []float64{200, 150, 100}, expected: -50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, growth(tt.values), 1e-9)
		})
	}
}

func TestPearson(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		r := pearson([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
		assert.InDelta(t, 1.0, r, 1e-9)
	})

	t.Run("perfect negative", func(t *testing.T) {
		r := pearson([]float64{1, 2, 3, 4}, []float64{40, 30, 20, 10})
		assert.InDelta(t, -1.0, r, 1e-9)
	})

	t.Run("too few points", func(t *testing.T) {
		assert.True(t, math.IsNaN(pearson([]float64{1}, []float64{2})))
	})

	t.Run("zero variance", func(t *testing.T) {
		assert.True(t, math.IsNaN(pearson([]float64{5, 5, 5}, []float64{1, 2, 3})))
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.True(t, math.IsNaN(pearson([]float64{1, 2}, []float64{1, 2, 3})))
	})
}

func TestInterpretCorrelation(t *testing.T) {
	tests := []struct {
		name        string
		coefficient float64
		expected    string
	}{
		{name: "nan", coefficient: math.NaN(), expected: "insufficient data for correlation"},
		{name: "strong positive", coefficient: 0.9, expected: "strong positive association"},
		{name: "strong negative", coefficient: -0.85, expected: "strong negative association"},
		{name: "moderate positive", coefficient: 0.5, expected: "moderate positive association"},
		{name: "moderate negative", coefficient: -0.5, expected: "moderate negative association"},
		{name: "weak positive", coefficient: 0.1, expected: "weak positive association"},
		{name: "boundary strong", coefficient: 0.7, expected: "strong positive association"},
		{name: "boundary moderate", coefficient: 0.4, expected: "moderate positive association"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, interpretCorrelation(tt.coefficient))
		})
	}
}
