package analytics

import (
	"fmt"
	"math"
)

// growth returns the percentage change from the first to the last value.
// Fewer than 2 points, or a zero baseline, yields 0.0 by policy.
func growth(values []float64) float64 {
	if len(values) < 2 || values[0] == 0 {
		return 0.0
	}
	return (values[len(values)-1] - values[0]) / values[0] * 100.0
}

// pearson computes the Pearson correlation coefficient of two aligned series.
// Returns NaN when fewer than 2 points or either series has zero variance.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX) * math.Sqrt(varY)
	if denom == 0 {
		return math.NaN()
	}
	return cov / denom
}

// interpretCorrelation buckets a coefficient into a narrative phrase:
// |r| ≥ 0.7 strong, ≥ 0.4 moderate, else weak, crossed with sign.
func interpretCorrelation(coefficient float64) string {
	if math.IsNaN(coefficient) {
		return "insufficient data for correlation"
	}

	absCoeff := math.Abs(coefficient)
	level := "weak"
	if absCoeff >= 0.7 {
		level = "strong"
	} else if absCoeff >= 0.4 {
		level = "moderate"
	}

	direction := "negative"
	if coefficient > 0 {
		direction = "positive"
	}

	return fmt.Sprintf("%s %s association", level, direction)
}
