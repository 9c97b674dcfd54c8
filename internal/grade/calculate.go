package grade

import (
	"math"

	"github.com/pavelanni/gradeace/internal/model"
)

// DefaultTolerance absorbs floating-point summation noise such as
// 33.34 + 33.33 + 33.33 without accepting any input a person would call wrong.
const DefaultTolerance = 1e-9

// Options tune the calculation.
type Options struct {
	// Tolerance is the allowed absolute distance of the weight sum from 100.
	// Zero requires exact equality.
	Tolerance float64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// TotalWeight sums the weights of all categories. Text that is not a number
// counts as zero.
func TotalWeight(categories []model.Category) float64 {
	var total float64
	for _, c := range categories {
		total += percentOrZero(c.Weight)
	}
	return total
}

// Calculate validates the categories and returns the weighted final grade on a
// 0-100 scale. Failures are *ValidationError values.
func Calculate(categories []model.Category, opts Options) (float64, error) {
	total := TotalWeight(categories)
	if !WeightsComplete(total, opts.Tolerance) {
		return 0, &ValidationError{Kind: KindWeightMismatch, Total: total}
	}

	for _, c := range categories {
		if err := checkEntry(c); err != nil {
			return 0, err
		}
	}

	var grade float64
	for _, c := range categories {
		grade += percentOrZero(c.Weight) / 100 * percentOrZero(c.Score)
	}
	return grade, nil
}

// WeightsComplete reports whether total counts as 100 under tolerance.
func WeightsComplete(total, tolerance float64) bool {
	if tolerance <= 0 {
		return total == 100
	}
	return math.Abs(total-100) <= tolerance
}

func checkEntry(c model.Category) error {
	weight, wok := ParsePercent(c.Weight)
	score, sok := ParsePercent(c.Score)
	if !wok || !sok || weight < 0 || score < 0 || score > 100 {
		return &ValidationError{Kind: KindInvalidEntry, Category: DisplayName(c)}
	}
	return nil
}

// DisplayName returns the category name, or a placeholder when it is empty.
func DisplayName(c model.Category) string {
	if c.Name == "" {
		return PlaceholderName
	}
	return c.Name
}
