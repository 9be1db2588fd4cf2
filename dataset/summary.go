package dataset

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for one field.
type Summary struct {
	Field  string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// Summarize computes per-field statistics over the whole dataset, in
// field order.
func Summarize(d *Dataset) []Summary {
	return lo.Map(d.Fields, func(field string, _ int) Summary {
		return summarizeColumn(field, d.Column(field))
	})
}

func summarizeColumn(field string, values []float64) Summary {
	s := Summary{Field: field, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = stat.Mean(values, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
