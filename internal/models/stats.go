package models

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// reducer collapses one day's readings into a single value.
type reducer func(stats.Float64Data) (float64, error)

// DailyMean returns the mean reading of each day across all patients.
// A NaN anywhere in a day's column makes that day's mean NaN.
func DailyMean(t Table) ([]float64, error) {
	return daily(t, stats.Mean)
}

// DailyMax returns the highest reading of each day across all patients.
// A NaN anywhere in a day's column makes that day's max NaN.
func DailyMax(t Table) ([]float64, error) {
	return daily(t, stats.Max)
}

// DailyMin returns the lowest reading of each day across all patients.
// A NaN anywhere in a day's column makes that day's min NaN.
func DailyMin(t Table) ([]float64, error) {
	return daily(t, stats.Min)
}

// DailyStdDev returns the population standard deviation of each day.
func DailyStdDev(t Table) ([]float64, error) {
	return daily(t, stats.StandardDeviationPopulation)
}

func daily(t Table, reduce reducer) ([]float64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	patients, days := t.Shape()
	out := make([]float64, days)
	col := make([]float64, patients)
	for d := 0; d < days; d++ {
		hasNaN := false
		for p := 0; p < patients; p++ {
			col[p] = t[p][d]
			if math.IsNaN(col[p]) {
				hasNaN = true
			}
		}
		// stats.Max/Min skip NaN unless it comes first; keep propagation consistent
		if hasNaN {
			out[d] = math.NaN()
			continue
		}
		v, err := reduce(col)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", d, err)
		}
		out[d] = v
	}
	return out, nil
}

// PatientNormalise scales each patient's readings by that patient's peak, ignoring NaN
// when finding the peak. NaN results (missing readings, all-zero or all-NaN rows) become 0.
// Negative readings are rejected with *ValidationError before anything is computed.
func PatientNormalise(t Table) (Table, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	for i, row := range t {
		for j, v := range row {
			if v < 0 {
				return nil, &ValidationError{Row: i, Col: j, Value: v, Reason: "inflammation values should not be negative"}
			}
		}
	}
	out := make(Table, len(t))
	for i, row := range t {
		peak := rowPeak(row)
		out[i] = make([]float64, len(row))
		for j, v := range row {
			x := v / peak
			if math.IsNaN(x) {
				x = 0
			}
			out[i][j] = x
		}
	}
	return out, nil
}

// rowPeak returns the largest non-NaN value, or NaN if there is none.
func rowPeak(row []float64) float64 {
	vals := make(stats.Float64Data, 0, len(row))
	for _, v := range row {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	peak, err := stats.Max(vals)
	if err != nil {
		return math.NaN()
	}
	return peak
}
