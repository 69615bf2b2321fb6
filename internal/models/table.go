package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Table holds inflammation readings: one row per patient, one column per day.
// NaN marks a missing or invalid reading.
type Table [][]float64

// Shape returns the number of patients and days. Call Validate first for ragged input.
func (t Table) Shape() (patients, days int) {
	if len(t) == 0 {
		return 0, 0
	}
	return len(t), len(t[0])
}

// Validate reports a *ValidationError if rows differ in length.
func (t Table) Validate() error {
	if len(t) == 0 {
		return nil
	}
	days := len(t[0])
	for i, row := range t {
		if len(row) != days {
			return &ValidationError{Row: i, Col: -1, Reason: fmt.Sprintf("ragged table: expected %d days, got %d", days, len(row))}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// CountNaN returns the number of NaN cells.
func (t Table) CountNaN() int {
	n := 0
	for _, row := range t {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// ToTable converts loosely typed cells into a Table. Any numeric Go kind is accepted;
// strings, byte slices and other non-numeric values fail with *TypeError, and nil cells
// become NaN. The result is validated for shape.
func ToTable(rows [][]any) (Table, error) {
	out := make(Table, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		for j, cell := range row {
			x, err := toReading(cell)
			if err != nil {
				return nil, &TypeError{Row: i, Col: j, Value: cell}
			}
			out[i][j] = x
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func toReading(cell any) (float64, error) {
	switch cell.(type) {
	case nil:
		return math.NaN(), nil
	case string, []byte, bool:
		// cast would happily parse "12" or true; readings must already be numbers
		return 0, errNotNumeric
	}
	return cast.ToFloat64E(cell)
}

var errNotNumeric = errors.New("not numeric")
