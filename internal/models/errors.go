package models

import "fmt"

// TypeError indicates a non-numeric cell where a reading was expected.
type TypeError struct {
	Row   int
	Col   int
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: cell [%d][%d] is %T (%v), want a number", e.Row, e.Col, e.Value, e.Value)
}

// ValidationError indicates a table that is numeric but physically or structurally invalid,
// e.g. ragged rows or negative inflammation values.
type ValidationError struct {
	Row    int
	Col    int
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Col < 0 {
		return fmt.Sprintf("validation error: row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("validation error: cell [%d][%d] = %g: %s", e.Row, e.Col, e.Value, e.Reason)
}
