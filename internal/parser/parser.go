package parser

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/inflammation-cli/internal/models"
)

// Parser loads an observation table from a file on disk.
type Parser interface {
	CanParse(filename string) bool
	Parse(path string) (models.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on the file extension and loads the table.
func ParseFile(path string) (models.Table, error) {
	for _, p := range registry {
		if p.CanParse(path) {
			return p.Parse(path)
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

// Supported reports whether some registered parser accepts the filename.
func Supported(filename string) bool {
	for _, p := range registry {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}

func init() {
	Register(jsonParser{})
	Register(csvParser{})
}

// ErrUnsupported indicates a file format no parser handles.
var ErrUnsupported = errors.New("unsupported observation file format")

// ParseError reports a malformed observation file. No partial table accompanies it.
type ParseError struct {
	Path string
	// Record is the 0-based record (JSON object or CSV line) at fault, or -1 for the whole file.
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("parse %s: record %d: %v", e.Path, e.Record, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// checkShape wraps a ragged-table failure in a ParseError pointing at the offending record.
func checkShape(path string, t models.Table) error {
	err := t.Validate()
	if err == nil {
		return nil
	}
	rec := -1
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		rec = vErr.Row
	}
	return &ParseError{Path: path, Record: rec, Err: err}
}

// checkFinite rejects infinite readings; NaN stays as the missing-value marker.
func checkFinite(path string, t models.Table) error {
	for i, row := range t {
		for j, v := range row {
			if math.IsInf(v, 0) {
				return &ParseError{Path: path, Record: i, Err: fmt.Errorf("column %d: non-finite reading %v", j, v)}
			}
		}
	}
	return nil
}
