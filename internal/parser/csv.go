package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/inflammation-cli/internal/models"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool { return hasExt(filename, ".csv") }

func (csvParser) Parse(path string) (models.Table, error) { return LoadCSV(path) }

// LoadCSV reads comma-separated readings, one patient per line and no header.
// "nan" cells (any case) load as NaN; infinite readings are rejected.
func LoadCSV(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observations: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.TrimLeadingSpace = true
	// ragged rows are reported below as a validation failure rather than a csv error
	r.FieldsPerRecord = -1

	t := models.Table{}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Path: path, Record: len(t), Err: err}
		}
		row := make([]float64, len(rec))
		for j, cell := range rec {
			x, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, &ParseError{Path: path, Record: len(t), Err: fmt.Errorf("column %d: %q is not a number", j, cell)}
			}
			if math.IsInf(x, 0) {
				return nil, &ParseError{Path: path, Record: len(t), Err: fmt.Errorf("column %d: non-finite reading %q", j, cell)}
			}
			row[j] = x
		}
		t = append(t, row)
	}
	if err := checkShape(path, t); err != nil {
		return nil, err
	}
	return t, nil
}
