package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/KaramelBytes/inflammation-cli/internal/models"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
)

type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool { return hasExt(filename, ".json") }

func (jsonParser) Parse(path string) (models.Table, error) { return LoadJSON(path) }

// record is one patient's entry in an observations file, as written by EncodeJSON.
type record struct {
	Observations *[]*float64 `json:"observations"`
}

const observationsKey = "observations"

// LoadJSON reads a JSON array of {"observations": [...]} records into a table,
// one row per record in file order. The key must match exactly; null readings load as NaN.
// The file is read in full on every call.
func LoadJSON(path string) (models.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Record: -1, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Path: path, Record: -1, Err: errors.New("expected a JSON array of records")}
	}
	rows := make([][]any, len(raw))
	for i, msg := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(msg, &fields); err != nil {
			return nil, &ParseError{Path: path, Record: i, Err: err}
		}
		obs, ok := fields[observationsKey]
		if !ok || string(bytes.TrimSpace(obs)) == "null" {
			return nil, &ParseError{Path: path, Record: i, Err: fmt.Errorf("missing %q", observationsKey)}
		}
		dec := json.NewDecoder(bytes.NewReader(obs))
		dec.UseNumber()
		if err := dec.Decode(&rows[i]); err != nil {
			return nil, &ParseError{Path: path, Record: i, Err: err}
		}
	}
	t, err := models.ToTable(rows)
	if err != nil {
		rec := -1
		var typeErr *models.TypeError
		var vErr *models.ValidationError
		switch {
		case errors.As(err, &typeErr):
			rec = typeErr.Row
		case errors.As(err, &vErr):
			rec = vErr.Row
		}
		return nil, &ParseError{Path: path, Record: rec, Err: err}
	}
	if err := checkFinite(path, t); err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeJSON renders a table in the observations format read by LoadJSON.
// NaN readings are written as null.
func EncodeJSON(t models.Table) ([]byte, error) {
	recs := make([]record, len(t))
	for i, row := range t {
		obs := make([]*float64, len(row))
		for j := range row {
			if math.IsNaN(row[j]) {
				continue
			}
			v := row[j]
			obs[j] = &v
		}
		recs[i] = record{Observations: &obs}
	}
	return utils.PrettyJSON(recs)
}
