package parser_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/inflammation-cli/internal/models"
	"github.com/KaramelBytes/inflammation-cli/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadJSON(t *testing.T) {
	p := writeFile(t, "example.json", `[{"observations":[1, 2, 3]},{"observations":[4, 5, 6]}]`)
	got, err := parser.LoadJSON(p)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	want := models.Table{{1, 2, 3}, {4, 5, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("table = %v, want %v", got, want)
	}
}

func TestLoadJSONRereadsFile(t *testing.T) {
	p := writeFile(t, "example.json", `[{"observations":[1]}]`)
	if _, err := parser.LoadJSON(p); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := os.WriteFile(p, []byte(`[{"observations":[7]}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := parser.LoadJSON(p)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got[0][0] != 7 {
		t.Fatalf("stale table returned: %v", got)
	}
}

func TestLoadJSONNullIsNaN(t *testing.T) {
	p := writeFile(t, "gaps.json", `[{"observations":[1, null, 3]}, {"observations":[0, 2, 4], "patient":"b"}]`)
	got, err := parser.LoadJSON(p)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if !math.IsNaN(got[0][1]) {
		t.Fatalf("expected NaN for null reading, got %v", got[0][1])
	}
	if got.CountNaN() != 1 {
		t.Fatalf("CountNaN = %d, want 1", got.CountNaN())
	}
}

func TestLoadJSONEmptyArray(t *testing.T) {
	got, err := parser.LoadJSON(writeFile(t, "empty.json", `[]`))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty table, got %v", got)
	}
}

func TestLoadJSONErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		record  int
		msg     string
	}{
		{"malformed", `[{"observations":[1, 2}`, -1, "parse"},
		{"not an array", `{"observations":[1, 2]}`, -1, "parse"},
		{"null document", `null`, -1, "expected a JSON array"},
		{"missing key", `[{"observations":[1]}, {"obs":[2]}]`, 1, `missing "observations"`},
		{"key case differs", `[{"observations":[1]}, {"Observations":[2]}]`, 1, `missing "observations"`},
		{"null observations", `[{"observations":null}]`, 0, `missing "observations"`},
		{"observations not array", `[{"observations":{"day":1}}]`, 0, "parse"},
		{"nested reading", `[{"observations":[1, [2]]}]`, 0, "type error"},
		{"string reading", `[{"observations":["Hello", "there"]}]`, 0, "parse"},
		{"record not object", `[{"observations":[1]}, 5]`, 1, "parse"},
		{"ragged", `[{"observations":[1, 2]}, {"observations":[3]}]`, 1, "ragged"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeFile(t, "bad.json", tc.content)
			got, err := parser.LoadJSON(p)
			if got != nil {
				t.Fatalf("expected no table, got %v", got)
			}
			var pe *parser.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.Record != tc.record {
				t.Fatalf("record = %d, want %d", pe.Record, tc.record)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("error %q does not mention %q", err, tc.msg)
			}
		})
	}
}

func TestLoadJSONRaggedUnwrapsValidation(t *testing.T) {
	p := writeFile(t, "ragged.json", `[{"observations":[1, 2]}, {"observations":[3]}]`)
	_, err := parser.LoadJSON(p)
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected wrapped *models.ValidationError, got %v", err)
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := parser.LoadJSON(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	in := models.Table{{0, 0.5, 1}, {1, math.NaN(), 0.25}}
	b, err := parser.EncodeJSON(in)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if !strings.Contains(string(b), "null") {
		t.Fatalf("expected NaN encoded as null: %s", b)
	}
	p := writeFile(t, "roundtrip.json", string(b))
	out, err := parser.LoadJSON(p)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if len(out) != 2 || out[0][1] != 0.5 || out[1][2] != 0.25 || !math.IsNaN(out[1][1]) {
		t.Fatalf("round trip = %v", out)
	}
}

func TestLoadJSONStringReadingIsTypeError(t *testing.T) {
	p := writeFile(t, "strings.json", `[{"observations":[1, 2]}, {"observations":["General", "Kenobi"]}]`)
	_, err := parser.LoadJSON(p)
	var typeErr *models.TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected wrapped *models.TypeError, got %T: %v", err, err)
	}
	if typeErr.Row != 1 || typeErr.Col != 0 || typeErr.Value != "General" {
		t.Fatalf("type error = %+v", typeErr)
	}
	var pe *parser.ParseError
	if !errors.As(err, &pe) || pe.Record != 1 {
		t.Fatalf("expected *ParseError for record 1, got %v", err)
	}
}

func TestLoadJSONDecimalReadings(t *testing.T) {
	p := writeFile(t, "decimals.json", `[{"observations":[0.1, 2.5e-1, 17]}]`)
	got, err := parser.LoadJSON(p)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	want := models.Table{{0.1, 0.25, 17}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("table = %v, want %v", got, want)
	}
}

func TestLoadJSONRejectsOverflow(t *testing.T) {
	p := writeFile(t, "huge.json", `[{"observations":[1, 1e400]}]`)
	got, err := parser.LoadJSON(p)
	if got != nil || err == nil {
		t.Fatalf("expected error for out-of-range reading, got %v, %v", got, err)
	}
}
